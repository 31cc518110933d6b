package canonical

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode is configured once with the CBOR core deterministic encoding rules:
// shortest-form integers, sorted map keys, no indefinite lengths. Identical
// logical values always marshal to identical bytes, which makes the output
// usable as a signature input.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

// Marshal returns the deterministic CBOR encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Decoding is not required to be
// deterministic, only encoding is.
func Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}
