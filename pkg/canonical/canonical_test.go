package canonical_test

import (
	"testing"

	"github.com/modelb-network/voucherd/pkg/canonical"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Id     string            `cbor:"1,keyasint"`
	Amount uint64            `cbor:"2,keyasint"`
	Labels map[string]string `cbor:"3,keyasint"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	p := payload{
		Id:     "abc",
		Amount: 1000,
		Labels: map[string]string{"z": "last", "a": "first", "m": "middle"},
	}

	first, err := canonical.Marshal(p)
	require.NoError(t, err)

	// Re-marshal several times; Go map iteration order is random so this
	// would flake if map keys were not sorted by the encoder.
	for i := 0; i < 10; i++ {
		again, err := canonical.Marshal(p)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMarshalChangesWithValue(t *testing.T) {
	p := payload{Id: "abc", Amount: 1000}
	q := payload{Id: "abc", Amount: 1001}

	pb, err := canonical.Marshal(p)
	require.NoError(t, err)
	qb, err := canonical.Marshal(q)
	require.NoError(t, err)

	require.NotEqual(t, pb, qb)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	p := payload{Id: "abc", Amount: 42, Labels: map[string]string{"k": "v"}}

	buf, err := canonical.Marshal(p)
	require.NoError(t, err)

	var decoded payload
	require.NoError(t, canonical.Unmarshal(buf, &decoded))
	require.Equal(t, p, decoded)
}
