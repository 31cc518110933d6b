package domain

import (
	"strings"
	"time"
)

// SignatureLen is the exact length in bytes of an issuer signature.
const SignatureLen = 64

// SignatureVerifier is the stateless verification half of the signature
// engine. It must return false, never an error, on malformed signatures or
// keys.
type SignatureVerifier interface {
	Verify(message, signature []byte, pubKey string) bool
}

// SignatureSigner is the signing half of the signature engine, bound to one
// issuer key pair.
type SignatureSigner interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() string
}

// SignedVoucher is the immutable bundle of voucher terms, issuer signature
// and issuer public key. The signature is stored as a fixed-size value and
// copied on every boundary, so no caller-held slice can alter it after
// construction.
type SignedVoucher struct {
	secret    VoucherSecret
	signature [SignatureLen]byte
	pubKey    string
}

// NewSignedVoucher validates the preconditions and bundles terms, signature
// and issuer public key into an immutable signed voucher.
func NewSignedVoucher(secret *VoucherSecret, signature []byte, pubKey string) (*SignedVoucher, error) {
	if secret == nil {
		return nil, ErrNilVoucherSecret
	}
	if err := secret.Validate(); err != nil {
		return nil, err
	}
	if len(signature) != SignatureLen {
		return nil, ErrInvalidSignatureLength
	}
	if strings.TrimSpace(pubKey) == "" {
		return nil, ErrBlankPublicKey
	}

	voucher := &SignedVoucher{
		secret: secret.copy(),
		pubKey: pubKey,
	}
	copy(voucher.signature[:], signature)
	return voucher, nil
}

// Id is a shorthand for the voucher identifier.
func (v *SignedVoucher) Id() string {
	return v.secret.Id
}

// Secret returns a copy of the voucher terms.
func (v *SignedVoucher) Secret() VoucherSecret {
	return v.secret.copy()
}

// Signature returns a fresh copy of the 64-byte issuer signature.
func (v *SignedVoucher) Signature() []byte {
	out := make([]byte, SignatureLen)
	copy(out, v.signature[:])
	return out
}

// PublicKey returns the hex-encoded issuer public key.
func (v *SignedVoucher) PublicKey() string {
	return v.pubKey
}

// Verify reports whether the issuer signature is valid over the canonical
// encoding of the terms. It performs no expiry check.
func (v *SignedVoucher) Verify(verifier SignatureVerifier) bool {
	message, err := v.secret.Encode()
	if err != nil {
		return false
	}
	return verifier.Verify(message, v.signature[:], v.pubKey)
}

// IsExpired reports whether the voucher carries an expiry that has passed.
func (v *SignedVoucher) IsExpired() bool {
	return v.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the voucher is expired at the given instant.
// A voucher without expiry never expires.
func (v *SignedVoucher) IsExpiredAt(now time.Time) bool {
	return v.secret.ExpiresAt > 0 && v.secret.ExpiresAt <= now.Unix()
}

// IsValid reports whether the signature verifies and the voucher is not
// expired.
func (v *SignedVoucher) IsValid(verifier SignatureVerifier) bool {
	return v.Verify(verifier) && !v.IsExpired()
}

// Equal compares terms, signature bytes and issuer public key.
func (v *SignedVoucher) Equal(o *SignedVoucher) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.secret.equal(o.secret) &&
		v.signature == o.signature &&
		v.pubKey == o.pubKey
}

// SignedVoucherData is the flat, serializable form of a signed voucher, used
// by storage and backup adapters.
type SignedVoucherData struct {
	Secret    VoucherSecret `cbor:"1,keyasint" json:"secret"`
	Signature []byte        `cbor:"2,keyasint" json:"signature"`
	PublicKey string        `cbor:"3,keyasint" json:"publicKey"`
}

// Data returns the serializable form of the voucher. All fields are copies.
func (v *SignedVoucher) Data() SignedVoucherData {
	return SignedVoucherData{
		Secret:    v.Secret(),
		Signature: v.Signature(),
		PublicKey: v.pubKey,
	}
}

// SignedVoucherFromData rebuilds a signed voucher from its serialized form,
// re-checking all construction preconditions.
func SignedVoucherFromData(data SignedVoucherData) (*SignedVoucher, error) {
	secret := data.Secret
	return NewSignedVoucher(&secret, data.Signature, data.PublicKey)
}
