package vouchersig

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	// SignatureLen is the length in bytes of a BIP-340 Schnorr signature.
	SignatureLen = 64
	// PubKeyLen is the length in bytes of an x-only public key.
	PubKeyLen = 32
)

var (
	// ErrNilPrivateKey ...
	ErrNilPrivateKey = errors.New("private key must not be nil")
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New("private key must be a 32-byte hex string")
)

// Signer produces Schnorr signatures over secp256k1 for a single issuer key.
// The message is hashed with SHA-256 before signing.
type Signer struct {
	prvKey *btcec.PrivateKey
}

// NewSigner returns a Signer for the given private key.
func NewSigner(prvKey *btcec.PrivateKey) (*Signer, error) {
	if prvKey == nil {
		return nil, ErrNilPrivateKey
	}
	return &Signer{prvKey: prvKey}, nil
}

// NewRandomSigner returns a Signer backed by a freshly generated key pair.
func NewRandomSigner() (*Signer, error) {
	prvKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &Signer{prvKey: prvKey}, nil
}

// NewSignerFromHex returns a Signer for a hex-encoded 32-byte private key.
func NewSignerFromHex(prvKeyHex string) (*Signer, error) {
	buf, err := hex.DecodeString(prvKeyHex)
	if err != nil || len(buf) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	prvKey, _ := btcec.PrivKeyFromBytes(buf)
	return &Signer{prvKey: prvKey}, nil
}

// Sign returns the 64-byte Schnorr signature of SHA-256(message).
func (s *Signer) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := schnorr.Sign(s.prvKey, digest[:])
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// PublicKey returns the hex-encoded x-only public key of the signer.
func (s *Signer) PublicKey() string {
	return hex.EncodeToString(schnorr.SerializePubKey(s.prvKey.PubKey()))
}

// Verifier is a stateless signature verification service.
type Verifier struct{}

// NewVerifier returns a stateless Verifier.
func NewVerifier() Verifier {
	return Verifier{}
}

// Verify reports whether signature is a valid Schnorr signature of
// SHA-256(message) under the hex-encoded x-only public key. Malformed
// signatures or keys yield false, never an error.
func (Verifier) Verify(message, signature []byte, pubKey string) bool {
	if len(signature) != SignatureLen {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	rawKey, err := hex.DecodeString(pubKey)
	if err != nil || len(rawKey) != PubKeyLen {
		return false
	}
	pk, err := schnorr.ParsePubKey(rawKey)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return sig.Verify(digest[:], pk)
}
