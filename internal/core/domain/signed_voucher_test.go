package domain_test

import (
	"testing"
	"time"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/pkg/vouchersig"
	"github.com/stretchr/testify/require"
)

func TestNewSignedVoucherPreconditions(t *testing.T) {
	signer := newTestSigner(t)
	secret := newTestSecret()
	message, err := secret.Encode()
	require.NoError(t, err)
	sig, err := signer.Sign(message)
	require.NoError(t, err)

	tests := []struct {
		name        string
		secret      *domain.VoucherSecret
		signature   []byte
		pubKey      string
		expectedErr error
	}{
		{
			name:        "nil_secret",
			secret:      nil,
			signature:   sig,
			pubKey:      signer.PublicKey(),
			expectedErr: domain.ErrNilVoucherSecret,
		},
		{
			name:        "short_signature",
			secret:      secret,
			signature:   sig[:63],
			pubKey:      signer.PublicKey(),
			expectedErr: domain.ErrInvalidSignatureLength,
		},
		{
			name:        "long_signature",
			secret:      secret,
			signature:   append(append([]byte{}, sig...), 0x00),
			pubKey:      signer.PublicKey(),
			expectedErr: domain.ErrInvalidSignatureLength,
		},
		{
			name:        "nil_signature",
			secret:      secret,
			signature:   nil,
			pubKey:      signer.PublicKey(),
			expectedErr: domain.ErrInvalidSignatureLength,
		},
		{
			name:        "blank_pubkey",
			secret:      secret,
			signature:   sig,
			pubKey:      "   ",
			expectedErr: domain.ErrBlankPublicKey,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewSignedVoucher(tt.secret, tt.signature, tt.pubKey)
			require.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}

func TestSignedVoucherVerify(t *testing.T) {
	signer := newTestSigner(t)
	verifier := vouchersig.NewVerifier()
	voucher := newSignedVoucher(t, signer, newTestSecret())

	require.True(t, voucher.Verify(verifier))

	t.Run("wrong_key", func(t *testing.T) {
		other := newTestSigner(t)
		secret := voucher.Secret()
		mismatched, err := domain.NewSignedVoucher(&secret, voucher.Signature(), other.PublicKey())
		require.NoError(t, err)
		require.False(t, mismatched.Verify(verifier))
	})

	t.Run("tampered_terms", func(t *testing.T) {
		secret := voucher.Secret()
		secret.FaceValue++
		tampered, err := domain.NewSignedVoucher(&secret, voucher.Signature(), voucher.PublicKey())
		require.NoError(t, err)
		require.False(t, tampered.Verify(verifier))
	})
}

func TestSignedVoucherCopiesSignature(t *testing.T) {
	signer := newTestSigner(t)
	secret := newTestSecret()
	message, err := secret.Encode()
	require.NoError(t, err)
	sig, err := signer.Sign(message)
	require.NoError(t, err)

	voucher, err := domain.NewSignedVoucher(secret, sig, signer.PublicKey())
	require.NoError(t, err)
	verifier := vouchersig.NewVerifier()

	// Mutating the slice the caller supplied must not reach the stored value.
	sig[0] ^= 0xff
	require.True(t, voucher.Verify(verifier))

	// Mutating a returned slice must not either.
	leaked := voucher.Signature()
	leaked[0] ^= 0xff
	require.True(t, voucher.Verify(verifier))
	require.NotEqual(t, leaked[0], voucher.Signature()[0])
}

func TestSignedVoucherCopiesMetadata(t *testing.T) {
	signer := newTestSigner(t)
	secret := newTestSecret()
	voucher := newSignedVoucher(t, signer, secret)
	verifier := vouchersig.NewVerifier()

	// Neither the ingress map nor an egress copy may alias the stored terms.
	secret.MerchantMetadata["store"] = "tampered"
	require.True(t, voucher.Verify(verifier))

	egress := voucher.Secret()
	egress.MerchantMetadata["store"] = "tampered"
	require.True(t, voucher.Verify(verifier))
}

func TestSignedVoucherExpiry(t *testing.T) {
	signer := newTestSigner(t)
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt int64
		expired   bool
	}{
		{"one_second_in_the_past", now.Add(-time.Second).Unix(), true},
		{"exactly_now", now.Unix(), true},
		{"one_second_in_the_future", now.Add(time.Second).Unix(), false},
		{"never", 0, false},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			secret := newTestSecret()
			secret.ExpiresAt = tt.expiresAt
			voucher := newSignedVoucher(t, signer, secret)
			require.Equal(t, tt.expired, voucher.IsExpiredAt(now))
		})
	}
}

func TestSignedVoucherIsValid(t *testing.T) {
	signer := newTestSigner(t)
	verifier := vouchersig.NewVerifier()

	t.Run("valid_signature_not_expired", func(t *testing.T) {
		voucher := newSignedVoucher(t, signer, newTestSecret())
		require.True(t, voucher.IsValid(verifier))
		require.Equal(t, voucher.Verify(verifier) && !voucher.IsExpired(), voucher.IsValid(verifier))
	})

	t.Run("valid_signature_expired", func(t *testing.T) {
		voucher := newSignedVoucher(t, signer, expiredSecret(time.Now().Add(-time.Hour)))
		require.True(t, voucher.Verify(verifier))
		require.False(t, voucher.IsValid(verifier))
	})
}

func TestSignedVoucherEqual(t *testing.T) {
	signer := newTestSigner(t)
	secret := newTestSecret()
	voucher := newSignedVoucher(t, signer, secret)

	clone, err := domain.SignedVoucherFromData(voucher.Data())
	require.NoError(t, err)
	require.True(t, voucher.Equal(clone))

	other := newSignedVoucher(t, signer, newTestSecret())
	require.False(t, voucher.Equal(other))
	require.False(t, voucher.Equal(nil))
}
