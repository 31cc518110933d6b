package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/pkg/vouchersig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
)

const testIssuerId = "merchant-001"

func newTestSigner(t *testing.T) *vouchersig.Signer {
	t.Helper()
	signer, err := vouchersig.NewRandomSigner()
	require.NoError(t, err)
	return signer
}

func newTestSecret() *domain.VoucherSecret {
	return &domain.VoucherSecret{
		Id:              uuid.NewString(),
		IssuerId:        testIssuerId,
		Unit:            "sat",
		FaceValue:       1000,
		Memo:            randstr.Hex(8),
		BackingStrategy: domain.BackingFixed,
		IssuanceRatio:   decimal.NewFromInt(1),
		MerchantMetadata: map[string]string{
			"store": "main-street",
		},
	}
}

func newSignedVoucher(t *testing.T, signer *vouchersig.Signer, secret *domain.VoucherSecret) *domain.SignedVoucher {
	t.Helper()
	message, err := secret.Encode()
	require.NoError(t, err)
	sig, err := signer.Sign(message)
	require.NoError(t, err)
	voucher, err := domain.NewSignedVoucher(secret, sig, signer.PublicKey())
	require.NoError(t, err)
	return voucher
}

func expiredSecret(at time.Time) *domain.VoucherSecret {
	secret := newTestSecret()
	secret.ExpiresAt = at.Unix()
	return secret
}
