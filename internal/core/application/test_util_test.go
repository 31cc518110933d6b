package application_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/pkg/vouchersig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testIssuerId = "merchant-001"

func newTestSigner(t *testing.T) *vouchersig.Signer {
	t.Helper()
	signer, err := vouchersig.NewRandomSigner()
	require.NoError(t, err)
	return signer
}

func newTestVoucher(t *testing.T, signer *vouchersig.Signer) *domain.SignedVoucher {
	t.Helper()
	secret := &domain.VoucherSecret{
		Id:              uuid.NewString(),
		IssuerId:        testIssuerId,
		Unit:            "sat",
		FaceValue:       1000,
		BackingStrategy: domain.BackingFixed,
		IssuanceRatio:   decimal.NewFromInt(1),
	}
	message, err := secret.Encode()
	require.NoError(t, err)
	sig, err := signer.Sign(message)
	require.NoError(t, err)
	voucher, err := domain.NewSignedVoucher(secret, sig, signer.PublicKey())
	require.NoError(t, err)
	return voucher
}

func newStoredVoucher(t *testing.T, signer *vouchersig.Signer) *domain.StoredVoucher {
	t.Helper()
	stored, err := domain.NewStoredVoucher(newTestVoucher(t, signer), "")
	require.NoError(t, err)
	return stored
}
