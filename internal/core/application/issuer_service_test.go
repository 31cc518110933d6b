package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelb-network/voucherd/internal/core/application"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/pkg/vouchersig"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validIssueRequest() application.IssueVoucherRequest {
	return application.IssueVoucherRequest{
		IssuerId: testIssuerId,
		Unit:     "sat",
		Amount:   1000,
	}
}

func TestIssueVoucher(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).Return(nil)

	svc := application.NewIssuerService(signer, ledger)
	voucher, err := svc.IssueVoucher(context.Background(), validIssueRequest())
	require.NoError(t, err)
	require.NotNil(t, voucher)

	secret := voucher.Secret()
	require.NotEmpty(t, secret.Id)
	require.Equal(t, testIssuerId, secret.IssuerId)
	require.Equal(t, uint64(1000), secret.FaceValue)
	require.Zero(t, secret.ExpiresAt)
	require.Equal(t, domain.BackingFixed, secret.BackingStrategy)
	require.True(t, voucher.Verify(vouchersig.NewVerifier()))

	ledger.AssertCalled(t, "Publish", mock.Anything, voucher, domain.StatusIssued)
}

func TestIssueVoucherComputesExpiry(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).Return(nil)

	svc := application.NewIssuerService(signer, ledger)
	req := validIssueRequest()
	req.ExpiryDays = 30

	before := time.Now().AddDate(0, 0, 30).Unix()
	voucher, err := svc.IssueVoucher(context.Background(), req)
	require.NoError(t, err)
	after := time.Now().AddDate(0, 0, 30).Unix()

	expiresAt := voucher.Secret().ExpiresAt
	require.GreaterOrEqual(t, expiresAt, before)
	require.LessOrEqual(t, expiresAt, after)
}

func TestIssueVoucherHonorsSuppliedId(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).Return(nil)

	svc := application.NewIssuerService(signer, ledger)
	req := validIssueRequest()
	req.VoucherId = "caller-chosen-id"

	voucher, err := svc.IssueVoucher(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "caller-chosen-id", voucher.Id())
}

func TestIssueVoucherProportionalBacking(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).Return(nil)

	svc := application.NewIssuerService(signer, ledger)
	req := validIssueRequest()
	req.BackingStrategy = domain.BackingProportional
	req.IssuanceRatio = decimal.NewFromFloat(0.8)

	voucher, err := svc.IssueVoucher(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, domain.BackingProportional, voucher.Secret().BackingStrategy)

	t.Run("missing_ratio", func(t *testing.T) {
		req := validIssueRequest()
		req.BackingStrategy = domain.BackingProportional
		_, err := svc.IssueVoucher(context.Background(), req)
		require.EqualError(t, err, domain.ErrNonPositiveIssuanceRatio.Error())
	})
}

func TestIssueVoucherRequestValidation(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	svc := application.NewIssuerService(signer, ledger)

	tests := []struct {
		name        string
		mutate      func(*application.IssueVoucherRequest)
		expectedErr error
	}{
		{
			name:        "blank_issuer",
			mutate:      func(r *application.IssueVoucherRequest) { r.IssuerId = " " },
			expectedErr: application.ErrMissingIssuerId,
		},
		{
			name:        "blank_unit",
			mutate:      func(r *application.IssueVoucherRequest) { r.Unit = "" },
			expectedErr: application.ErrMissingUnit,
		},
		{
			name:        "zero_amount",
			mutate:      func(r *application.IssueVoucherRequest) { r.Amount = 0 },
			expectedErr: application.ErrNonPositiveAmount,
		},
		{
			name:        "negative_expiry",
			mutate:      func(r *application.IssueVoucherRequest) { r.ExpiryDays = -1 },
			expectedErr: application.ErrNegativeExpiryDays,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			req := validIssueRequest()
			tt.mutate(&req)
			_, err := svc.IssueVoucher(context.Background(), req)
			require.EqualError(t, err, tt.expectedErr.Error())
			// Precondition failures never reach the ledger.
			ledger.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestIssueVoucherPublishFailureIsFatal(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).
		Return(errors.New("relay unreachable"))

	svc := application.NewIssuerService(signer, ledger)
	_, err := svc.IssueVoucher(context.Background(), validIssueRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "relay unreachable")
}

func TestIssuancePolicy(t *testing.T) {
	signer := newTestSigner(t)
	ledger := &mockLedgerService{}
	ledger.On("Publish", mock.Anything, mock.Anything, domain.StatusIssued).Return(nil)

	svc := application.NewIssuerServiceWithPolicy(
		application.NewIssuerService(signer, ledger),
		application.IssuancePolicy{MaxAmount: 5000, MaxExpiryDays: 90},
	)

	t.Run("within_policy", func(t *testing.T) {
		req := validIssueRequest()
		req.Amount = 5000
		req.ExpiryDays = 90
		_, err := svc.IssueVoucher(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("amount_above_ceiling", func(t *testing.T) {
		req := validIssueRequest()
		req.Amount = 5001
		_, err := svc.IssueVoucher(context.Background(), req)
		require.EqualError(t, err, application.ErrAmountAbovePolicy.Error())
	})

	t.Run("expiry_above_ceiling", func(t *testing.T) {
		req := validIssueRequest()
		req.ExpiryDays = 91
		_, err := svc.IssueVoucher(context.Background(), req)
		require.EqualError(t, err, application.ErrExpiryAbovePolicy.Error())
	})

	t.Run("unlimited_when_unset", func(t *testing.T) {
		open := application.NewIssuerServiceWithPolicy(
			application.NewIssuerService(signer, ledger),
			application.IssuancePolicy{},
		)
		req := validIssueRequest()
		req.Amount = 1 << 40
		_, err := open.IssueVoucher(context.Background(), req)
		require.NoError(t, err)
	})
}
