package application_test

import (
	"context"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

/*
 * LedgerService
 */
type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) Publish(ctx context.Context, voucher *domain.SignedVoucher, status domain.VoucherStatus) error {
	args := m.Called(ctx, voucher, status)
	return args.Error(0)
}

func (m *mockLedgerService) QueryStatus(ctx context.Context, voucherId string) (domain.VoucherStatus, bool, error) {
	args := m.Called(ctx, voucherId)

	var status domain.VoucherStatus
	if a := args.Get(0); a != nil {
		status = a.(domain.VoucherStatus)
	}
	return status, args.Bool(1), args.Error(2)
}

func (m *mockLedgerService) UpdateStatus(ctx context.Context, voucherId string, status domain.VoucherStatus) error {
	args := m.Called(ctx, voucherId, status)
	return args.Error(0)
}

func (m *mockLedgerService) Exists(ctx context.Context, voucherId string) (bool, error) {
	args := m.Called(ctx, voucherId)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedgerService) QueryVoucher(ctx context.Context, voucherId string) (*domain.SignedVoucher, error) {
	args := m.Called(ctx, voucherId)

	var voucher *domain.SignedVoucher
	if a := args.Get(0); a != nil {
		voucher = a.(*domain.SignedVoucher)
	}
	return voucher, args.Error(1)
}

/*
 * BackupService
 */
type mockBackupService struct {
	mock.Mock
}

func (m *mockBackupService) Backup(ctx context.Context, vouchers []*domain.SignedVoucher, userKey string) error {
	args := m.Called(ctx, vouchers, userKey)
	return args.Error(0)
}

func (m *mockBackupService) Restore(ctx context.Context, userKey string) ([]*domain.SignedVoucher, error) {
	args := m.Called(ctx, userKey)

	var vouchers []*domain.SignedVoucher
	if a := args.Get(0); a != nil {
		vouchers = a.([]*domain.SignedVoucher)
	}
	return vouchers, args.Error(1)
}

func (m *mockBackupService) HasBackups(ctx context.Context, userKey string) (bool, error) {
	args := m.Called(ctx, userKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockBackupService) DeleteBackups(ctx context.Context, userKey string) error {
	args := m.Called(ctx, userKey)
	return args.Error(0)
}
