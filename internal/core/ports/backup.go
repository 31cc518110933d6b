package ports

import (
	"context"

	"github.com/modelb-network/voucherd/internal/core/domain"
)

// BackupService defines the methods of the encrypted voucher backup the core
// depends on. Vouchers covered here are the non-deterministic ones that
// cannot be re-derived from a seed, so losing them means losing funds.
// Key derivation and storage encryption belong to the implementation.
type BackupService interface {
	// Backup stores the given batch of vouchers under the user key.
	Backup(ctx context.Context, vouchers []*domain.SignedVoucher, userKey string) error
	// Restore fetches all backed-up vouchers for the user key.
	Restore(ctx context.Context, userKey string) ([]*domain.SignedVoucher, error)
	// HasBackups returns whether any backup exists for the user key.
	HasBackups(ctx context.Context, userKey string) (bool, error)
	// DeleteBackups removes every backup stored under the user key.
	DeleteBackups(ctx context.Context, userKey string) error
}
