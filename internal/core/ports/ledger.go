package ports

import (
	"context"

	"github.com/modelb-network/voucherd/internal/core/domain"
)

// LedgerService defines the methods of the public status ledger the core
// depends on. Implementations own transport, retries and encoding; the core
// only sees operation-level success or failure.
//
// UpdateStatus calls for a given voucher id must be linearizable and the
// implementation must enforce the status state machine, in particular the
// at-most-one REDEEMED transition, e.g. with an atomic conditional replace.
type LedgerService interface {
	// Publish records a voucher on the ledger with its initial status.
	Publish(ctx context.Context, voucher *domain.SignedVoucher, status domain.VoucherStatus) error
	// QueryStatus returns the current status of a voucher and whether the
	// ledger knows the id at all.
	QueryStatus(ctx context.Context, voucherId string) (domain.VoucherStatus, bool, error)
	// UpdateStatus advances the status of a voucher.
	UpdateStatus(ctx context.Context, voucherId string, status domain.VoucherStatus) error
	// Exists returns whether the ledger holds a status for the voucher id.
	Exists(ctx context.Context, voucherId string) (bool, error)
	// QueryVoucher returns the published voucher credential, nil if the
	// ledger does not store credentials or does not know the id.
	QueryVoucher(ctx context.Context, voucherId string) (*domain.SignedVoucher, error)
}
