package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
)

var (
	// ErrVoucherAlreadyPublished ...
	ErrVoucherAlreadyPublished = errors.New("voucher is already published on the ledger")
	// ErrVoucherNotFound ...
	ErrVoucherNotFound = errors.New("voucher not found on the ledger")
	// ErrTransitionNotAllowed is returned on any transition out of a
	// terminal status, including a second REDEEMED attempt.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// ledgerService is an in-memory LedgerService used by tests. The single mutex
// serializes all status writes, which gives the linearizable conditional
// update the port contract demands.
type ledgerService struct {
	statuses map[string]domain.VoucherStatus
	vouchers map[string]*domain.SignedVoucher
	lock     *sync.RWMutex
}

// NewLedgerService returns an empty in-memory ledger.
func NewLedgerService() ports.LedgerService {
	return &ledgerService{
		statuses: map[string]domain.VoucherStatus{},
		vouchers: map[string]*domain.SignedVoucher{},
		lock:     &sync.RWMutex{},
	}
}

func (l *ledgerService) Publish(_ context.Context, voucher *domain.SignedVoucher, status domain.VoucherStatus) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	id := voucher.Id()
	if _, ok := l.statuses[id]; ok {
		return ErrVoucherAlreadyPublished
	}
	l.statuses[id] = status
	l.vouchers[id] = voucher
	return nil
}

func (l *ledgerService) QueryStatus(_ context.Context, voucherId string) (domain.VoucherStatus, bool, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	status, ok := l.statuses[voucherId]
	return status, ok, nil
}

func (l *ledgerService) UpdateStatus(_ context.Context, voucherId string, status domain.VoucherStatus) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	current, ok := l.statuses[voucherId]
	if !ok {
		return ErrVoucherNotFound
	}
	if !current.CanTransitionTo(status) {
		return ErrTransitionNotAllowed
	}
	l.statuses[voucherId] = status
	return nil
}

func (l *ledgerService) Exists(ctx context.Context, voucherId string) (bool, error) {
	_, ok, err := l.QueryStatus(ctx, voucherId)
	return ok, err
}

func (l *ledgerService) QueryVoucher(_ context.Context, voucherId string) (*domain.SignedVoucher, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.vouchers[voucherId], nil
}
