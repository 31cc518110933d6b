package application

import (
	"context"
	"fmt"
	"time"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// WalletService runs the customer-side bookkeeping: incremental backups,
// restore with local-wins merge and ledger status refresh.
type WalletService interface {
	// BackupIfNeeded backs up the vouchers that were never backed up or were
	// added since the last backup, returning how many were sent. Backup
	// timestamps are stamped only after the transport acknowledged the
	// batch, so a failed attempt retries the same set.
	BackupIfNeeded(ctx context.Context, vouchers []*domain.StoredVoucher, userKey string) (int, error)
	// RestoreAndMerge fetches all backed-up vouchers and merges them into
	// the local set. Local entries always win on id collision; restored
	// entries absent locally are appended, already marked as backed up.
	RestoreAndMerge(ctx context.Context, local []*domain.StoredVoucher, userKey string) ([]*domain.StoredVoucher, error)
	// VerifyBackup restores and checks that every expected id is covered.
	// Any fetch failure is logged and reported as false, never propagated.
	VerifyBackup(ctx context.Context, expectedIds []string, userKey string) bool
	// RefreshStatus updates the cached ledger status of a stored voucher.
	RefreshStatus(ctx context.Context, stored *domain.StoredVoucher) error
}

type walletService struct {
	backup ports.BackupService
	ledger ports.LedgerService
	now    func() time.Time
}

// NewWalletService returns a wallet service backed by the given ports.
func NewWalletService(backup ports.BackupService, ledger ports.LedgerService) WalletService {
	return &walletService{backup: backup, ledger: ledger, now: time.Now}
}

func (s *walletService) BackupIfNeeded(ctx context.Context, vouchers []*domain.StoredVoucher, userKey string) (int, error) {
	pending := make([]*domain.StoredVoucher, 0, len(vouchers))
	for _, stored := range vouchers {
		if stored.NeedsBackup() {
			pending = append(pending, stored)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := make([]*domain.SignedVoucher, 0, len(pending))
	for _, stored := range pending {
		batch = append(batch, stored.Voucher)
	}

	if err := s.backup.Backup(ctx, batch, userKey); err != nil {
		return 0, fmt.Errorf("backing up %d vouchers: %w", len(batch), err)
	}

	backedUpAt := s.now()
	for _, stored := range pending {
		stored.MarkBackedUp(backedUpAt)
	}

	log.WithField("count", len(pending)).Debug("vouchers backed up")
	return len(pending), nil
}

func (s *walletService) RestoreAndMerge(ctx context.Context, local []*domain.StoredVoucher, userKey string) ([]*domain.StoredVoucher, error) {
	restored, err := s.backup.Restore(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("restoring vouchers from backup: %w", err)
	}

	localIds := make(map[string]struct{}, len(local))
	for _, stored := range local {
		localIds[stored.Id()] = struct{}{}
	}

	// Source precedence, not timestamps: only the local device advances
	// voucher state day to day, so a local entry always beats its restored
	// twin.
	merged := make([]*domain.StoredVoucher, len(local), len(local)+len(restored))
	copy(merged, local)

	for _, voucher := range restored {
		if _, ok := localIds[voucher.Id()]; ok {
			continue
		}
		stored, err := domain.NewStoredVoucher(voucher, "")
		if err != nil {
			return nil, err
		}
		// Stamp with the entry's own AddedAt: a restored copy is backed up
		// by definition and must not re-enter the pending backup set.
		stored.MarkBackedUp(stored.AddedAt)
		merged = append(merged, stored)
	}

	return merged, nil
}

func (s *walletService) VerifyBackup(ctx context.Context, expectedIds []string, userKey string) bool {
	restored, err := s.backup.Restore(ctx, userKey)
	if err != nil {
		log.WithError(err).Warn("backup verification failed")
		return false
	}

	restoredIds := make(map[string]struct{}, len(restored))
	for _, voucher := range restored {
		restoredIds[voucher.Id()] = struct{}{}
	}
	for _, id := range expectedIds {
		if _, ok := restoredIds[id]; !ok {
			return false
		}
	}
	return true
}

func (s *walletService) RefreshStatus(ctx context.Context, stored *domain.StoredVoucher) error {
	if stored == nil {
		return ErrNilVoucher
	}
	status, found, err := s.ledger.QueryStatus(ctx, stored.Id())
	if err != nil {
		return fmt.Errorf("querying status of voucher %s: %w", stored.Id(), err)
	}
	if !found {
		return fmt.Errorf("voucher %s not found in ledger", stored.Id())
	}
	stored.UpdateStatus(status, s.now())
	return nil
}
