package inmemory

import (
	"context"
	"sync"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
)

// backupService is an in-memory BackupService used by tests. Batches are
// merged by voucher id under each user key.
type backupService struct {
	vouchersByKey map[string]map[string]*domain.SignedVoucher
	lock          *sync.RWMutex
}

// NewBackupService returns an empty in-memory backup store.
func NewBackupService() ports.BackupService {
	return &backupService{
		vouchersByKey: map[string]map[string]*domain.SignedVoucher{},
		lock:          &sync.RWMutex{},
	}
}

func (b *backupService) Backup(_ context.Context, vouchers []*domain.SignedVoucher, userKey string) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	bucket, ok := b.vouchersByKey[userKey]
	if !ok {
		bucket = map[string]*domain.SignedVoucher{}
		b.vouchersByKey[userKey] = bucket
	}
	for _, voucher := range vouchers {
		bucket[voucher.Id()] = voucher
	}
	return nil
}

func (b *backupService) Restore(_ context.Context, userKey string) ([]*domain.SignedVoucher, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	bucket := b.vouchersByKey[userKey]
	out := make([]*domain.SignedVoucher, 0, len(bucket))
	for _, voucher := range bucket {
		out = append(out, voucher)
	}
	return out, nil
}

func (b *backupService) HasBackups(_ context.Context, userKey string) (bool, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.vouchersByKey[userKey]) > 0, nil
}

func (b *backupService) DeleteBackups(_ context.Context, userKey string) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	delete(b.vouchersByKey, userKey)
	return nil
}
