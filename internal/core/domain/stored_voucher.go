package domain

import "time"

// StoredVoucher is a wallet-side cache entry for a received voucher, tracking
// backup bookkeeping and the last ledger status seen for it.
type StoredVoucher struct {
	Voucher         *SignedVoucher
	UserLabel       string
	AddedAt         time.Time
	LastBackupAt    *time.Time
	CachedStatus    *VoucherStatus
	StatusUpdatedAt *time.Time
}

// NewStoredVoucher returns a cache entry for a freshly received voucher.
func NewStoredVoucher(voucher *SignedVoucher, userLabel string) (*StoredVoucher, error) {
	if voucher == nil {
		return nil, ErrNilVoucherSecret
	}
	return &StoredVoucher{
		Voucher:   voucher,
		UserLabel: userLabel,
		AddedAt:   time.Now(),
	}, nil
}

// Id is a shorthand for the voucher identifier.
func (s *StoredVoucher) Id() string {
	return s.Voucher.Id()
}

// NeedsBackup returns true iff the voucher was never backed up or was added
// after the last backup.
func (s *StoredVoucher) NeedsBackup() bool {
	return s.LastBackupAt == nil || s.AddedAt.After(*s.LastBackupAt)
}

// MarkBackedUp stamps the backup time. Called only after the backup transport
// has acknowledged the batch.
func (s *StoredVoucher) MarkBackedUp(at time.Time) {
	s.LastBackupAt = &at
}

// UpdateStatus refreshes the cached ledger status.
func (s *StoredVoucher) UpdateStatus(status VoucherStatus, at time.Time) {
	s.CachedStatus = &status
	s.StatusUpdatedAt = &at
}
