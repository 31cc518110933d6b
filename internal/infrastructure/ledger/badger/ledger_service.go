package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// statusEntry is the ledger record of a voucher's current status.
type statusEntry struct {
	VoucherId string `badgerhold:"key"`
	Status    string
	UpdatedAt int64
}

// voucherEntry holds the published credential alongside its status record.
type voucherEntry struct {
	VoucherId string `badgerhold:"key"`
	Data      domain.SignedVoucherData
}

// LedgerService is the badger-backed issuer ledger.
type LedgerService struct {
	store *badgerhold.Store
}

// NewLedgerService opens (or creates if not exists) the badger ledger store
// on disk.
func NewLedgerService(dbDir string, logger badger.Logger) (*LedgerService, error) {
	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	return &LedgerService{store: store}, nil
}

// Publish records the voucher and its initial status in one transaction,
// refusing an id the ledger already knows.
func (l *LedgerService) Publish(_ context.Context, voucher *domain.SignedVoucher, status domain.VoucherStatus) error {
	id := voucher.Id()
	return l.store.Badger().Update(func(tx *badger.Txn) error {
		var existing statusEntry
		err := l.store.TxGet(tx, id, &existing)
		if err == nil {
			return ErrVoucherAlreadyPublished
		}
		if !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}

		entry := statusEntry{
			VoucherId: id,
			Status:    string(status),
			UpdatedAt: time.Now().Unix(),
		}
		if err := l.store.TxInsert(tx, id, entry); err != nil {
			return err
		}
		return l.store.TxInsert(tx, id, voucherEntry{VoucherId: id, Data: voucher.Data()})
	})
}

func (l *LedgerService) QueryStatus(_ context.Context, voucherId string) (domain.VoucherStatus, bool, error) {
	var entry statusEntry
	if err := l.store.Get(voucherId, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return domain.ParseVoucherStatus(entry.Status), true, nil
}

// UpdateStatus performs a conditional replace inside a single badger
// transaction: the current record is read and the write is refused unless the
// status machine admits the transition. Badger serializes conflicting
// transactions, so at most one REDEEMED transition can ever commit for a
// given voucher id.
func (l *LedgerService) UpdateStatus(_ context.Context, voucherId string, status domain.VoucherStatus) error {
	return l.store.Badger().Update(func(tx *badger.Txn) error {
		var entry statusEntry
		if err := l.store.TxGet(tx, voucherId, &entry); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return ErrVoucherNotFound
			}
			return err
		}

		current := domain.ParseVoucherStatus(entry.Status)
		if !current.CanTransitionTo(status) {
			return ErrTransitionNotAllowed
		}

		entry.Status = string(status)
		entry.UpdatedAt = time.Now().Unix()
		return l.store.TxUpdate(tx, voucherId, entry)
	})
}

func (l *LedgerService) Exists(ctx context.Context, voucherId string) (bool, error) {
	_, found, err := l.QueryStatus(ctx, voucherId)
	return found, err
}

func (l *LedgerService) QueryVoucher(_ context.Context, voucherId string) (*domain.SignedVoucher, error) {
	var entry voucherEntry
	if err := l.store.Get(voucherId, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return domain.SignedVoucherFromData(entry.Data)
}

// Close gracefully closes the underlying store.
func (l *LedgerService) Close() error {
	return l.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir).WithLogger(logger)

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer
	if err := json.NewEncoder(&buff).Encode(value); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}
