package securefile

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	"github.com/modelb-network/voucherd/pkg/canonical"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen  = 16
	nonceLen = 12
	keyLen   = 32
)

var (
	// ErrBlankUserKey ...
	ErrBlankUserKey = errors.New("user key must not be blank")
	// ErrInvalidUserKey is returned when the stored batch cannot be opened
	// with the derived key.
	ErrInvalidUserKey = errors.New("backup cannot be decrypted with the given user key")
)

// backupService stores voucher batches as encrypted files, one per user key.
// The AES-256-GCM file key is derived from the user key with argon2id; the
// salt and nonce are stored in the file header. Writes go through a temp file
// and rename so a crash never truncates an existing backup.
type backupService struct {
	datadir string
	lock    *sync.Mutex
}

// NewBackupService returns a file-backed BackupService rooted at datadir.
func NewBackupService(datadir string) (ports.BackupService, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, fmt.Errorf("creating backup datadir: %w", err)
	}
	return &backupService{datadir: datadir, lock: &sync.Mutex{}}, nil
}

func (b *backupService) Backup(ctx context.Context, vouchers []*domain.SignedVoucher, userKey string) error {
	if userKey == "" {
		return ErrBlankUserKey
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	// Merge with the existing batch so incremental backups accumulate.
	existing, err := b.restoreLocked(userKey)
	if err != nil {
		return err
	}
	byId := make(map[string]domain.SignedVoucherData, len(existing)+len(vouchers))
	ids := make([]string, 0, len(existing)+len(vouchers))
	for _, voucher := range existing {
		byId[voucher.Id()] = voucher.Data()
		ids = append(ids, voucher.Id())
	}
	for _, voucher := range vouchers {
		if _, ok := byId[voucher.Id()]; !ok {
			ids = append(ids, voucher.Id())
		}
		byId[voucher.Id()] = voucher.Data()
	}

	batch := make([]domain.SignedVoucherData, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, byId[id])
	}

	plaintext, err := canonical.Marshal(batch)
	if err != nil {
		return err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	aead, err := newAEAD(userKey, salt)
	if err != nil {
		return err
	}
	sealed := aead.Seal(nil, nonce, plaintext, nil)

	buf := make([]byte, 0, saltLen+nonceLen+len(sealed))
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)

	target := b.filename(userKey)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, buf, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (b *backupService) Restore(_ context.Context, userKey string) ([]*domain.SignedVoucher, error) {
	if userKey == "" {
		return nil, ErrBlankUserKey
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	return b.restoreLocked(userKey)
}

func (b *backupService) HasBackups(_ context.Context, userKey string) (bool, error) {
	if userKey == "" {
		return false, ErrBlankUserKey
	}

	info, err := os.Stat(b.filename(userKey))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}

func (b *backupService) DeleteBackups(_ context.Context, userKey string) error {
	if userKey == "" {
		return ErrBlankUserKey
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if err := os.Remove(b.filename(userKey)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (b *backupService) restoreLocked(userKey string) ([]*domain.SignedVoucher, error) {
	buf, err := os.ReadFile(b.filename(userKey))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(buf) < saltLen+nonceLen {
		return nil, ErrInvalidUserKey
	}

	salt, nonce, sealed := buf[:saltLen], buf[saltLen:saltLen+nonceLen], buf[saltLen+nonceLen:]
	aead, err := newAEAD(userKey, salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrInvalidUserKey
	}

	var batch []domain.SignedVoucherData
	if err := canonical.Unmarshal(plaintext, &batch); err != nil {
		return nil, err
	}

	out := make([]*domain.SignedVoucher, 0, len(batch))
	for _, data := range batch {
		voucher, err := domain.SignedVoucherFromData(data)
		if err != nil {
			return nil, err
		}
		out = append(out, voucher)
	}
	return out, nil
}

// filename returns the single store file of the datadir. One wallet, one
// datadir, one user key: opening it with a different key fails, it does not
// silently start a second store.
func (b *backupService) filename(string) string {
	return filepath.Join(b.datadir, "vouchers.vbk")
}

func newAEAD(userKey string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(userKey), salt, 1, 64*1024, 4, keyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
