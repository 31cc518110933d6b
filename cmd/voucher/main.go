package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/config"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	"github.com/modelb-network/voucherd/internal/infrastructure/backup/securefile"
	dbbadger "github.com/modelb-network/voucherd/internal/infrastructure/ledger/badger"
	"github.com/modelb-network/voucherd/internal/infrastructure/ledger/breaker"
	"github.com/modelb-network/voucherd/pkg/canonical"
	"github.com/modelb-network/voucherd/pkg/vouchersig"
)

var walletPath = filepath.Join(config.GetDatadir(), "wallet.json")

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "voucher CLI"
	app.Usage = "Command line interface for issuing, verifying and redeeming vouchers"
	app.Commands = append(
		app.Commands,
		&issue,
		&verify,
		&redeem,
		&status,
		&listvouchers,
		&refreshstatus,
		&backup,
		&restore,
		&verifybackup,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// getLedger opens the on-disk ledger wrapped by the circuit breaker. The
// returned cleanup closes the underlying db.
func getLedger() (ports.LedgerService, func(), error) {
	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	db, err := dbbadger.NewLedgerService(dbDir, nil)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	return breaker.NewLedgerService(db), cleanup, nil
}

func getBackup() (ports.BackupService, error) {
	backupDir := filepath.Join(config.GetDatadir(), config.BackupLocation)
	return securefile.NewBackupService(backupDir)
}

func getSigner() (*vouchersig.Signer, error) {
	if prvKey := config.GetString(config.IssuerPrivateKeyKey); prvKey != "" {
		return vouchersig.NewSignerFromHex(prvKey)
	}
	return nil, errors.New(
		"set the issuer private key with the VOUCHER_ISSUER_PRIVATE_KEY environment variable",
	)
}

func getValidator() *domain.Validator {
	return domain.NewValidator(vouchersig.NewVerifier())
}

func getUserKey(ctx *cli.Context) (string, error) {
	if userKey := ctx.String("user-key"); userKey != "" {
		return userKey, nil
	}
	if userKey := config.GetString(config.BackupUserKeyKey); userKey != "" {
		return userKey, nil
	}
	return "", errors.New(
		"set the backup passphrase with --user-key or the VOUCHER_BACKUP_USER_KEY environment variable",
	)
}

// encodeToken renders a signed voucher as a portable bearer token.
func encodeToken(voucher *domain.SignedVoucher) (string, error) {
	buf, err := canonical.Marshal(voucher.Data())
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func decodeToken(token string) (*domain.SignedVoucher, error) {
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("token is not valid base64: %s", err)
	}
	var data domain.SignedVoucherData
	if err := canonical.Unmarshal(buf, &data); err != nil {
		return nil, fmt.Errorf("token is not a valid voucher: %s", err)
	}
	return domain.SignedVoucherFromData(data)
}

func voucherArg(ctx *cli.Context, command string) (*domain.SignedVoucher, error) {
	if ctx.NArg() < 1 {
		return nil, &invalidUsageError{ctx, command}
	}
	return decodeToken(ctx.Args().First())
}

// walletEntry is the on-disk shape of a stored voucher.
type walletEntry struct {
	Token           string     `json:"token"`
	Label           string     `json:"label,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
	LastBackupAt    *time.Time `json:"last_backup_at,omitempty"`
	Status          *string    `json:"status,omitempty"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`
}

func getWallet() ([]*domain.StoredVoucher, error) {
	file, err := os.ReadFile(walletPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []walletEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		return nil, fmt.Errorf("reading wallet state: %s", err)
	}

	vouchers := make([]*domain.StoredVoucher, 0, len(entries))
	for _, entry := range entries {
		voucher, err := decodeToken(entry.Token)
		if err != nil {
			return nil, err
		}
		stored := &domain.StoredVoucher{
			Voucher:         voucher,
			UserLabel:       entry.Label,
			AddedAt:         entry.AddedAt,
			LastBackupAt:    entry.LastBackupAt,
			StatusUpdatedAt: entry.StatusUpdatedAt,
		}
		if entry.Status != nil {
			cached := domain.ParseVoucherStatus(*entry.Status)
			stored.CachedStatus = &cached
		}
		vouchers = append(vouchers, stored)
	}

	return vouchers, nil
}

func setWallet(vouchers []*domain.StoredVoucher) error {
	entries := make([]walletEntry, 0, len(vouchers))
	for _, stored := range vouchers {
		token, err := encodeToken(stored.Voucher)
		if err != nil {
			return err
		}
		entry := walletEntry{
			Token:           token,
			Label:           stored.UserLabel,
			AddedAt:         stored.AddedAt,
			LastBackupAt:    stored.LastBackupAt,
			StatusUpdatedAt: stored.StatusUpdatedAt,
		}
		if stored.CachedStatus != nil {
			status := string(*stored.CachedStatus)
			entry.Status = &status
		}
		entries = append(entries, entry)
	}

	jsonString, err := json.MarshalIndent(entries, "", "\t")
	if err != nil {
		return err
	}
	if err := os.WriteFile(walletPath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing wallet state: %w", err)
	}

	return nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to render response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[voucher] %v\n", err)
	}
	os.Exit(1)
}
