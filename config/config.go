package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the ledger db, the
	// backups and the wallet state
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// IssuerIdKey is the merchant identifier stamped into every issued voucher
	IssuerIdKey = "ISSUER_ID"
	// IssuerPrivateKeyKey is the hex-encoded 32-byte signing key of the issuer.
	// When empty, a fresh key is generated at startup.
	IssuerPrivateKeyKey = "ISSUER_PRIVATE_KEY"
	// UnitKey is the default denomination unit for issued vouchers
	UnitKey = "UNIT"
	// MaxVoucherAmountKey is the largest face value allowed at issuance. 0 means no ceiling
	MaxVoucherAmountKey = "MAX_VOUCHER_AMOUNT"
	// MaxExpiryDaysKey is the longest validity window allowed at issuance. 0 means no ceiling
	MaxExpiryDaysKey = "MAX_EXPIRY_DAYS"
	// BackupUserKeyKey is the passphrase protecting the encrypted voucher backups
	BackupUserKeyKey = "BACKUP_USER_KEY"
	// OfflineRedeemKey allows redeeming without consulting the ledger. Double
	// spending cannot be detected while enabled.
	OfflineRedeemKey = "OFFLINE_REDEEM"

	DbLocation     = "db"
	BackupLocation = "backups"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("voucherd", false)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("VOUCHER")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(IssuerIdKey, "")
	vip.SetDefault(UnitKey, "sat")
	vip.SetDefault(MaxVoucherAmountKey, 0)
	vip.SetDefault(MaxExpiryDaysKey, 0)
	vip.SetDefault(OfflineRedeemKey, false)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}

	if err := initDatadir(); err != nil {
		log.WithError(err).Panic("error while creating datadir")
	}
}

//GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

//GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

//GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the give key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	if prvKey := GetString(IssuerPrivateKeyKey); prvKey != "" {
		buf, err := hex.DecodeString(prvKey)
		if err != nil {
			return fmt.Errorf("issuer private key is not a valid hex string: %s", err)
		}
		if len(buf) != 32 {
			return fmt.Errorf(
				"issuer private key must be 32 bytes, got %d", len(buf),
			)
		}
	}

	if maxAmount := GetInt(MaxVoucherAmountKey); maxAmount < 0 {
		return fmt.Errorf("max voucher amount must not be a negative number")
	}
	if maxExpiry := GetInt(MaxExpiryDaysKey); maxExpiry < 0 {
		return fmt.Errorf("max expiry days must not be a negative number")
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}
	return makeDirectoryIfNotExists(filepath.Join(datadir, BackupLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
