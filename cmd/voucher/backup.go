package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/internal/core/application"
)

var userKeyFlag = cli.StringFlag{
	Name:  "user-key",
	Usage: "passphrase protecting the encrypted backups",
}

var backup = cli.Command{
	Name:   "backup",
	Usage:  "back up the wallet vouchers that changed since the last backup",
	Action: backupAction,
	Flags: []cli.Flag{
		&userKeyFlag,
	},
}

var restore = cli.Command{
	Name:   "restore",
	Usage:  "restore backed up vouchers and merge them into the local wallet",
	Action: restoreAction,
	Flags: []cli.Flag{
		&userKeyFlag,
	},
}

var verifybackup = cli.Command{
	Name:   "verifybackup",
	Usage:  "check that every wallet voucher is covered by the backups",
	Action: verifyBackupAction,
	Flags: []cli.Flag{
		&userKeyFlag,
	},
}

func backupAction(ctx *cli.Context) error {
	userKey, err := getUserKey(ctx)
	if err != nil {
		return err
	}
	wallet, err := getWallet()
	if err != nil {
		return err
	}

	walletSvc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := walletSvc.BackupIfNeeded(ctx.Context, wallet, userKey)
	if err != nil {
		return err
	}
	if err := setWallet(wallet); err != nil {
		return err
	}

	fmt.Printf("%d vouchers backed up\n", count)

	return nil
}

func restoreAction(ctx *cli.Context) error {
	userKey, err := getUserKey(ctx)
	if err != nil {
		return err
	}
	wallet, err := getWallet()
	if err != nil {
		return err
	}

	walletSvc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	merged, err := walletSvc.RestoreAndMerge(ctx.Context, wallet, userKey)
	if err != nil {
		return err
	}
	if err := setWallet(merged); err != nil {
		return err
	}

	fmt.Printf("%d vouchers restored, wallet now holds %d\n", len(merged)-len(wallet), len(merged))

	return nil
}

func verifyBackupAction(ctx *cli.Context) error {
	userKey, err := getUserKey(ctx)
	if err != nil {
		return err
	}
	wallet, err := getWallet()
	if err != nil {
		return err
	}

	walletSvc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	expectedIds := make([]string, 0, len(wallet))
	for _, stored := range wallet {
		expectedIds = append(expectedIds, stored.Id())
	}

	if !walletSvc.VerifyBackup(ctx.Context, expectedIds, userKey) {
		return fmt.Errorf("backups do not cover all %d wallet vouchers", len(expectedIds))
	}

	fmt.Printf("backups cover all %d wallet vouchers\n", len(expectedIds))

	return nil
}

func getWalletService() (application.WalletService, func(), error) {
	ledger, cleanup, err := getLedger()
	if err != nil {
		return nil, nil, err
	}
	backupSvc, err := getBackup()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return application.NewWalletService(backupSvc, ledger), cleanup, nil
}
