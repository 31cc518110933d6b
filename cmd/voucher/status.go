package main

import (
	"github.com/urfave/cli/v2"
)

var status = cli.Command{
	Name:      "status",
	Usage:     "print the ledger status of a voucher by id",
	ArgsUsage: "<voucher-id>",
	Action:    statusAction,
}

func statusAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "status"}
	}
	voucherId := ctx.Args().First()

	ledger, cleanup, err := getLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	currentStatus, found, err := ledger.QueryStatus(ctx.Context, voucherId)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"voucher_id": voucherId,
		"found":      found,
		"status":     currentStatus,
	})

	return nil
}
