package main

import (
	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/config"
	"github.com/modelb-network/voucherd/internal/core/application"
)

var verify = cli.Command{
	Name:      "verify",
	Usage:     "verify a voucher token as a merchant would before accepting it",
	ArgsUsage: "<token>",
	Action:    verifyAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "issuer",
			Usage: "issuer id the voucher must carry, defaults to the configured one",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "skip the ledger status check: double-spending cannot be detected",
		},
	},
}

func verifyAction(ctx *cli.Context) error {
	voucher, err := voucherArg(ctx, "verify")
	if err != nil {
		return err
	}

	issuerId := ctx.String("issuer")
	if issuerId == "" {
		issuerId = config.GetString(config.IssuerIdKey)
	}

	if ctx.Bool("offline") {
		merchantSvc := application.NewMerchantService(getValidator(), nil)
		printRespJSON(merchantSvc.VerifyOffline(voucher, issuerId))
		return nil
	}

	ledger, cleanup, err := getLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	merchantSvc := application.NewMerchantService(getValidator(), ledger)
	printRespJSON(merchantSvc.VerifyOnline(ctx.Context, voucher, issuerId))

	return nil
}
