package main

import (
	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/config"
	"github.com/modelb-network/voucherd/internal/core/application"
)

var redeem = cli.Command{
	Name:      "redeem",
	Usage:     "verify a voucher token and record its redemption in the ledger",
	ArgsUsage: "<token>",
	Action:    redeemAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "issuer",
			Usage: "issuer id the voucher must carry, defaults to the configured one",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "verify without the ledger status check: double-spending cannot be detected",
		},
	},
}

func redeemAction(ctx *cli.Context) error {
	voucher, err := voucherArg(ctx, "redeem")
	if err != nil {
		return err
	}

	issuerId := ctx.String("issuer")
	if issuerId == "" {
		issuerId = config.GetString(config.IssuerIdKey)
	}

	ledger, cleanup, err := getLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	merchantSvc := application.NewMerchantService(getValidator(), ledger)
	res, err := merchantSvc.Redeem(ctx.Context, application.RedeemRequest{
		ExpectedIssuerId: issuerId,
		Offline:          ctx.Bool("offline") || config.GetBool(config.OfflineRedeemKey),
	}, voucher)
	if err != nil {
		return err
	}

	printRespJSON(res)

	return nil
}
