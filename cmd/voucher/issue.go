package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/config"
	"github.com/modelb-network/voucherd/internal/core/application"
	"github.com/modelb-network/voucherd/internal/core/domain"
)

var issue = cli.Command{
	Name:   "issue",
	Usage:  "issue and sign a new voucher, publish it to the ledger and add it to the local wallet",
	Action: issueAction,
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "amount",
			Usage: "face value in the smallest denomination of the unit",
		},
		&cli.StringFlag{
			Name:  "unit",
			Usage: "denomination unit of the face value",
			Value: "",
		},
		&cli.IntFlag{
			Name:  "expiry-days",
			Usage: "days until the voucher expires, 0 for no expiry",
		},
		&cli.StringFlag{
			Name:  "memo",
			Usage: "free-form note stamped into the voucher terms",
		},
		&cli.StringFlag{
			Name:  "backing",
			Usage: "backing strategy: fixed or proportional",
			Value: string(domain.BackingFixed),
		},
		&cli.StringFlag{
			Name:  "ratio",
			Usage: "issuance ratio for proportional backing, eg. 0.8",
		},
		&cli.StringSliceFlag{
			Name:  "metadata",
			Usage: "merchant metadata entry in <key>=<value> form, repeatable",
		},
		&cli.StringFlag{
			Name:  "label",
			Usage: "wallet label for the issued voucher",
		},
	},
}

func issueAction(ctx *cli.Context) error {
	signer, err := getSigner()
	if err != nil {
		return err
	}
	ledger, cleanup, err := getLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	unit := ctx.String("unit")
	if unit == "" {
		unit = config.GetString(config.UnitKey)
	}

	var ratio decimal.Decimal
	if ratioStr := ctx.String("ratio"); ratioStr != "" {
		ratio, err = decimal.NewFromString(ratioStr)
		if err != nil {
			return fmt.Errorf("ratio is not a valid decimal: %s", err)
		}
	}

	metadata, err := parseMetadata(ctx.StringSlice("metadata"))
	if err != nil {
		return err
	}

	issuerSvc := application.NewIssuerServiceWithPolicy(
		application.NewIssuerService(signer, ledger),
		application.IssuancePolicy{
			MaxAmount:     uint64(config.GetInt(config.MaxVoucherAmountKey)),
			MaxExpiryDays: config.GetInt(config.MaxExpiryDaysKey),
		},
	)

	voucher, err := issuerSvc.IssueVoucher(ctx.Context, application.IssueVoucherRequest{
		IssuerId:        config.GetString(config.IssuerIdKey),
		Unit:            unit,
		Amount:          ctx.Uint64("amount"),
		ExpiryDays:      ctx.Int("expiry-days"),
		Memo:            ctx.String("memo"),
		BackingStrategy: parseBackingStrategy(ctx.String("backing")),
		IssuanceRatio:   ratio,
		Metadata:        metadata,
	})
	if err != nil {
		return err
	}

	stored, err := domain.NewStoredVoucher(voucher, ctx.String("label"))
	if err != nil {
		return err
	}
	wallet, err := getWallet()
	if err != nil {
		return err
	}
	if err := setWallet(append(wallet, stored)); err != nil {
		return err
	}

	token, err := encodeToken(voucher)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"voucher_id": voucher.Id(),
		"public_key": voucher.PublicKey(),
		"token":      token,
	})

	return nil
}

// parseBackingStrategy maps the flag value to the canonical uppercase
// strategy names, so "fixed" and "FIXED" both work.
func parseBackingStrategy(raw string) domain.BackingStrategy {
	return domain.BackingStrategy(strings.ToUpper(raw))
}

func parseMetadata(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("metadata entry %q is not in <key>=<value> form", entry)
		}
		metadata[parts[0]] = parts[1]
	}
	return metadata, nil
}
