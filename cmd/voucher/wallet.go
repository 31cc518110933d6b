package main

import (
	"github.com/urfave/cli/v2"

	"github.com/modelb-network/voucherd/internal/core/domain"
)

var listvouchers = cli.Command{
	Name:   "listvouchers",
	Usage:  "list the vouchers held in the local wallet",
	Action: listVouchersAction,
}

var refreshstatus = cli.Command{
	Name:   "refreshstatus",
	Usage:  "refresh the cached ledger status of every wallet voucher",
	Action: refreshStatusAction,
}

type voucherView struct {
	VoucherId string `json:"voucher_id"`
	Label     string `json:"label,omitempty"`
	IssuerId  string `json:"issuer_id"`
	Unit      string `json:"unit"`
	FaceValue uint64 `json:"face_value"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	Status    string `json:"status,omitempty"`
	BackedUp  bool   `json:"backed_up"`
}

func listVouchersAction(*cli.Context) error {
	wallet, err := getWallet()
	if err != nil {
		return err
	}

	views := make([]voucherView, 0, len(wallet))
	for _, stored := range wallet {
		views = append(views, newVoucherView(stored))
	}

	printRespJSON(views)

	return nil
}

func refreshStatusAction(ctx *cli.Context) error {
	wallet, err := getWallet()
	if err != nil {
		return err
	}

	walletSvc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	for _, stored := range wallet {
		if err := walletSvc.RefreshStatus(ctx.Context, stored); err != nil {
			return err
		}
	}

	if err := setWallet(wallet); err != nil {
		return err
	}

	views := make([]voucherView, 0, len(wallet))
	for _, stored := range wallet {
		views = append(views, newVoucherView(stored))
	}
	printRespJSON(views)

	return nil
}

func newVoucherView(stored *domain.StoredVoucher) voucherView {
	secret := stored.Voucher.Secret()
	view := voucherView{
		VoucherId: secret.Id,
		Label:     stored.UserLabel,
		IssuerId:  secret.IssuerId,
		Unit:      secret.Unit,
		FaceValue: secret.FaceValue,
		ExpiresAt: secret.ExpiresAt,
		BackedUp:  !stored.NeedsBackup(),
	}
	if stored.CachedStatus != nil {
		view.Status = string(*stored.CachedStatus)
	}
	return view
}
