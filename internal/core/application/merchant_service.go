package application

import (
	"context"
	"fmt"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// MerchantService runs the merchant-side verification and redemption flows.
type MerchantService interface {
	// VerifyOffline checks issuer match, signature and expiry without any
	// I/O. It cannot detect a double-spend.
	VerifyOffline(voucher *domain.SignedVoucher, expectedIssuerId string) domain.ValidationResult
	// VerifyOnline runs VerifyOffline first and, only when it passes,
	// queries the ledger and maps the recorded status.
	VerifyOnline(ctx context.Context, voucher *domain.SignedVoucher, expectedIssuerId string) domain.ValidationResult
	// MarkRedeemed unconditionally records the REDEEMED status. A ledger
	// failure here is fatal: it follows a successful verification and leaves
	// the state inconsistent.
	MarkRedeemed(ctx context.Context, voucherId string) error
	// Redeem verifies per the request and records the redemption.
	Redeem(ctx context.Context, req RedeemRequest, voucher *domain.SignedVoucher) (RedeemResult, error)
}

type merchantService struct {
	validator *domain.Validator
	ledger    ports.LedgerService
}

// NewMerchantService returns a merchant service validating with the given
// validator and resolving statuses through the given ledger.
func NewMerchantService(validator *domain.Validator, ledger ports.LedgerService) MerchantService {
	return &merchantService{validator: validator, ledger: ledger}
}

func (s *merchantService) VerifyOffline(voucher *domain.SignedVoucher, expectedIssuerId string) domain.ValidationResult {
	return s.validator.ValidateWithIssuer(voucher, expectedIssuerId)
}

func (s *merchantService) VerifyOnline(ctx context.Context, voucher *domain.SignedVoucher, expectedIssuerId string) domain.ValidationResult {
	if res := s.VerifyOffline(voucher, expectedIssuerId); !res.Valid {
		// Fail fast without touching the ledger.
		return res
	}

	status, found, err := s.ledger.QueryStatus(ctx, voucher.Id())
	if err != nil {
		// A query failure is not proof of invalidity, but the merchant
		// cannot accept what it cannot check.
		return domain.InvalidResult(fmt.Sprintf("ledger status check failed: %v", err))
	}
	if !found {
		return domain.InvalidResult("voucher not found in ledger")
	}

	switch status {
	case domain.StatusIssued:
		return domain.ValidResult()
	case domain.StatusRedeemed:
		return domain.InvalidResult("voucher already redeemed: double-spend detected")
	case domain.StatusRevoked:
		return domain.InvalidResult("voucher revoked by issuer")
	case domain.StatusExpired:
		return domain.InvalidResult("voucher expired according to ledger")
	default:
		// Fail closed on anything outside the known status set.
		return domain.InvalidResult(fmt.Sprintf("unknown ledger status: %s", status))
	}
}

func (s *merchantService) MarkRedeemed(ctx context.Context, voucherId string) error {
	if err := s.ledger.UpdateStatus(ctx, voucherId, domain.StatusRedeemed); err != nil {
		return fmt.Errorf("marking voucher %s redeemed in ledger: %w", voucherId, err)
	}
	return nil
}

func (s *merchantService) Redeem(ctx context.Context, req RedeemRequest, voucher *domain.SignedVoucher) (RedeemResult, error) {
	if voucher == nil {
		return RedeemResult{}, ErrNilVoucher
	}

	var res domain.ValidationResult
	if req.Offline {
		log.WithField("voucher_id", voucher.Id()).
			Warn("redeeming with offline verification: double-spending cannot be detected")
		res = s.VerifyOffline(voucher, req.ExpectedIssuerId)
	} else {
		res = s.VerifyOnline(ctx, voucher, req.ExpectedIssuerId)
	}

	if !res.Valid {
		return RedeemResult{Reasons: res.Errors}, nil
	}

	if err := s.MarkRedeemed(ctx, voucher.Id()); err != nil {
		log.WithError(err).WithField("voucher_id", voucher.Id()).
			Error("voucher verified but redemption not recorded, manual reconciliation required")
		return RedeemResult{
			Verified: true,
			Reasons:  []string{"verified but not recorded in ledger"},
		}, fmt.Errorf("%w: %v", ErrVoucherNotRecorded, err)
	}

	return RedeemResult{Verified: true, Recorded: true}, nil
}
