package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// IssuerService builds, signs and publishes new vouchers.
type IssuerService interface {
	IssueVoucher(ctx context.Context, req IssueVoucherRequest) (*domain.SignedVoucher, error)
}

type issuerService struct {
	signer domain.SignatureSigner
	ledger ports.LedgerService
	now    func() time.Time
}

// NewIssuerService returns an issuer service signing with the given engine
// and publishing through the given ledger.
func NewIssuerService(signer domain.SignatureSigner, ledger ports.LedgerService) IssuerService {
	return &issuerService{signer: signer, ledger: ledger, now: time.Now}
}

func (s *issuerService) IssueVoucher(ctx context.Context, req IssueVoucherRequest) (*domain.SignedVoucher, error) {
	if err := validateIssueRequest(req); err != nil {
		return nil, err
	}

	var expiresAt int64
	if req.ExpiryDays > 0 {
		expiresAt = s.now().AddDate(0, 0, req.ExpiryDays).Unix()
	}

	voucherId := req.VoucherId
	if voucherId == "" {
		voucherId = uuid.NewString()
	}

	strategy := req.BackingStrategy
	if strategy == "" {
		strategy = domain.BackingFixed
	}
	ratio := req.IssuanceRatio
	if ratio.IsZero() && strategy == domain.BackingFixed {
		ratio = decimal.NewFromInt(1)
	}

	secret := &domain.VoucherSecret{
		Id:               voucherId,
		IssuerId:         req.IssuerId,
		Unit:             req.Unit,
		FaceValue:        req.Amount,
		ExpiresAt:        expiresAt,
		Memo:             req.Memo,
		BackingStrategy:  strategy,
		IssuanceRatio:    ratio,
		FaceDecimals:     req.FaceDecimals,
		MerchantMetadata: req.Metadata,
	}
	if err := secret.Validate(); err != nil {
		return nil, err
	}

	message, err := secret.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding voucher terms: %w", err)
	}
	signature, err := s.signer.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("signing voucher %s: %w", voucherId, err)
	}

	voucher, err := domain.NewSignedVoucher(secret, signature, s.signer.PublicKey())
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Publish(ctx, voucher, domain.StatusIssued); err != nil {
		return nil, fmt.Errorf("publishing voucher %s to ledger: %w", voucherId, err)
	}

	log.WithFields(log.Fields{
		"voucher_id": voucherId,
		"issuer_id":  req.IssuerId,
		"amount":     req.Amount,
	}).Debug("voucher issued")

	return voucher, nil
}

func validateIssueRequest(req IssueVoucherRequest) error {
	if strings.TrimSpace(req.IssuerId) == "" {
		return ErrMissingIssuerId
	}
	if strings.TrimSpace(req.Unit) == "" {
		return ErrMissingUnit
	}
	if req.Amount == 0 {
		return ErrNonPositiveAmount
	}
	if req.ExpiryDays < 0 {
		return ErrNegativeExpiryDays
	}
	return nil
}

type policyIssuerService struct {
	inner  IssuerService
	policy IssuancePolicy
}

// NewIssuerServiceWithPolicy wraps an issuer service with configurable
// ceilings, rejecting out-of-policy requests before any cryptographic work.
func NewIssuerServiceWithPolicy(inner IssuerService, policy IssuancePolicy) IssuerService {
	return &policyIssuerService{inner: inner, policy: policy}
}

func (s *policyIssuerService) IssueVoucher(ctx context.Context, req IssueVoucherRequest) (*domain.SignedVoucher, error) {
	if s.policy.MaxAmount > 0 && req.Amount > s.policy.MaxAmount {
		return nil, ErrAmountAbovePolicy
	}
	if s.policy.MaxExpiryDays > 0 && req.ExpiryDays > s.policy.MaxExpiryDays {
		return nil, ErrExpiryAbovePolicy
	}
	return s.inner.IssueVoucher(ctx, req)
}
