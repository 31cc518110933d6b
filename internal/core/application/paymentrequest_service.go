package application

import (
	"fmt"

	"github.com/modelb-network/voucherd/internal/core/domain"
)

// PaymentRequestService matches a received payment payload against an issued
// payment request (NUT-18V).
type PaymentRequestService interface {
	ValidatePayload(payload domain.PaymentPayload, request domain.PaymentRequest) domain.ValidationResult
}

type paymentRequestService struct{}

// NewPaymentRequestService returns a stateless payment request validator.
func NewPaymentRequestService() PaymentRequestService {
	return paymentRequestService{}
}

func (paymentRequestService) ValidatePayload(payload domain.PaymentPayload, request domain.PaymentRequest) domain.ValidationResult {
	reasons := make([]string, 0)

	if request.PaymentId != "" && payload.Id != request.PaymentId {
		reasons = append(reasons, fmt.Sprintf(
			"payment id mismatch: got %s, expected %s", payload.Id, request.PaymentId,
		))
	}

	if payload.IssuerId != request.IssuerId {
		reasons = append(reasons, fmt.Sprintf(
			"issuer mismatch: got %s, expected %s", payload.IssuerId, request.IssuerId,
		))
	}

	// Overpayment is accepted, only a shortfall fails.
	if request.Amount > 0 {
		if total := payload.ProofTotal(); total < request.Amount {
			reasons = append(reasons, fmt.Sprintf(
				"insufficient amount: proofs total %d, requested %d", total, request.Amount,
			))
		}
	}

	if len(request.Mints) > 0 && !contains(request.Mints, payload.Mint) {
		reasons = append(reasons, fmt.Sprintf(
			"mint %s is not in the list of permitted mints", payload.Mint,
		))
	}

	if request.OfflineVerification {
		for _, proof := range payload.Proofs {
			if proof.DLEQ == nil {
				reasons = append(reasons,
					"offline verification required but proof is missing DLEQ data",
				)
				break
			}
		}
	}

	return domain.ResultFromReasons(reasons)
}

func contains(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
