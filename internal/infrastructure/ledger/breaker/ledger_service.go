package breaker

import (
	"context"

	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/modelb-network/voucherd/internal/core/ports"
	"github.com/modelb-network/voucherd/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
)

type statusReply struct {
	status domain.VoucherStatus
	found  bool
}

// ledgerService decorates a LedgerService with a circuit breaker, so a
// flapping ledger transport stops being hammered. An open breaker surfaces as
// an ordinary port error; read paths then fail closed as validation failures.
type ledgerService struct {
	inner ports.LedgerService
	cb    *gobreaker.CircuitBreaker
}

// NewLedgerService wraps the given ledger with a circuit breaker.
func NewLedgerService(inner ports.LedgerService) ports.LedgerService {
	return &ledgerService{
		inner: inner,
		cb:    circuitbreaker.NewCircuitBreaker("ledger"),
	}
}

func (l *ledgerService) Publish(ctx context.Context, voucher *domain.SignedVoucher, status domain.VoucherStatus) error {
	_, err := l.cb.Execute(func() (interface{}, error) {
		return nil, l.inner.Publish(ctx, voucher, status)
	})
	return err
}

func (l *ledgerService) QueryStatus(ctx context.Context, voucherId string) (domain.VoucherStatus, bool, error) {
	reply, err := l.cb.Execute(func() (interface{}, error) {
		status, found, err := l.inner.QueryStatus(ctx, voucherId)
		if err != nil {
			return nil, err
		}
		return statusReply{status: status, found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	res := reply.(statusReply)
	return res.status, res.found, nil
}

func (l *ledgerService) UpdateStatus(ctx context.Context, voucherId string, status domain.VoucherStatus) error {
	_, err := l.cb.Execute(func() (interface{}, error) {
		return nil, l.inner.UpdateStatus(ctx, voucherId, status)
	})
	return err
}

func (l *ledgerService) Exists(ctx context.Context, voucherId string) (bool, error) {
	_, found, err := l.QueryStatus(ctx, voucherId)
	return found, err
}

func (l *ledgerService) QueryVoucher(ctx context.Context, voucherId string) (*domain.SignedVoucher, error) {
	reply, err := l.cb.Execute(func() (interface{}, error) {
		return l.inner.QueryVoucher(ctx, voucherId)
	})
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}
	return reply.(*domain.SignedVoucher), nil
}
