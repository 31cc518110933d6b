package application

import (
	"github.com/modelb-network/voucherd/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IssueVoucherRequest carries the terms of a voucher to be issued. VoucherId,
// ExpiryDays, Memo, BackingStrategy, IssuanceRatio, FaceDecimals and Metadata
// are optional; zero values select the defaults (generated id, no expiry,
// fixed backing, unitary ratio).
type IssueVoucherRequest struct {
	IssuerId        string
	Unit            string
	Amount          uint64
	ExpiryDays      int
	VoucherId       string
	Memo            string
	BackingStrategy domain.BackingStrategy
	IssuanceRatio   decimal.Decimal
	FaceDecimals    uint32
	Metadata        map[string]string
}

// IssuancePolicy holds the configurable issuance ceilings. A zero value means
// the corresponding ceiling is not enforced.
type IssuancePolicy struct {
	MaxAmount     uint64
	MaxExpiryDays int
}

// RedeemRequest selects how a redemption is verified.
type RedeemRequest struct {
	ExpectedIssuerId string
	// Offline skips the ledger and with it the double-spend check. Unsafe,
	// logged as such.
	Offline bool
}

// RedeemResult is the outcome of a redemption attempt. Verified without
// Recorded is the severe case: the merchant must not deliver goods.
type RedeemResult struct {
	Verified bool
	Recorded bool
	Reasons  []string
}
