package domain

// VoucherStatus is the ledger-recorded state of a voucher.
type VoucherStatus string

const (
	// StatusIssued is the only non-terminal status.
	StatusIssued VoucherStatus = "ISSUED"
	// StatusRedeemed marks a voucher spent at its issuing merchant.
	StatusRedeemed VoucherStatus = "REDEEMED"
	// StatusRevoked marks a voucher withdrawn by its issuer.
	StatusRevoked VoucherStatus = "REVOKED"
	// StatusExpired marks a voucher past its expiry as recorded on the ledger.
	StatusExpired VoucherStatus = "EXPIRED"
	// StatusUnknown covers any value outside the closed set. It is always
	// treated as invalid by consumers.
	StatusUnknown VoucherStatus = "UNKNOWN"
)

// ParseVoucherStatus maps a raw status string to the closed status set,
// returning StatusUnknown for anything it does not recognize.
func ParseVoucherStatus(raw string) VoucherStatus {
	switch VoucherStatus(raw) {
	case StatusIssued:
		return StatusIssued
	case StatusRedeemed:
		return StatusRedeemed
	case StatusRevoked:
		return StatusRevoked
	case StatusExpired:
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// IsKnown returns whether the status belongs to the closed status set.
func (s VoucherStatus) IsKnown() bool {
	return s == StatusIssued || s.IsTerminal()
}

// IsTerminal returns whether the status admits no further transition.
func (s VoucherStatus) IsTerminal() bool {
	switch s {
	case StatusRedeemed, StatusRevoked, StatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns whether the status machine admits a transition from
// s to next. The only legal moves are ISSUED to one of the terminal statuses.
func (s VoucherStatus) CanTransitionTo(next VoucherStatus) bool {
	return s == StatusIssued && next.IsTerminal()
}
