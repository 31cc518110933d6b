package application

import "errors"

var (
	// ErrMissingIssuerId ...
	ErrMissingIssuerId = errors.New("issuer id must not be blank")
	// ErrMissingUnit ...
	ErrMissingUnit = errors.New("unit must not be blank")
	// ErrNonPositiveAmount ...
	ErrNonPositiveAmount = errors.New("amount must be a positive integer")
	// ErrNegativeExpiryDays ...
	ErrNegativeExpiryDays = errors.New("expiry days must be a positive number")
	// ErrAmountAbovePolicy is returned when a requested amount exceeds the
	// configured issuance ceiling.
	ErrAmountAbovePolicy = errors.New("amount exceeds the maximum allowed by policy")
	// ErrExpiryAbovePolicy is returned when a requested expiry exceeds the
	// configured issuance ceiling.
	ErrExpiryAbovePolicy = errors.New("expiry exceeds the maximum allowed by policy")
	// ErrVoucherNotRecorded signals a financial inconsistency: the voucher
	// passed verification but the ledger update failed, so goods must not be
	// delivered and the state requires manual reconciliation.
	ErrVoucherNotRecorded = errors.New("voucher verified but redemption not recorded in ledger")
	// ErrNilVoucher ...
	ErrNilVoucher = errors.New("voucher must not be nil")
)
