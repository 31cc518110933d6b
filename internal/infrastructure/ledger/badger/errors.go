package dbbadger

import "errors"

var (
	// ErrVoucherAlreadyPublished ...
	ErrVoucherAlreadyPublished = errors.New("voucher is already published on the ledger")
	// ErrVoucherNotFound ...
	ErrVoucherNotFound = errors.New("voucher not found on the ledger")
	// ErrTransitionNotAllowed is returned on any transition out of a
	// terminal status, including a second REDEEMED attempt.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)
