package domain

import "errors"

var (
	// ErrNilVoucherSecret is thrown when building a signed voucher without its terms.
	ErrNilVoucherSecret = errors.New("voucher secret must not be nil")
	// ErrInvalidSignatureLength is thrown when the issuer signature is not exactly 64 bytes.
	ErrInvalidSignatureLength = errors.New("signature must be exactly 64 bytes")
	// ErrBlankPublicKey is thrown when the issuer public key is empty or blank.
	ErrBlankPublicKey = errors.New("issuer public key must not be blank")
	// ErrBlankVoucherId ...
	ErrBlankVoucherId = errors.New("voucher id must not be blank")
	// ErrBlankIssuerId ...
	ErrBlankIssuerId = errors.New("issuer id must not be blank")
	// ErrBlankUnit ...
	ErrBlankUnit = errors.New("unit must not be blank")
	// ErrNonPositiveFaceValue ...
	ErrNonPositiveFaceValue = errors.New("face value must be a positive amount")
	// ErrNonPositiveIssuanceRatio ...
	ErrNonPositiveIssuanceRatio = errors.New("issuance ratio must be positive")
	// ErrUnknownBackingStrategy ...
	ErrUnknownBackingStrategy = errors.New("backing strategy must be either FIXED or PROPORTIONAL")
)
