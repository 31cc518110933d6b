package domain

import (
	"fmt"
	"time"
)

// ValidationResult is the outcome of a composite validation: a valid flag and
// the ordered list of every failing reason. It is never persisted.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidResult returns a passing result.
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing result carrying the given reasons.
func InvalidResult(reasons ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: reasons}
}

// ResultFromReasons returns a result that is valid iff no reason accumulated.
func ResultFromReasons(reasons []string) ValidationResult {
	if len(reasons) > 0 {
		return ValidationResult{Valid: false, Errors: reasons}
	}
	return ValidResult()
}

// Validator runs composite, error-accumulating rule checks over signed
// vouchers. The signature engine is injected by interface; the clock is
// injectable for expiry boundary tests.
type Validator struct {
	verifier SignatureVerifier
	now      func() time.Time
}

// NewValidator returns a validator using the given verification service and
// the wall clock.
func NewValidator(verifier SignatureVerifier) *Validator {
	return NewValidatorWithClock(verifier, time.Now)
}

// NewValidatorWithClock returns a validator with an injected clock.
func NewValidatorWithClock(verifier SignatureVerifier, now func() time.Time) *Validator {
	return &Validator{verifier: verifier, now: now}
}

// Validate runs the signature and expiry checks, accumulating every failing
// reason instead of short-circuiting.
func (v *Validator) Validate(voucher *SignedVoucher) ValidationResult {
	if voucher == nil {
		return InvalidResult("voucher is missing")
	}
	reasons := make([]string, 0, 2)
	if !voucher.Verify(v.verifier) {
		reasons = append(reasons, "invalid issuer signature")
	}
	if voucher.IsExpiredAt(v.now()) {
		reasons = append(reasons, "voucher is expired")
	}
	return ResultFromReasons(reasons)
}

// ValidateWithIssuer runs the full validation and separately reports a
// mismatch between the voucher's issuer and the expected one.
func (v *Validator) ValidateWithIssuer(voucher *SignedVoucher, expectedIssuerId string) ValidationResult {
	if voucher == nil {
		return InvalidResult("voucher is missing")
	}
	res := v.Validate(voucher)
	reasons := res.Errors
	if issuerId := voucher.Secret().IssuerId; issuerId != expectedIssuerId {
		reasons = append(reasons, fmt.Sprintf(
			"issuer mismatch: voucher issued by %s, expected %s", issuerId, expectedIssuerId,
		))
	}
	return ResultFromReasons(reasons)
}

// ValidateSignatureOnly exposes the bare signature check for callers that
// intentionally ignore expiry.
func (v *Validator) ValidateSignatureOnly(voucher *SignedVoucher) ValidationResult {
	if voucher == nil {
		return InvalidResult("voucher is missing")
	}
	if !voucher.Verify(v.verifier) {
		return InvalidResult("invalid issuer signature")
	}
	return ValidResult()
}

// ValidateExpiryOnly exposes the bare expiry check.
func (v *Validator) ValidateExpiryOnly(voucher *SignedVoucher) ValidationResult {
	if voucher == nil {
		return InvalidResult("voucher is missing")
	}
	if voucher.IsExpiredAt(v.now()) {
		return InvalidResult("voucher is expired")
	}
	return ValidResult()
}

// IsValid is a boolean convenience over Validate.
func (v *Validator) IsValid(voucher *SignedVoucher) bool {
	return v.Validate(voucher).Valid
}
