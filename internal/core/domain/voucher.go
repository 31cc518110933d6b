package domain

import (
	"strings"

	"github.com/modelb-network/voucherd/pkg/canonical"
	"github.com/shopspring/decimal"
)

// BackingStrategy tells how the issuing merchant backs the voucher's face
// value.
type BackingStrategy string

const (
	// BackingFixed backs the full face value at issuance.
	BackingFixed BackingStrategy = "FIXED"
	// BackingProportional backs a fraction of the face value given by the
	// issuance ratio.
	BackingProportional BackingStrategy = "PROPORTIONAL"
)

// VoucherSecret holds the terms of a voucher. It is created once at issuance
// and never mutated afterwards; its canonical encoding is the exact input of
// the issuer signature.
type VoucherSecret struct {
	// Id is a 128-bit unique identifier, typically an UUID string.
	Id string
	// IssuerId identifies the issuing merchant, the only place where the
	// voucher is redeemable.
	IssuerId string
	// Unit is the currency unit of the face value.
	Unit string
	// FaceValue is the claim amount in the smallest denomination of the unit.
	FaceValue uint64
	// ExpiresAt is the absolute expiry in Unix seconds, 0 if the voucher
	// never expires.
	ExpiresAt int64
	// Memo is an optional free-form note.
	Memo string
	// BackingStrategy is either FIXED or PROPORTIONAL.
	BackingStrategy BackingStrategy
	// IssuanceRatio is the backed fraction of the face value, used with the
	// PROPORTIONAL strategy.
	IssuanceRatio decimal.Decimal
	// FaceDecimals is the number of decimals of the displayed face value.
	FaceDecimals uint32
	// MerchantMetadata carries opaque merchant key/value pairs, included in
	// the signature input as canonical text.
	MerchantMetadata map[string]string
}

// NewVoucherSecret returns a voucher secret with the fixed backing strategy, a
// unitary issuance ratio and the given required terms.
func NewVoucherSecret(id, issuerId, unit string, faceValue uint64) (*VoucherSecret, error) {
	secret := &VoucherSecret{
		Id:              id,
		IssuerId:        issuerId,
		Unit:            unit,
		FaceValue:       faceValue,
		BackingStrategy: BackingFixed,
		IssuanceRatio:   decimal.NewFromInt(1),
	}
	if err := secret.Validate(); err != nil {
		return nil, err
	}
	return secret, nil
}

// Validate checks the invariants of the voucher terms.
func (v VoucherSecret) Validate() error {
	if strings.TrimSpace(v.Id) == "" {
		return ErrBlankVoucherId
	}
	if strings.TrimSpace(v.IssuerId) == "" {
		return ErrBlankIssuerId
	}
	if strings.TrimSpace(v.Unit) == "" {
		return ErrBlankUnit
	}
	if v.FaceValue == 0 {
		return ErrNonPositiveFaceValue
	}
	if v.BackingStrategy != BackingFixed && v.BackingStrategy != BackingProportional {
		return ErrUnknownBackingStrategy
	}
	if !v.IssuanceRatio.IsPositive() {
		return ErrNonPositiveIssuanceRatio
	}
	return nil
}

// voucherTerms is the canonical signing layout of a voucher secret. Integer
// map keys fix the field order; optional fields are carried as zero-value
// sentinels so every encoding covers the full field set.
type voucherTerms struct {
	Id              string            `cbor:"1,keyasint"`
	IssuerId        string            `cbor:"2,keyasint"`
	Unit            string            `cbor:"3,keyasint"`
	FaceValue       uint64            `cbor:"4,keyasint"`
	ExpiresAt       int64             `cbor:"5,keyasint"`
	Memo            string            `cbor:"6,keyasint"`
	BackingStrategy string            `cbor:"7,keyasint"`
	IssuanceRatio   string            `cbor:"8,keyasint"`
	FaceDecimals    uint32            `cbor:"9,keyasint"`
	Metadata        map[string]string `cbor:"10,keyasint"`
}

// Encode returns the deterministic byte serialization of the voucher terms,
// the exact message signed and verified by the signature engine. Identical
// logical secrets always encode to identical bytes.
func (v VoucherSecret) Encode() ([]byte, error) {
	metadata := v.MerchantMetadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return canonical.Marshal(voucherTerms{
		Id:              v.Id,
		IssuerId:        v.IssuerId,
		Unit:            v.Unit,
		FaceValue:       v.FaceValue,
		ExpiresAt:       v.ExpiresAt,
		Memo:            v.Memo,
		BackingStrategy: string(v.BackingStrategy),
		IssuanceRatio:   v.IssuanceRatio.String(),
		FaceDecimals:    v.FaceDecimals,
		Metadata:        metadata,
	})
}

// copy returns a deep copy of the secret, detaching the metadata map.
func (v VoucherSecret) copy() VoucherSecret {
	out := v
	if v.MerchantMetadata != nil {
		out.MerchantMetadata = make(map[string]string, len(v.MerchantMetadata))
		for k, val := range v.MerchantMetadata {
			out.MerchantMetadata[k] = val
		}
	}
	return out
}

// equal compares all terms, including the metadata map.
func (v VoucherSecret) equal(o VoucherSecret) bool {
	if v.Id != o.Id || v.IssuerId != o.IssuerId || v.Unit != o.Unit ||
		v.FaceValue != o.FaceValue || v.ExpiresAt != o.ExpiresAt ||
		v.Memo != o.Memo || v.BackingStrategy != o.BackingStrategy ||
		v.FaceDecimals != o.FaceDecimals ||
		!v.IssuanceRatio.Equal(o.IssuanceRatio) {
		return false
	}
	if len(v.MerchantMetadata) != len(o.MerchantMetadata) {
		return false
	}
	for k, val := range v.MerchantMetadata {
		if other, ok := o.MerchantMetadata[k]; !ok || other != val {
			return false
		}
	}
	return true
}
