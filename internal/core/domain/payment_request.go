package domain

// PaymentTransport describes one way the customer can deliver the payment
// payload back to the merchant.
type PaymentTransport struct {
	Type   string
	Target string
	Tags   [][]string
}

// PaymentRequest is a merchant-issued NUT-18V payment request. Zero values of
// the optional fields (PaymentId, Amount, Unit, Mints) mean "unrestricted".
type PaymentRequest struct {
	PaymentId           string
	IssuerId            string
	Amount              uint64
	Unit                string
	Mints               []string
	SingleUse           bool
	OfflineVerification bool
	Transports          []PaymentTransport
}

// DLEQProof enables offline authenticity verification of a proof without
// contacting the issuer.
type DLEQProof struct {
	E string
	S string
	R string
}

// PaymentProof is one spendable proof inside a payment payload.
type PaymentProof struct {
	Amount    uint64
	KeysetId  string
	Secret    string
	Signature string
	DLEQ      *DLEQProof
}

// PaymentPayload is the customer's response to a payment request.
type PaymentPayload struct {
	Id       string
	IssuerId string
	Mint     string
	Unit     string
	Proofs   []PaymentProof
}

// ProofTotal sums the amounts of all proofs in the payload.
func (p PaymentPayload) ProofTotal() uint64 {
	var total uint64
	for _, proof := range p.Proofs {
		total += proof.Amount
	}
	return total
}
