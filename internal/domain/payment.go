package domain

type PaymentPhase string

const (
	PhaseIdle                 PaymentPhase = "idle"
	PhaseAwaitingCapability   PaymentPhase = "awaiting_capability"
	PhaseReady                PaymentPhase = "ready"
	PhaseSubmitting           PaymentPhase = "submitting"
	PhaseAwaitingOrder        PaymentPhase = "awaiting_order"
	PhaseSessionOpen          PaymentPhase = "session_open"
	PhaseAwaitingVerification PaymentPhase = "awaiting_verification"
	PhaseSucceeded            PaymentPhase = "succeeded"
	PhaseFailed               PaymentPhase = "failed"
	PhaseCancelled            PaymentPhase = "cancelled"
)

// Terminal reports whether the phase ends a submission.
func (p PaymentPhase) Terminal() bool {
	switch p {
	case PhaseSucceeded, PhaseFailed, PhaseCancelled:
		return true
	}
	return false
}

type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// PaymentOutcome is the single terminal result of a checkout session.
// PaymentID, OrderID and Signature are set for OutcomeSucceeded only,
// Reason and Err for OutcomeFailed only.
type PaymentOutcome struct {
	Kind      OutcomeKind
	PaymentID string
	OrderID   string
	Signature string
	Reason    string
	Err       error
}

func Succeeded(paymentID, orderID, signature string) PaymentOutcome {
	return PaymentOutcome{
		Kind:      OutcomeSucceeded,
		PaymentID: paymentID,
		OrderID:   orderID,
		Signature: signature,
	}
}

func Failed(reason string, err error) PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeFailed, Reason: reason, Err: err}
}

func Cancelled() PaymentOutcome {
	return PaymentOutcome{Kind: OutcomeCancelled}
}

type VerificationResult string

const (
	VerificationVerified VerificationResult = "verified"
	VerificationRejected VerificationResult = "rejected"
)
