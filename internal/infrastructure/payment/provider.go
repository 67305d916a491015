package payment

import "upi-checkout/internal/domain"

// CheckoutProvider is the hosted checkout widget runtime.
type CheckoutProvider interface {
	// Loaded reports whether the widget runtime is usable.
	Loaded() bool
	// New builds a widget for opts without showing it.
	New(opts domain.CheckoutOptions) (Widget, error)
}

// Widget is one checkout widget instance. It reports success through
// opts.Handler, dismissal through opts.Modal.OnDismiss and failures through
// the domain.EventPaymentFailed subscription.
type Widget interface {
	On(event string, fn func(domain.FailureResponse))
	Open() error
}
