package payment

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"upi-checkout/internal/domain"

	"github.com/google/uuid"
)

type MockConfig struct {
	// Percentages of opened widgets that succeed and fail; the rest are dismissed.
	SuccessRate int
	FailureRate int
	// DuplicateRate is the percentage of widgets that fire a stray second
	// callback after their outcome.
	DuplicateRate int
	// LoadDelay is how long the widget runtime takes to become Loaded.
	LoadDelay time.Duration
	// Latency is how long the simulated payer takes to act.
	Latency time.Duration
	// KeySecret signs successful payments when set.
	KeySecret string
}

var failureReasons = []domain.GatewayError{
	{Code: "BAD_REQUEST_ERROR", Description: "Payment failed due to insufficient funds", Source: "customer", Step: "payment_authorization", Reason: "insufficient_funds"},
	{Code: "BAD_REQUEST_ERROR", Description: "UPI PIN entered is incorrect", Source: "customer", Step: "payment_authorization", Reason: "incorrect_pin"},
	{Code: "GATEWAY_ERROR", Description: "Payment processing failed at the bank", Source: "bank", Step: "payment_authorization", Reason: "payment_failed"},
	{Code: "BAD_REQUEST_ERROR", Description: "UPI collect request expired", Source: "customer", Step: "payment_authentication", Reason: "payment_timed_out"},
}

type mockProvider struct {
	cfg      MockConfig
	loadedAt time.Time
	intN     func(n int) int

	mu     sync.Mutex
	opened map[string]bool
}

// NewMockProvider simulates a payer using the widget with random outcomes.
func NewMockProvider(cfg MockConfig) CheckoutProvider {
	return &mockProvider{
		cfg:      cfg,
		loadedAt: time.Now().Add(cfg.LoadDelay),
		intN:     rand.IntN,
		opened:   make(map[string]bool),
	}
}

func (p *mockProvider) Loaded() bool {
	return !time.Now().Before(p.loadedAt)
}

func (p *mockProvider) New(opts domain.CheckoutOptions) (Widget, error) {
	if !p.Loaded() {
		return nil, errors.New("checkout widget not loaded")
	}
	if opts.Key == "" || opts.OrderID == "" || opts.Amount <= 0 {
		return nil, errors.New("invalid checkout options")
	}
	if opts.Handler == nil {
		return nil, errors.New("checkout options need a handler")
	}
	return &mockWidget{provider: p, opts: opts}, nil
}

type mockWidget struct {
	provider *mockProvider
	opts     domain.CheckoutOptions

	mu       sync.Mutex
	onFailed []func(domain.FailureResponse)
}

func (w *mockWidget) On(event string, fn func(domain.FailureResponse)) {
	if event != domain.EventPaymentFailed {
		return
	}
	w.mu.Lock()
	w.onFailed = append(w.onFailed, fn)
	w.mu.Unlock()
}

func (w *mockWidget) Open() error {
	p := w.provider

	// Widgets are single-use, and so are orders.
	p.mu.Lock()
	if p.opened[w.opts.OrderID] {
		p.mu.Unlock()
		return errors.New("order already has an open widget")
	}
	p.opened[w.opts.OrderID] = true
	chance := p.intN(100)
	duplicate := p.intN(100) < p.cfg.DuplicateRate
	p.mu.Unlock()

	go func() {
		time.Sleep(p.cfg.Latency)

		switch {
		case chance < p.cfg.SuccessRate:
			w.succeed()
		case chance < p.cfg.SuccessRate+p.cfg.FailureRate:
			w.fail()
		default:
			w.dismiss()
		}

		if duplicate {
			w.dismiss()
		}
	}()
	return nil
}

func (w *mockWidget) succeed() {
	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]

	signature := "sig_unsigned"
	if secret := w.provider.cfg.KeySecret; secret != "" {
		signature = Sign(secret, w.opts.OrderID, paymentID)
	}

	w.opts.Handler(domain.SuccessResponse{
		PaymentID: paymentID,
		OrderID:   w.opts.OrderID,
		Signature: signature,
	})
}

func (w *mockWidget) fail() {
	p := w.provider
	p.mu.Lock()
	reason := failureReasons[p.intN(len(failureReasons))]
	p.mu.Unlock()

	w.mu.Lock()
	handlers := append([]func(domain.FailureResponse){}, w.onFailed...)
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(domain.FailureResponse{Error: reason})
	}
}

func (w *mockWidget) dismiss() {
	if w.opts.Modal.OnDismiss != nil {
		w.opts.Modal.OnDismiss()
	}
}
