package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/backend"
	"upi-checkout/internal/infrastructure/payment"
)

type fakeProvider struct {
	mu         sync.Mutex
	loaded     bool
	newErr     error
	openErr    error
	panicOnNew bool
	widgets    []*fakeWidget
	opened     chan *fakeWidget
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{loaded: true, opened: make(chan *fakeWidget, 8)}
}

func (p *fakeProvider) setLoaded(v bool) {
	p.mu.Lock()
	p.loaded = v
	p.mu.Unlock()
}

func (p *fakeProvider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

func (p *fakeProvider) New(opts domain.CheckoutOptions) (payment.Widget, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.panicOnNew {
		panic("widget constructor exploded")
	}
	if p.newErr != nil {
		return nil, p.newErr
	}
	w := &fakeWidget{provider: p, opts: opts}
	p.widgets = append(p.widgets, w)
	return w, nil
}

func (p *fakeProvider) widgetCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.widgets)
}

type fakeWidget struct {
	provider *fakeProvider
	opts     domain.CheckoutOptions
	onFailed []func(domain.FailureResponse)
}

func (w *fakeWidget) On(event string, fn func(domain.FailureResponse)) {
	if event == domain.EventPaymentFailed {
		w.onFailed = append(w.onFailed, fn)
	}
}

func (w *fakeWidget) Open() error {
	if w.provider.openErr != nil {
		return w.provider.openErr
	}
	w.provider.opened <- w
	return nil
}

func (w *fakeWidget) succeed(paymentID, signature string) {
	w.opts.Handler(domain.SuccessResponse{PaymentID: paymentID, OrderID: w.opts.OrderID, Signature: signature})
}

func (w *fakeWidget) fail(description string) {
	for _, fn := range w.onFailed {
		fn(domain.FailureResponse{Error: domain.GatewayError{Code: "BAD_REQUEST_ERROR", Description: description}})
	}
}

func (w *fakeWidget) dismiss() {
	w.opts.Modal.OnDismiss()
}

func waitOpened(t *testing.T, p *fakeProvider) *fakeWidget {
	t.Helper()
	select {
	case w := <-p.opened:
		return w
	case <-time.After(2 * time.Second):
		t.Fatal("checkout widget was never opened")
		return nil
	}
}

type fakeOrders struct {
	calls   atomic.Int32
	order   domain.Order
	err     error
	amounts chan float64
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		order:   domain.Order{ID: "order_1", Amount: 10000, Currency: "INR"},
		amounts: make(chan float64, 8),
	}
}

func (f *fakeOrders) CreateOrder(ctx context.Context, amount float64, currency string) (domain.Order, error) {
	f.calls.Add(1)
	f.amounts <- amount
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return f.order, nil
}

type fakeVerifyClient struct {
	calls atomic.Int32
	ok    bool
	err   error

	mu   sync.Mutex
	reqs []backend.VerifyRequest
}

func (f *fakeVerifyClient) VerifyPayment(ctx context.Context, req backend.VerifyRequest) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.ok, f.err
}
