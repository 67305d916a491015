package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RelayProvider runs the real widget in a browser. Opening a widget parks
// its options in the session repo; the browser fetches them, shows the
// widget and reports the outcome back through Succeed, Fail or Dismiss.
type RelayProvider struct {
	sessions repo.SessionRepo
	loaded   atomic.Bool
	logger   *zap.SugaredLogger
}

func NewRelayProvider(sessions repo.SessionRepo, logger *zap.SugaredLogger) *RelayProvider {
	return &RelayProvider{sessions: sessions, logger: logger}
}

// MarkLoaded records that the browser has loaded the widget script.
func (p *RelayProvider) MarkLoaded() {
	if !p.loaded.Swap(true) {
		p.logger.Infow("browser reported checkout widget loaded")
	}
}

func (p *RelayProvider) Loaded() bool {
	return p.loaded.Load()
}

func (p *RelayProvider) New(opts domain.CheckoutOptions) (Widget, error) {
	if !p.Loaded() {
		return nil, errors.New("checkout widget not loaded")
	}
	if opts.Key == "" || opts.OrderID == "" {
		return nil, errors.New("checkout options need key and order_id")
	}
	return &relayWidget{id: uuid.New(), opts: opts, provider: p}, nil
}

// Current returns the session the browser should display, or nil.
func (p *RelayProvider) Current(ctx context.Context) (*repo.Session, error) {
	return p.sessions.FindLatest(ctx)
}

func (p *RelayProvider) Succeed(ctx context.Context, id uuid.UUID, resp domain.SuccessResponse) error {
	s, err := p.sessions.Take(ctx, id)
	if err != nil {
		return err
	}
	p.logger.Infow("relay success callback", "session_id", id, "order_id", resp.OrderID, "payment_id", resp.PaymentID)
	if s.Options.Handler != nil {
		s.Options.Handler(resp)
	}
	return nil
}

func (p *RelayProvider) Fail(ctx context.Context, id uuid.UUID, resp domain.FailureResponse) error {
	s, err := p.sessions.Take(ctx, id)
	if err != nil {
		return err
	}
	p.logger.Infow("relay failure callback", "session_id", id, "code", resp.Error.Code, "reason", resp.Error.Reason)
	for _, fn := range s.OnFailed {
		fn(resp)
	}
	return nil
}

func (p *RelayProvider) Dismiss(ctx context.Context, id uuid.UUID) error {
	s, err := p.sessions.Take(ctx, id)
	if err != nil {
		return err
	}
	p.logger.Infow("relay dismiss callback", "session_id", id)
	if s.Options.Modal.OnDismiss != nil {
		s.Options.Modal.OnDismiss()
	}
	return nil
}

type relayWidget struct {
	id       uuid.UUID
	opts     domain.CheckoutOptions
	provider *RelayProvider

	mu       sync.Mutex
	onFailed []func(domain.FailureResponse)
	opened   bool
}

func (w *relayWidget) On(event string, fn func(domain.FailureResponse)) {
	if event != domain.EventPaymentFailed {
		return
	}
	w.mu.Lock()
	w.onFailed = append(w.onFailed, fn)
	w.mu.Unlock()
}

func (w *relayWidget) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.opened {
		return fmt.Errorf("widget %s already opened", w.id)
	}
	w.opened = true

	return w.provider.sessions.Save(context.Background(), &repo.Session{
		ID:       w.id,
		Options:  w.opts,
		OnFailed: append([]func(domain.FailureResponse){}, w.onFailed...),
	})
}
