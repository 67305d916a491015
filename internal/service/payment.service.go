package service

import (
	"context"
	"errors"
	"sync"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/payment"
	"upi-checkout/internal/worker"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	MsgLoading          = "Loading payment gateway..."
	MsgCapabilityFailed = "Failed to load payment gateway. Please refresh the page."
	MsgNotLoaded        = "Payment gateway not loaded. Please refresh the page and try again."
	MsgMissingFields    = "Please fill in all required fields"
	MsgInvalidAmount    = "Please enter an amount greater than zero"
	MsgProcessing       = "Processing..."
	MsgOrderFailed      = "Failed to initiate payment. Please try again."
	MsgSessionInit      = "Failed to initialize payment gateway. Please try again."
	MsgPaymentFailed    = "Payment failed: "
	MsgCancelled        = "Payment cancelled"
	MsgSucceeded        = "Payment successful! Thank you for your purchase."
	MsgVerifyFailed     = "Payment verification failed. Please contact support."
)

// ErrAlreadyStarted is returned by Start once the widget is known to be
// loaded or while a readiness wait is still running.
var ErrAlreadyStarted = errors.New("payment state machine already started")

type OrderRequestClient interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (domain.Order, error)
}

// Snapshot is the state shown to the payer.
type Snapshot struct {
	Phase      domain.PaymentPhase     `json:"phase"`
	Message    string                  `json:"message"`
	Form       domain.PaymentFormInput `json:"form"`
	CanSubmit  bool                    `json:"can_submit"`
	OrderID    string                  `json:"order_id,omitempty"`
	Submission uint64                  `json:"submission"`
	Kind       string                  `json:"error_kind,omitempty"`
}

type PaymentStateMachine interface {
	// Start waits for the checkout widget and moves to Ready, or to Failed
	// when it never loads. After such a failure Start may be called again,
	// for example when a freshly loaded page reports the widget.
	Start(ctx context.Context) error
	// Submit validates form and, if it is valid, starts a payment in the
	// background. Invalid input leaves the machine in Ready.
	Submit(ctx context.Context, form domain.PaymentFormInput) error
	Snapshot() Snapshot
	// Wait blocks until no step is in flight.
	Wait(ctx context.Context) (Snapshot, error)
}

type paymentStateMachine struct {
	provider payment.CheckoutProvider
	monitor  *worker.ReadinessMonitor
	orders   OrderRequestClient
	sessions SessionController
	verifier ResultVerifier
	currency string
	logger   *zap.SugaredLogger
	tracer   trace.Tracer

	mu         sync.Mutex
	phase      domain.PaymentPhase
	message    string
	form       domain.PaymentFormInput
	orderID    string
	lastErr    error
	ready      bool
	submission uint64
	changed    chan struct{}
}

func NewPaymentStateMachine(
	provider payment.CheckoutProvider,
	monitor *worker.ReadinessMonitor,
	orders OrderRequestClient,
	sessions SessionController,
	verifier ResultVerifier,
	currency string,
	logger *zap.SugaredLogger,
) PaymentStateMachine {
	return &paymentStateMachine{
		provider: provider,
		monitor:  monitor,
		orders:   orders,
		sessions: sessions,
		verifier: verifier,
		currency: currency,
		logger:   logger,
		tracer:   otel.Tracer("upi-checkout/service"),
		phase:    domain.PhaseIdle,
		changed:  make(chan struct{}),
	}
}

func (m *paymentStateMachine) Start(ctx context.Context) error {
	m.mu.Lock()
	if !m.startable() {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.transition(domain.PhaseAwaitingCapability, MsgLoading, nil)
	m.mu.Unlock()

	err := m.monitor.WaitForCapability(ctx, m.provider.Loaded)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.transition(domain.PhaseFailed, MsgCapabilityFailed, err)
		return err
	}
	m.ready = true
	m.transition(domain.PhaseReady, "", nil)
	return nil
}

func (m *paymentStateMachine) Submit(ctx context.Context, input domain.PaymentFormInput) error {
	form := input.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return domain.ErrCapabilityUnavailable
	}
	if !m.canSubmit() {
		return domain.ErrSubmissionInProgress
	}

	if err := form.Validate(); err != nil {
		m.form = form
		m.transition(domain.PhaseReady, validationMessage(err), err)
		return err
	}
	if !m.provider.Loaded() {
		m.transition(domain.PhaseReady, MsgNotLoaded, domain.ErrCapabilityUnavailable)
		return domain.ErrCapabilityUnavailable
	}

	m.submission++
	m.form = form
	m.orderID = ""
	m.transition(domain.PhaseSubmitting, MsgProcessing, nil)

	go m.run(context.WithoutCancel(ctx), m.submission, form)
	return nil
}

func (m *paymentStateMachine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *paymentStateMachine) Wait(ctx context.Context) (Snapshot, error) {
	for {
		m.mu.Lock()
		snap, changed := m.snapshot(), m.changed
		m.mu.Unlock()

		if !inFlight(snap.Phase) {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-changed:
		}
	}
}

// run drives one submission from order creation to a terminal phase. It
// is the only goroutine touching the session of this submission.
func (m *paymentStateMachine) run(ctx context.Context, submission uint64, form domain.PaymentFormInput) {
	ctx, span := m.tracer.Start(ctx, "checkout.submission",
		trace.WithAttributes(attribute.Int64("checkout.submission", int64(submission))),
	)
	defer span.End()

	m.set(domain.PhaseAwaitingOrder, MsgProcessing, nil)

	order, err := m.orders.CreateOrder(ctx, form.Amount, m.currency)
	if err != nil {
		m.finish(span, domain.PhaseFailed, MsgOrderFailed, err)
		return
	}
	span.SetAttributes(attribute.String("checkout.order_id", order.ID))

	m.mu.Lock()
	m.orderID = order.ID
	m.transition(domain.PhaseSessionOpen, MsgProcessing, nil)
	m.mu.Unlock()

	session := m.sessions.Open(order, form)
	outcome := <-session.Outcome()
	span.AddEvent("checkout.outcome", trace.WithAttributes(attribute.String("checkout.outcome", string(outcome.Kind))))

	switch outcome.Kind {
	case domain.OutcomeCancelled:
		m.finish(span, domain.PhaseCancelled, MsgCancelled, domain.ErrUserCancelled)

	case domain.OutcomeFailed:
		if errors.Is(outcome.Err, domain.ErrSessionInit) {
			m.finish(span, domain.PhaseFailed, MsgSessionInit, outcome.Err)
			return
		}
		m.finish(span, domain.PhaseFailed, MsgPaymentFailed+outcome.Reason, outcome.Err)

	case domain.OutcomeSucceeded:
		m.set(domain.PhaseAwaitingVerification, MsgProcessing, nil)

		result, err := m.verifier.Verify(ctx, outcome.PaymentID, outcome.OrderID, outcome.Signature)
		switch {
		case err != nil:
			m.finish(span, domain.PhaseFailed, MsgVerifyFailed, err)
		case result != domain.VerificationVerified:
			m.finish(span, domain.PhaseFailed, MsgVerifyFailed, domain.ErrVerificationFailed)
		default:
			m.finish(span, domain.PhaseSucceeded, MsgSucceeded, nil)
		}
	}
}

func (m *paymentStateMachine) set(phase domain.PaymentPhase, message string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(phase, message, err)
}

func (m *paymentStateMachine) finish(span trace.Span, phase domain.PaymentPhase, message string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Kind(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if phase == domain.PhaseSucceeded {
		m.form = domain.PaymentFormInput{}
	}
	m.transition(phase, message, err)
}

// transition is the only place phase and message change. m.mu must be held.
func (m *paymentStateMachine) transition(phase domain.PaymentPhase, message string, err error) {
	from := m.phase
	m.phase = phase
	m.message = message
	m.lastErr = err

	close(m.changed)
	m.changed = make(chan struct{})

	fields := []any{"from", from, "to", phase, "submission", m.submission}
	if m.orderID != "" {
		fields = append(fields, "order_id", m.orderID)
	}
	if err != nil {
		fields = append(fields, "kind", domain.Kind(err), "error", err)
		m.logger.Warnw("payment phase changed", fields...)
		return
	}
	m.logger.Infow("payment phase changed", fields...)
}

// startable reports whether a readiness wait may begin: never started, or
// the previous wait ran out. m.mu must be held.
func (m *paymentStateMachine) startable() bool {
	return m.phase == domain.PhaseIdle || (!m.ready && m.phase == domain.PhaseFailed)
}

func (m *paymentStateMachine) canSubmit() bool {
	return m.ready && (m.phase == domain.PhaseReady || m.phase.Terminal())
}

func (m *paymentStateMachine) snapshot() Snapshot {
	return Snapshot{
		Phase:      m.phase,
		Message:    m.message,
		Form:       m.form,
		CanSubmit:  m.canSubmit(),
		OrderID:    m.orderID,
		Submission: m.submission,
		Kind:       domain.Kind(m.lastErr),
	}
}

func inFlight(p domain.PaymentPhase) bool {
	switch p {
	case domain.PhaseAwaitingCapability,
		domain.PhaseSubmitting,
		domain.PhaseAwaitingOrder,
		domain.PhaseSessionOpen,
		domain.PhaseAwaitingVerification:
		return true
	}
	return false
}

func validationMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidAmount) {
		return MsgInvalidAmount
	}
	return MsgMissingFields
}
