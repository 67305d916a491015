package service

import (
	"fmt"
	"sync"
	"sync/atomic"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/payment"

	"go.uber.org/zap"
)

// upiFlows is the display priority of the UPI sub-flows.
var upiFlows = []string{"qr", "collect", "intent"}

var upiApps = []string{"phonepe", "googlepay", "paytm", "bhim", "amazonpay"}

// SessionSettings are the merchant-level parts of every checkout session.
type SessionSettings struct {
	KeyID        string
	MerchantName string
	Description  string
	ThemeColor   string
}

type SessionController interface {
	// Open starts a checkout session for order. The returned session
	// always yields exactly one outcome.
	Open(order domain.Order, form domain.PaymentFormInput) *Session
}

// Session is one opened checkout widget. Its outcome channel receives
// exactly one value; later callbacks from the widget are dropped.
type Session struct {
	OrderID string

	outcome chan domain.PaymentOutcome
	once    sync.Once
	ignored atomic.Int32
	logger  *zap.SugaredLogger
}

func newSession(orderID string, logger *zap.SugaredLogger) *Session {
	return &Session{
		OrderID: orderID,
		outcome: make(chan domain.PaymentOutcome, 1),
		logger:  logger,
	}
}

func (s *Session) Outcome() <-chan domain.PaymentOutcome {
	return s.outcome
}

// Ignored returns how many callbacks arrived after the outcome was fixed.
func (s *Session) Ignored() int {
	return int(s.ignored.Load())
}

func (s *Session) resolve(o domain.PaymentOutcome) bool {
	delivered := false
	s.once.Do(func() {
		s.outcome <- o
		delivered = true
	})
	if !delivered {
		s.ignored.Add(1)
		s.logger.Warnw("ignoring checkout callback for resolved session",
			"order_id", s.OrderID,
			"outcome", o.Kind,
		)
	}
	return delivered
}

type sessionController struct {
	provider payment.CheckoutProvider
	settings SessionSettings
	logger   *zap.SugaredLogger
}

func NewSessionController(provider payment.CheckoutProvider, settings SessionSettings, logger *zap.SugaredLogger) SessionController {
	return &sessionController{
		provider: provider,
		settings: settings,
		logger:   logger,
	}
}

func (c *sessionController) Open(order domain.Order, form domain.PaymentFormInput) *Session {
	s := newSession(order.ID, c.logger)

	opts := BuildCheckoutOptions(c.settings, order, form)
	opts.Handler = func(r domain.SuccessResponse) {
		orderID := r.OrderID
		if orderID == "" {
			orderID = order.ID
		} else if orderID != order.ID {
			c.logger.Warnw("success callback for a different order", "order_id", order.ID, "callback_order_id", orderID)
		}
		s.resolve(domain.Succeeded(r.PaymentID, orderID, r.Signature))
	}
	opts.Modal.OnDismiss = func() {
		s.resolve(domain.Cancelled())
	}

	if err := c.openWidget(opts, s); err != nil {
		c.logger.Errorw("checkout session init failed", "order_id", order.ID, "error", err)
		s.resolve(domain.Failed(err.Error(), fmt.Errorf("%w: %v", domain.ErrSessionInit, err)))
	}
	return s
}

// openWidget constructs and opens the widget. A panic inside the provider
// counts as an init failure.
func (c *sessionController) openWidget(opts domain.CheckoutOptions, s *Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("checkout provider panicked: %v", r)
		}
	}()

	w, err := c.provider.New(opts)
	if err != nil {
		return err
	}
	w.On(domain.EventPaymentFailed, func(r domain.FailureResponse) {
		s.resolve(domain.Failed(failureReason(r), domain.ErrGatewayFailure))
	})
	return w.Open()
}

func failureReason(r domain.FailureResponse) string {
	switch {
	case r.Error.Description != "":
		return r.Error.Description
	case r.Error.Reason != "":
		return r.Error.Reason
	default:
		return "unknown error"
	}
}

// BuildCheckoutOptions pins the session to UPI with the QR flow first and
// every other instrument disabled. Amount and currency come from the order
// unchanged.
func BuildCheckoutOptions(settings SessionSettings, order domain.Order, form domain.PaymentFormInput) domain.CheckoutOptions {
	return domain.CheckoutOptions{
		Key:         settings.KeyID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        settings.MerchantName,
		Description: settings.Description,
		OrderID:     order.ID,
		Prefill: domain.Prefill{
			Name:    form.Name,
			Email:   form.Email,
			Contact: form.Phone,
		},
		Notes: map[string]string{
			"location":     form.Location,
			"payment_type": "upi_with_qr",
		},
		Theme: domain.Theme{
			Color:         settings.ThemeColor,
			BackdropColor: "rgba(0, 0, 0, 0.5)",
		},
		Method: domain.MethodAllowList{UPI: true},
		Config: domain.DisplayConfig{
			Display: domain.DisplayBlocks{
				Blocks: map[string]domain.Block{
					"utib": {
						Name: "UPI",
						Instruments: []domain.Instrument{
							{Method: "upi", Flows: append([]string(nil), upiFlows...)},
						},
					},
				},
				Sequence:    []string{"block.utib"},
				Preferences: domain.DisplayPreferences{ShowDefaultBlocks: true},
			},
		},
		UPI: domain.UPIOptions{
			Flow: append([]string(nil), upiFlows...),
			Apps: append([]string(nil), upiApps...),
			QR:   domain.QROptions{Show: true, Size: "medium"},
		},
		Display:  domain.DisplayLanguage{Language: "en"},
		Readonly: domain.Readonly{},
		Modal: domain.Modal{
			ConfirmClose: true,
			Animation:    true,
		},
	}
}
