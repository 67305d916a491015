// Package backend talks to the service that issues orders and verifies
// payment signatures.
package backend

import (
	"context"
	"net/http"
	"time"

	"upi-checkout/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	createOrderPath   = "/api/create-order"
	verifyPaymentPath = "/api/verify-payment"
)

type Client interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (domain.Order, error)
	VerifyPayment(ctx context.Context, req VerifyRequest) (bool, error)
}

type client struct {
	resty  *resty.Client
	logger *zap.SugaredLogger
}

// NewClient returns a Client for the backend at baseURL. Requests are traced
// through otelhttp and never retried.
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) Client {
	hc := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	r := resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &client{resty: r, logger: logger}
}
