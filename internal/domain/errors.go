package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCapabilityUnavailable = errors.New("checkout capability unavailable")
	ErrValidation            = errors.New("invalid payment form")
	ErrMissingField          = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrOrderCreation         = errors.New("order creation failed")
	ErrSessionInit           = errors.New("checkout session init failed")
	ErrGatewayFailure        = errors.New("payment failed at gateway")
	ErrUserCancelled         = errors.New("payment cancelled by user")
	ErrVerificationFailed    = errors.New("payment verification failed")
	ErrVerificationTransport = fmt.Errorf("%w: backend unreachable", ErrVerificationFailed)
	ErrSubmissionInProgress  = errors.New("a payment is already in progress")
	ErrSessionNotFound       = errors.New("checkout session not found")
)

// Kind maps an error to a stable label for logs and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrCapabilityUnavailable):
		return "capability_unavailable"

	case errors.Is(err, ErrMissingField):
		return "missing_field"

	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"

	case errors.Is(err, ErrValidation):
		return "validation"

	case errors.Is(err, ErrOrderCreation):
		return "order_creation"

	case errors.Is(err, ErrSessionInit):
		return "session_init"

	case errors.Is(err, ErrGatewayFailure):
		return "gateway_failure"

	case errors.Is(err, ErrUserCancelled):
		return "user_cancelled"

	case errors.Is(err, ErrVerificationTransport):
		return "verification_transport"

	case errors.Is(err, ErrVerificationFailed):
		return "verification_failed"

	case errors.Is(err, ErrSubmissionInProgress):
		return "in_progress"

	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

// HTTPStatus maps an error to the status returned by the checkout API.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, ErrSubmissionInProgress):
		return http.StatusConflict

	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrCapabilityUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, ErrOrderCreation),
		errors.Is(err, ErrVerificationFailed):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
