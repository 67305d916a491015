package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"upi-checkout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, 2*time.Second, zap.NewNop().Sugar()), &calls
}

func TestCreateOrder(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, createOrderPath, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 100.5, body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order":{"id":"order_1","amount":10050,"currency":"INR"}}`))
	})

	order, err := c.CreateOrder(context.Background(), 100.5, "INR")
	require.NoError(t, err)
	assert.Equal(t, domain.Order{ID: "order_1", Amount: 10050, Currency: "INR"}, order)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateOrderFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{"success":false}`},
		{name: "garbage", status: http.StatusOK, body: `not json`},
		{name: "no order", status: http.StatusOK, body: `{}`},
		{name: "no id", status: http.StatusOK, body: `{"order":{"amount":100,"currency":"INR"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateOrder(context.Background(), 10, "INR")
			require.ErrorIs(t, err, domain.ErrOrderCreation)
			assert.Equal(t, int32(1), calls.Load(), "no retry")
		})
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, amount := range []float64{0, -1} {
		_, err := c.CreateOrder(context.Background(), amount, "INR")
		require.ErrorIs(t, err, domain.ErrOrderCreation)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestCreateOrderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop().Sugar())
	_, err := c.CreateOrder(context.Background(), 10, "INR")
	require.ErrorIs(t, err, domain.ErrOrderCreation)
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr error
	}{
		{name: "verified", status: http.StatusOK, body: `{"success":true}`, want: true},
		{name: "rejected", status: http.StatusOK, body: `{"success":false}`, want: false},
		{name: "bad signature 400", status: http.StatusBadRequest, body: `{"success":false,"error":"Invalid signature"}`, want: false},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, want: false},
		{name: "garbage 200", status: http.StatusOK, body: `oops`, wantErr: domain.ErrVerificationTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, verifyPaymentPath, r.URL.Path)

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "order_1", body["razorpay_order_id"])
				assert.Equal(t, "pay_1", body["razorpay_payment_id"])
				assert.Equal(t, "sig", body["razorpay_signature"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			ok, err := c.VerifyPayment(context.Background(), VerifyRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrVerificationFailed)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, int32(1), calls.Load(), "no retry")
		})
	}
}

func TestVerifyPaymentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop().Sugar())
	ok, err := c.VerifyPayment(context.Background(), VerifyRequest{OrderID: "o", PaymentID: "p", Signature: "s"})
	require.ErrorIs(t, err, domain.ErrVerificationTransport)
	assert.False(t, ok)
}
