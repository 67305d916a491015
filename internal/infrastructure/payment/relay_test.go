package payment

import (
	"context"
	"testing"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/repo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	success []domain.SuccessResponse
	failure []domain.FailureResponse
	dismiss int
}

func relayOptions(rec *recorded) domain.CheckoutOptions {
	return domain.CheckoutOptions{
		Key:     "rzp_test",
		OrderID: "order_1",
		Amount:  10000,
		Handler: func(r domain.SuccessResponse) { rec.success = append(rec.success, r) },
		Modal:   domain.Modal{OnDismiss: func() { rec.dismiss++ }},
	}
}

func openRelay(t *testing.T, p *RelayProvider, rec *recorded) uuid.UUID {
	t.Helper()

	w, err := p.New(relayOptions(rec))
	require.NoError(t, err)
	w.On(domain.EventPaymentFailed, func(r domain.FailureResponse) { rec.failure = append(rec.failure, r) })
	w.On("payment.authorized", func(domain.FailureResponse) { t.Fatal("unexpected event") })
	require.NoError(t, w.Open())

	s, err := p.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.ID
}

func newRelay() *RelayProvider {
	p := NewRelayProvider(repo.NewSessionRepo(), zap.NewNop().Sugar())
	p.MarkLoaded()
	return p
}

func TestRelayProviderLoaded(t *testing.T) {
	p := NewRelayProvider(repo.NewSessionRepo(), zap.NewNop().Sugar())
	assert.False(t, p.Loaded())

	_, err := p.New(domain.CheckoutOptions{Key: "k", OrderID: "o"})
	assert.Error(t, err)

	p.MarkLoaded()
	p.MarkLoaded()
	assert.True(t, p.Loaded())
}

func TestRelayProviderRejectsIncompleteOptions(t *testing.T) {
	p := newRelay()
	_, err := p.New(domain.CheckoutOptions{Key: "k"})
	assert.Error(t, err)
}

func TestRelayProviderSucceed(t *testing.T) {
	ctx := context.Background()
	p := newRelay()
	rec := &recorded{}
	id := openRelay(t, p, rec)

	resp := domain.SuccessResponse{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"}
	require.NoError(t, p.Succeed(ctx, id, resp))
	assert.Equal(t, []domain.SuccessResponse{resp}, rec.success)

	// the session is gone after the first callback
	assert.ErrorIs(t, p.Succeed(ctx, id, resp), domain.ErrSessionNotFound)
	assert.ErrorIs(t, p.Dismiss(ctx, id), domain.ErrSessionNotFound)
	assert.Len(t, rec.success, 1)
	assert.Zero(t, rec.dismiss)

	current, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestRelayProviderFail(t *testing.T) {
	p := newRelay()
	rec := &recorded{}
	id := openRelay(t, p, rec)

	resp := domain.FailureResponse{Error: domain.GatewayError{Description: "insufficient funds"}}
	require.NoError(t, p.Fail(context.Background(), id, resp))
	require.Len(t, rec.failure, 1)
	assert.Equal(t, "insufficient funds", rec.failure[0].Error.Description)
}

func TestRelayProviderDismiss(t *testing.T) {
	p := newRelay()
	rec := &recorded{}
	id := openRelay(t, p, rec)

	require.NoError(t, p.Dismiss(context.Background(), id))
	assert.Equal(t, 1, rec.dismiss)
}

func TestRelayProviderUnknownSession(t *testing.T) {
	p := newRelay()
	assert.ErrorIs(t, p.Dismiss(context.Background(), uuid.New()), domain.ErrSessionNotFound)
}

func TestRelayWidgetOpenTwice(t *testing.T) {
	p := newRelay()
	w, err := p.New(relayOptions(&recorded{}))
	require.NoError(t, err)

	require.NoError(t, w.Open())
	assert.Error(t, w.Open())
}
