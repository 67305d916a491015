package service

import (
	"context"

	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/backend"

	"go.uber.org/zap"
)

type PaymentVerifyClient interface {
	VerifyPayment(ctx context.Context, req backend.VerifyRequest) (bool, error)
}

type ResultVerifier interface {
	// Verify asks the backend to confirm a payment. It makes one call and
	// never retries; an error means the verdict is unknown.
	Verify(ctx context.Context, paymentID, orderID, signature string) (domain.VerificationResult, error)
}

type resultVerifier struct {
	client PaymentVerifyClient
	logger *zap.SugaredLogger
}

func NewResultVerifier(client PaymentVerifyClient, logger *zap.SugaredLogger) ResultVerifier {
	return &resultVerifier{client: client, logger: logger}
}

func (v *resultVerifier) Verify(ctx context.Context, paymentID, orderID, signature string) (domain.VerificationResult, error) {
	ok, err := v.client.VerifyPayment(ctx, backend.VerifyRequest{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
	})
	if err != nil {
		// The gateway may have taken the money; only support can settle it.
		v.logger.Errorw("payment verification unreachable",
			"order_id", orderID,
			"payment_id", paymentID,
			"error", err,
		)
		return domain.VerificationRejected, err
	}

	if !ok {
		v.logger.Warnw("payment verification rejected", "order_id", orderID, "payment_id", paymentID)
		return domain.VerificationRejected, nil
	}
	return domain.VerificationVerified, nil
}
