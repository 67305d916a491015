package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"upi-checkout/internal/domain"
)

type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// VerifyPayment relays the payment proof to the backend and returns its
// verdict. A non-2xx answer is a rejection; only a failed call or an
// unreadable 2xx body is an error (ErrVerificationTransport).
func (c *client) VerifyPayment(ctx context.Context, req VerifyRequest) (bool, error) {
	c.logger.Debugw("verify payment call started", "order_id", req.OrderID, "payment_id", req.PaymentID)
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(req).
		Post(verifyPaymentPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrVerificationTransport, err)
	}

	if resp.IsError() {
		c.logger.Warnw("backend rejected payment verification",
			"order_id", req.OrderID,
			"status", resp.StatusCode(),
			"body", string(resp.Body()),
		)
		return false, nil
	}

	var out verifyResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return false, fmt.Errorf("%w: failed to decode verification: %v", domain.ErrVerificationTransport, err)
	}

	c.logger.Debugw("verify payment call completed", "order_id", req.OrderID, "success", out.Success)
	return out.Success, nil
}
