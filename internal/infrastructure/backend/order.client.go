package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"upi-checkout/internal/domain"
)

type createOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type createOrderResponse struct {
	Order *domain.Order `json:"order"`
}

// CreateOrder asks the backend for an order of amount (major units). The
// returned amount is in minor units and is the one to charge.
func (c *client) CreateOrder(ctx context.Context, amount float64, currency string) (domain.Order, error) {
	if !(amount > 0) {
		return domain.Order{}, fmt.Errorf("%w: amount %v is not positive", domain.ErrOrderCreation, amount)
	}

	c.logger.Debugw("create order call started", "amount", amount, "currency", currency)
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(createOrderRequest{Amount: amount, Currency: currency}).
		Post(createOrderPath)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: failed to call backend: %v", domain.ErrOrderCreation, err)
	}

	if resp.IsError() {
		return domain.Order{}, fmt.Errorf("%w: backend returned %s: %s", domain.ErrOrderCreation, resp.Status(), string(resp.Body()))
	}

	var out createOrderResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return domain.Order{}, fmt.Errorf("%w: failed to decode order: %v", domain.ErrOrderCreation, err)
	}
	if out.Order == nil || out.Order.ID == "" || out.Order.Amount <= 0 || out.Order.Currency == "" {
		return domain.Order{}, fmt.Errorf("%w: malformed order in response: %s", domain.ErrOrderCreation, string(resp.Body()))
	}

	c.logger.Debugw("create order call completed", "order_id", out.Order.ID, "amount_minor", out.Order.Amount)
	return *out.Order, nil
}
