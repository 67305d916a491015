package domain

// Order is issued by the backend and authorizes one amount/currency pair.
// Amount is in minor units (paise for INR) and must be handed to the
// checkout widget as-is.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
