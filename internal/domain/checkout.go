package domain

// CheckoutOptions is the configuration handed to the hosted checkout widget.
// The JSON form is what a browser passes to the widget constructor; the
// callbacks stay on the Go side.
type CheckoutOptions struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OrderID     string            `json:"order_id"`
	Prefill     Prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes"`
	Theme       Theme             `json:"theme"`
	Method      MethodAllowList   `json:"method"`
	Config      DisplayConfig     `json:"config"`
	UPI         UPIOptions        `json:"upi"`
	Display     DisplayLanguage   `json:"display"`
	Readonly    Readonly          `json:"readonly"`
	Modal       Modal             `json:"modal"`

	// Handler receives the success response.
	Handler func(SuccessResponse) `json:"-"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color         string `json:"color"`
	BackdropColor string `json:"backdrop_color"`
}

// MethodAllowList enables or disables each payment instrument.
type MethodAllowList struct {
	UPI          bool `json:"upi"`
	Card         bool `json:"card"`
	Netbanking   bool `json:"netbanking"`
	Wallet       bool `json:"wallet"`
	EMI          bool `json:"emi"`
	Paylater     bool `json:"paylater"`
	CardlessEMI  bool `json:"cardless_emi"`
	BankTransfer bool `json:"bank_transfer"`
}

type DisplayConfig struct {
	Display DisplayBlocks `json:"display"`
}

type DisplayBlocks struct {
	Blocks      map[string]Block   `json:"blocks"`
	Sequence    []string           `json:"sequence"`
	Preferences DisplayPreferences `json:"preferences"`
}

type Block struct {
	Name        string       `json:"name"`
	Instruments []Instrument `json:"instruments"`
}

type Instrument struct {
	Method string   `json:"method"`
	Flows  []string `json:"flows"`
}

type DisplayPreferences struct {
	ShowDefaultBlocks bool `json:"show_default_blocks"`
}

type UPIOptions struct {
	Flow []string  `json:"flow"`
	Apps []string  `json:"apps"`
	QR   QROptions `json:"qr"`
}

type QROptions struct {
	Show bool   `json:"show"`
	Size string `json:"size"`
}

type DisplayLanguage struct {
	Language string `json:"language"`
}

type Readonly struct {
	Email   bool `json:"email"`
	Contact bool `json:"contact"`
}

type Modal struct {
	ConfirmClose  bool `json:"confirm_close"`
	Escape        bool `json:"escape"`
	Animation     bool `json:"animation"`
	BackdropClose bool `json:"backdropclose"`

	// OnDismiss fires when the payer closes the widget without paying.
	OnDismiss func() `json:"-"`
}

// SuccessResponse is what the widget passes to Handler.
type SuccessResponse struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// FailureResponse is the payload of the "payment.failed" event.
type FailureResponse struct {
	Error GatewayError `json:"error"`
}

type GatewayError struct {
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Source      string         `json:"source"`
	Step        string         `json:"step"`
	Reason      string         `json:"reason"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// EventPaymentFailed is the widget event carrying a FailureResponse.
const EventPaymentFailed = "payment.failed"
