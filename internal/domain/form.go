package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PaymentFormInput is the payer's form as captured at submission time.
// It is passed by value so later edits to the form never reach an
// in-flight payment.
type PaymentFormInput struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Phone    string  `json:"phone"`
	Location string  `json:"location"`
}

// Normalize returns a copy with surrounding whitespace removed so that a
// blank name or email counts as missing.
func (f PaymentFormInput) Normalize() PaymentFormInput {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Location = strings.TrimSpace(f.Location)
	return f
}

// Validate checks required fields and the amount. Missing fields win over
// an invalid amount. The email format is not checked.
func (f PaymentFormInput) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing []string
	invalidAmount := false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, strings.ToLower(fe.Field()))
		case "gt":
			invalidAmount = true
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if invalidAmount {
		return ErrInvalidAmount
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
