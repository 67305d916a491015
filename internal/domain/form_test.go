package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentFormInputValidate(t *testing.T) {
	t.Parallel()

	valid := PaymentFormInput{Amount: 100, Name: "A", Email: "a@x.com"}

	tests := []struct {
		name    string
		mutate  func(f *PaymentFormInput)
		wantErr error
	}{
		{name: "valid", mutate: func(f *PaymentFormInput) {}},
		{name: "optional fields empty", mutate: func(f *PaymentFormInput) { f.Phone, f.Location = "", "" }},
		{name: "email format not checked", mutate: func(f *PaymentFormInput) { f.Email = "not-an-email" }},
		{name: "missing amount", mutate: func(f *PaymentFormInput) { f.Amount = 0 }, wantErr: ErrMissingField},
		{name: "missing name", mutate: func(f *PaymentFormInput) { f.Name = "" }, wantErr: ErrMissingField},
		{name: "missing email", mutate: func(f *PaymentFormInput) { f.Email = "" }, wantErr: ErrMissingField},
		{name: "negative amount", mutate: func(f *PaymentFormInput) { f.Amount = -5 }, wantErr: ErrInvalidAmount},
		{name: "tiny negative amount", mutate: func(f *PaymentFormInput) { f.Amount = -0.01 }, wantErr: ErrInvalidAmount},
		{name: "nan amount", mutate: func(f *PaymentFormInput) { f.Amount = math.NaN() }, wantErr: ErrInvalidAmount},
		{name: "missing beats invalid amount", mutate: func(f *PaymentFormInput) { f.Amount, f.Name = -1, "" }, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPaymentFormInputValidateNamesMissingFields(t *testing.T) {
	t.Parallel()

	err := PaymentFormInput{}.Validate()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "email")
}

func TestPaymentFormInputNormalize(t *testing.T) {
	t.Parallel()

	f := PaymentFormInput{Amount: 10, Name: "   ", Email: " a@x.com ", Location: " Pune "}.Normalize()
	assert.Equal(t, "", f.Name)
	assert.Equal(t, "a@x.com", f.Email)
	assert.Equal(t, "Pune", f.Location)
	assert.True(t, errors.Is(f.Validate(), ErrMissingField))
}
