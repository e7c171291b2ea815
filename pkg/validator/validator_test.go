package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderForm struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"shop_email"`
	Card  string `json:"card_number" validate:"card_digits"`
	Qty   int    `json:"quantity" validate:"gte=1,lte=99"`
}

func validForm() orderForm {
	return orderForm{Name: "Jo", Email: "a@b.co", Card: "4111 1111 1111 1111", Qty: 1}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validForm()))
}

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	f := validForm()
	f.Name = "   "
	f.Card = "1234"

	err := Validate(f)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must contain 13 to 19 digits", fields["card_number"])
	assert.NotContains(t, fields, "email")
}

func TestValidate_BadEmail(t *testing.T) {
	f := validForm()
	f.Email = "bad-email"

	var valErr *ValidationError
	require.ErrorAs(t, Validate(f), &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["email"])
	assert.Contains(t, valErr.Error(), "field 'email'")
}

func TestValidate_Range(t *testing.T) {
	f := validForm()
	f.Qty = 0

	var valErr *ValidationError
	require.ErrorAs(t, Validate(f), &valErr)
	assert.Contains(t, valErr.Fields()["quantity"], "1")
}

func TestIsEmailShape(t *testing.T) {
	tests := map[string]bool{
		"a@b.co":           true,
		"  a@b.co  ":       true,
		"first.last@x.org": true,
		"bad-email":        false,
		"a@b":              false,
		"a @b.co":          false,
		"@b.co":            false,
		"a@@b.co":          false,
		"":                 false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsEmailShape(in), "input %q", in)
	}
}

func TestIsCardNumber(t *testing.T) {
	tests := map[string]bool{
		"4111 1111 1111 1111":     true,
		"4111-1111-1111-1111":     true,
		"4111111111111":           true,
		"4111111111111111111":     true,
		"411111111111":            false,
		"41111111111111111111":    false,
		"abcd efgh":               false,
		" 4111\t1111\n1111 1111 ": true,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsCardNumber(in), "input %q", in)
	}
}

func TestCardDigits(t *testing.T) {
	assert.Equal(t, "4111111111111111", CardDigits("4111 1111-1111.1111"))
	assert.Equal(t, "", CardDigits("no digits"))
}

func TestDecodeAndValidate(t *testing.T) {
	body := bytes.NewBufferString(`{"name":"Jo","email":"a@b.co","card_number":"4111111111111111","quantity":2}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)

	var f orderForm
	require.NoError(t, DecodeAndValidate(req, &f))
	assert.Equal(t, 2, f.Qty)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))

	var f orderForm
	err := DecodeAndValidate(req, &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
