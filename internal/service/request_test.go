package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTaxRequest(t *testing.T) {
	req, err := DecodeTaxRequest([]byte(`{"name":"VAT","tax_type":"vat","rate":"20","amount":12.5,"is_active":false,"description":null,"calculated_amount":"1"}`))
	require.NoError(t, err)

	assert.Equal(t, "VAT", *req.Name)
	assert.Equal(t, "vat", *req.TaxType)
	assert.Equal(t, "20.00", req.Rate.StringFixed(2))
	assert.Equal(t, "12.50", req.Amount.StringFixed(2))
	assert.False(t, *req.IsActive)
	assert.Nil(t, req.Description)
}

func TestDecodeTaxRequestReportsFieldTypeErrors(t *testing.T) {
	_, err := DecodeTaxRequest([]byte(`{"name":5,"rate":"abc","amount":true,"is_active":"yes","tax_type":"vat"}`))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"name":      invalidStringMessage,
		"rate":      invalidNumberMessage,
		"amount":    invalidNumberMessage,
		"is_active": invalidBooleanMessage,
	}, map[string]string(vErr.Fields))
}

func TestDecodeTaxRequestMalformedBody(t *testing.T) {
	for _, body := range []string{``, `{"name": `, `[1,2]`} {
		_, err := DecodeTaxRequest([]byte(body))
		require.Error(t, err, body)

		var vErr *ValidationError
		assert.False(t, errors.As(err, &vErr), body)
	}
}

func TestDecodeCalculateTaxRequest(t *testing.T) {
	req, err := DecodeCalculateTaxRequest([]byte(`{"amount":"100","rate":20}`))
	require.NoError(t, err)
	assert.Equal(t, "100", req.Amount.String())
	assert.Equal(t, "20", req.Rate.String())

	_, err = DecodeCalculateTaxRequest([]byte(`{"amount":"ten","rate":20}`))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, invalidNumberMessage, vErr.Fields["amount"])
	assert.NotContains(t, vErr.Fields, "rate")
}
