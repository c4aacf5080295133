package service

import (
	"encoding/json"

	"taxapi/internal/model"
)

const (
	invalidStringMessage  = "Not a valid string."
	invalidNumberMessage  = "A valid number is required."
	invalidBooleanMessage = "Must be a valid boolean."
)

// DecodeTaxRequest reads a tax payload one field at a time so that a value of the wrong type is
// reported as a *ValidationError on that field. A body that is not a JSON object is returned as is.
func DecodeTaxRequest(body []byte) (TaxRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return TaxRequest{}, err
	}

	var req TaxRequest
	errs := model.FieldErrors{}
	decodeField(raw, "name", &req.Name, invalidStringMessage, errs)
	decodeField(raw, "description", &req.Description, invalidStringMessage, errs)
	decodeField(raw, "tax_type", &req.TaxType, invalidStringMessage, errs)
	decodeField(raw, "rate", &req.Rate, invalidNumberMessage, errs)
	decodeField(raw, "amount", &req.Amount, invalidNumberMessage, errs)
	decodeField(raw, "is_active", &req.IsActive, invalidBooleanMessage, errs)

	if len(errs) > 0 {
		return TaxRequest{}, newValidationError(errs)
	}
	return req, nil
}

// DecodeCalculateTaxRequest is DecodeTaxRequest for the calculator body
func DecodeCalculateTaxRequest(body []byte) (CalculateTaxRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return CalculateTaxRequest{}, err
	}

	var req CalculateTaxRequest
	errs := model.FieldErrors{}
	decodeField(raw, "amount", &req.Amount, invalidNumberMessage, errs)
	decodeField(raw, "rate", &req.Rate, invalidNumberMessage, errs)

	if len(errs) > 0 {
		return CalculateTaxRequest{}, newValidationError(errs)
	}
	return req, nil
}

// decodeField leaves dst nil when the key is absent or null
func decodeField[T any](raw map[string]json.RawMessage, key string, dst **T, message string, errs model.FieldErrors) {
	value, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(value, dst); err != nil {
		*dst = nil
		errs[key] = message
	}
}
