package response

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessOmitsErrorFields(t *testing.T) {
	body, err := json.Marshal(Success(http.StatusOK, map[string]int{"n": 1}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"success","status_code":200,"data":{"n":1}}`, string(body))
}

func TestSuccessWithPagination(t *testing.T) {
	body, err := json.Marshal(SuccessWithPagination(http.StatusOK, []string{"a"}, 2, 10, 11))
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"success","status_code":200,"data":["a"],"pagination":{"page":2,"limit":10,"total":11}}`, string(body))
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	body, err := json.Marshal(ValidationError(http.StatusBadRequest, "validation failed", map[string]string{"rate": "too high"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"error","status_code":400,"error":"validation failed","details":{"rate":"too high"}}`, string(body))
}
