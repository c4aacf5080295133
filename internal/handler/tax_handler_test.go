package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taxapi/internal/model"
	"taxapi/internal/service"
	"taxapi/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails map[string]string
	}{
		{
			name:        "validation",
			err:         &service.ValidationError{Fields: model.FieldErrors{"rate": "bad"}},
			wantStatus:  http.StatusBadRequest,
			wantError:   "Validation failed",
			wantDetails: map[string]string{"rate": "bad"},
		},
		{
			name:       "not found",
			err:        service.ErrTaxNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Tax not found",
		},
		{
			name:       "wrapped not found",
			err:        errors.Join(errors.New("lookup"), service.ErrTaxNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "Tax not found",
		},
		{
			name:       "unexpected",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var res response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, "error", res.Status)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantError, res.Error)
			assert.Equal(t, tt.wantDetails, res.Details)
		})
	}
}

func TestUnexpectedErrorsAreAttachedToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, errors.New("boom"))

	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "boom")
}

func TestListQueryReadsFilterParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/taxes/?is_active=false&tax_type=vat", nil)

	assert.Equal(t, service.TaxListQuery{IsActive: "false", TaxType: "vat"}, listQuery(c))
}
