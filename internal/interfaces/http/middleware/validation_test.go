package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createCustomerInput struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	GSTIN string `json:"gstin" binding:"omitempty,min=15,max=15"`
}

func newCustomerRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/api/v1/partners/customers", func(c *gin.Context) {
		var input createCustomerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestSetupValidator_ReportsJSONFieldNames(t *testing.T) {
	router := newCustomerRouter()

	body := strings.NewReader(`{"name": "", "email": "not-an-email"}`)
	req := httptest.NewRequest("POST", "/api/v1/partners/customers", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)

	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

func TestHandleValidationError(t *testing.T) {
	router := newCustomerRouter()

	t.Run("reports each failing field", func(t *testing.T) {
		body := strings.NewReader(`{"name": "", "gstin": "too-short"}`)
		req := httptest.NewRequest("POST", "/api/v1/partners/customers", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("carries the request ID into the error body", func(t *testing.T) {
		body := strings.NewReader(`{"name": ""}`)
		req := httptest.NewRequest("POST", "/api/v1/partners/customers", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "req-validation-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-validation-7", resp.Error.RequestID)
	})

	t.Run("accepts a valid payload", func(t *testing.T) {
		body := strings.NewReader(`{"name": "Acme Traders", "email": "billing@acme.example.com", "gstin": "29ABCDE1234F1Z5"}`)
		req := httptest.NewRequest("POST", "/api/v1/partners/customers", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type invoiceInput struct {
		CustomerID string `json:"customer_id" validate:"required"`
		Email      string `json:"email" validate:"email"`
		Notes      string `json:"notes" validate:"max=10"`
		GSTIN      string `json:"gstin" validate:"min=15"`
		Place      string `json:"place_of_supply" validate:"oneof=intra inter"`
		Quantity   int    `json:"quantity" validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(invoiceInput{
		Email:    "invalid",
		Notes:    "this note is far too long",
		GSTIN:    "short",
		Place:    "offshore",
		Quantity: 0,
	})
	require.Error(t, err)

	expected := map[string]string{
		"CustomerID": "This field is required",
		"Email":      "Invalid email format",
		"Notes":      "Must be at most 10 characters",
		"GSTIN":      "Must be at least 15 characters",
		"Place":      "Must be one of: intra inter",
		"Quantity":   "Must be greater than 0",
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, validationErrs, len(expected))

	for _, e := range validationErrs {
		assert.Equal(t, expected[e.StructField()], validationMessage(e), "field %s", e.StructField())
	}
}
