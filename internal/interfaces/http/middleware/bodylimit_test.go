package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newInvoiceRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/api/v1/billing/invoices", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		return router
	}

	t.Run("accepts a normal invoice payload", func(t *testing.T) {
		router := newInvoiceRouter(1024)

		payload := `{"customer_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","lines":[{"description":"Consulting","quantity":"2","unit_price":"1500.00"}]}`
		req := httptest.NewRequest("POST", "/api/v1/billing/invoices", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared oversized payloads before reading", func(t *testing.T) {
		router := newInvoiceRouter(100)

		body := bytes.NewReader([]byte(strings.Repeat("x", 200)))
		req := httptest.NewRequest("POST", "/api/v1/billing/invoices", body)
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), "max_bytes")
	})

	t.Run("ignores bodyless requests", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/api/v1/billing/invoices", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		req := httptest.NewRequest("GET", "/api/v1/billing/invoices", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cuts off chunked uploads at the cap", func(t *testing.T) {
		router := newInvoiceRouter(50)

		// No declared length, so only the wrapped reader can enforce the cap.
		body := strings.NewReader(strings.Repeat("x", 100))
		req := httptest.NewRequest("POST", "/api/v1/billing/invoices", body)
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
