package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sales-warehouse/backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.AuthConfig{APIKey: "warehouse-key-12345"},
	}

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid key in X-API-Key header",
			header:     "X-API-Key",
			value:      "warehouse-key-12345",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key in Authorization header",
			header:     "Authorization",
			value:      "ApiKey warehouse-key-12345",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "MISSING_API_KEY",
		},
		{
			name:       "wrong key",
			header:     "X-API-Key",
			value:      "wrong-key",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "INVALID_API_KEY",
		},
		{
			name:       "bearer scheme is not accepted",
			header:     "Authorization",
			value:      "Bearer warehouse-key-12345",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "MISSING_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				c.Request.Header.Set(tt.header, tt.value)
			}

			APIKeyMiddleware(cfg)(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus != http.StatusOK, c.IsAborted())
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("empty configured key rejects everything", func(t *testing.T) {
		empty := &config.Config{Auth: config.AuthConfig{APIKey: ""}}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/test", nil)
		c.Request.Header.Set("X-API-Key", "any-key")

		APIKeyMiddleware(empty)(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, c.IsAborted())
	})
}
