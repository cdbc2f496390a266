package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testOrigin = "http://client.test"

func setupRouter(middleware gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware)
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	return req
}

func TestCORS_DefaultConfig_AllowsAnyOrigin(t *testing.T) {
	r := setupRouter(CORS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, corsRequest(http.MethodGet, testOrigin))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Allow-Origin *, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.EqualFold(got, requestIDHeader) {
		t.Errorf("expected Expose-Headers %q, got %q", requestIDHeader, got)
	}
}

func TestCORS_Preflight_Returns204(t *testing.T) {
	r := setupRouter(CORS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, corsRequest(http.MethodOptions, testOrigin))

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected Allow-Methods header to be set")
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("expected Allow-Headers header to be set")
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("expected Max-Age 86400, got %q", got)
	}
}

func TestCORS_NoOriginHeader_SkipsCORSHeaders(t *testing.T) {
	r := setupRouter(CORS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, corsRequest(http.MethodGet, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}

func TestCORS_WithConfig_SpecificOrigins(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins: []string{testOrigin, "http://localhost:3000"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}
	r := setupRouter(CORSWithConfig(cfg))

	tests := []struct {
		name       string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed", testOrigin, http.StatusOK, testOrigin},
		{"second allowed", "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"denied", "http://evil.test", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, corsRequest(http.MethodGet, tt.origin))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected Allow-Origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}

func TestCORS_WithConfig_EmptyAllowOrigins_Denied(t *testing.T) {
	cfg := CORSConfig{
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}
	r := setupRouter(CORSWithConfig(cfg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, corsRequest(http.MethodGet, testOrigin))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header for empty allowlist, got %q", got)
	}
}

func TestCORS_WithCredentials_EchoesOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowCredentials = true

	r := setupRouter(CORSWithConfig(cfg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, corsRequest(http.MethodGet, testOrigin))

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("expected origin echo %q, got %q", testOrigin, got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected Allow-Credentials true, got %q", got)
	}
}
