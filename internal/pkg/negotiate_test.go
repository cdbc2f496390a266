package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		want   Format
	}{
		{"api path with html accept", "/api/v1/articles", "text/html", PreferJSON},
		{"api path without accept", "/api/v1/articles", "", PreferJSON},
		{"explicit json", "/articles", "application/json", PreferJSON},
		{"browser", "/articles", "text/html,application/xhtml+xml,*/*;q=0.8", PreferHTML},
		{"wildcard", "/articles", "*/*", PreferHTML},
		{"no accept header", "/articles", "", PreferHTML},
		{"json and html", "/articles", "application/json, text/html", PreferHTML},
		{"other type", "/articles", "application/xml", PreferJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if got := Negotiate(r, false).Format; got != tt.want {
				t.Errorf("want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPreferenceOf(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/articles", nil)

	SetPreference(c, Preference{Format: PreferJSON, Debug: true})
	if p := PreferenceOf(c); p.Format != PreferJSON || !p.Debug {
		t.Errorf("expected stored preference, got %+v", p)
	}

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/articles", nil)
	if p := PreferenceOf(c2); p.Format != PreferHTML {
		t.Errorf("expected HTML when decided on the spot, got %s", p.Format)
	}
	if p := PreferenceOf(c2); p.Debug {
		t.Error("debug must be off in test mode")
	}
}
