package pkg

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Format is the representation chosen for a response.
type Format uint8

const (
	PreferJSON Format = iota
	PreferHTML
)

func (f Format) String() string {
	if f == PreferHTML {
		return "html"
	}
	return "json"
}

// Preference is decided once per request and read by the renderer.
// Debug enables the raw error detail field.
type Preference struct {
	Format Format
	Debug  bool
}

const preferenceKey = "blogbase.preference"

// APIPrefix marks routes that always answer with JSON.
const APIPrefix = "/api/"

// Negotiate picks a Preference for r. API routes and clients that ask for
// JSON without HTML get JSON; browsers (text/html, */* or no Accept header)
// get HTML.
func Negotiate(r *http.Request, debug bool) Preference {
	p := Preference{Format: PreferJSON, Debug: debug}
	if strings.HasPrefix(r.URL.Path, APIPrefix) {
		return p
	}
	accept := strings.ToLower(r.Header.Get("Accept"))
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return p
	}
	if strings.Contains(accept, "text/html") ||
		strings.Contains(accept, "*/*") ||
		strings.TrimSpace(accept) == "" {
		p.Format = PreferHTML
	}
	return p
}

// SetPreference stores p on the request context.
func SetPreference(c *gin.Context, p Preference) {
	c.Set(preferenceKey, p)
}

// PreferenceOf returns the Preference stored by the negotiation middleware,
// deciding it on the spot when the middleware did not run.
func PreferenceOf(c *gin.Context) Preference {
	if v, ok := c.Get(preferenceKey); ok {
		if p, ok := v.(Preference); ok {
			return p
		}
	}
	p := Negotiate(c.Request, gin.IsDebugging())
	SetPreference(c, p)
	return p
}
