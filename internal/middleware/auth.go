package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

const userIDContextKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(raw string) (uint, error)
}

// Auth returns a gin middleware requiring an "Authorization: Bearer <token>"
// header. The verified user id is stored for CurrentUserID. Missing or
// invalid tokens are rendered as unauthorized (code -4).
func Auth(v TokenVerifier) gin.HandlerFunc {
	if v == nil {
		panic("middleware.Auth: verifier must not be nil")
	}
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			pkg.Error(c, domain.ErrUnauthorized)
			return
		}
		id, err := v.Verify(raw)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		c.Set(userIDContextKey, id)
		c.Next()
	}
}

// CurrentUserID returns the user id stored by Auth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
