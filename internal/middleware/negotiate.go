package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/pkg"
)

// Negotiate decides the response Preference once per request. Debug detail
// follows gin's mode.
func Negotiate() gin.HandlerFunc {
	return func(c *gin.Context) {
		pkg.SetPreference(c, pkg.Negotiate(c.Request, gin.IsDebugging()))
		c.Next()
	}
}
