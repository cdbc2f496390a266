package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for accounts and tokens.
type AuthModule struct {
	handler *AuthHandler
}

// NewModule creates a new AuthModule with the given handler.
// Panics if h is nil.
func NewModule(h *AuthHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h}
}

// RegisterRoutes registers login and register as public routes and the
// account lookup behind the token check.
func (m *AuthModule) RegisterRoutes(api, protected, _ *gin.RouterGroup) {
	api.POST("/auth/login", m.handler.Login)
	api.POST("/auth/register", m.handler.Register)

	protected.GET("/auth/me", m.handler.Me)
}
