package user

import "github.com/gin-gonic/gin"

// UserModule implements the app.Module interface for the user domain.
type UserModule struct {
	handler *UserHandler
}

// NewModule creates a new UserModule with the given handler.
// Panics if h is nil.
func NewModule(h *UserHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h}
}

// RegisterRoutes registers user API routes. Users have no pages.
func (m *UserModule) RegisterRoutes(api, protected, _ *gin.RouterGroup) {
	api.GET("/users/:id", m.handler.Get)
	api.GET("/users", m.handler.List)

	protected.POST("/users", m.handler.Create)
	protected.PUT("/users/:id", m.handler.Update)
	protected.DELETE("/users/:id", m.handler.Delete)
}
