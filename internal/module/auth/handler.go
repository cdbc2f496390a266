package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/middleware"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// AuthHandler serves the account endpoints under /api/v1/auth.
type AuthHandler struct {
	svc Service
}

// NewHandler creates a new AuthHandler with the given service.
func NewHandler(svc Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req Credentials
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	token, err := h.svc.Login(c.Request.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, token)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req Registration
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	acc, err := h.svc.Register(c.Request.Context(), req.Name, normalizeEmail(req.Email), req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, acc)
}

// Me handles GET /api/v1/auth/me for the bearer of the request token.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	acc, err := h.svc.Account(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, acc)
}
