package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// sortKey is the query key of the sort statement.
const sortKey = "sorts"

// defaultOrder applies when a list request carries no sort statement.
var defaultOrder = pkg.SortStatement[domain.UserSortField]{pkg.Desc(domain.UserSortID)}

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc    domain.UserService
	limits pkg.PageLimits
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService, limits pkg.PageLimits) *UserHandler {
	return &UserHandler{svc: svc, limits: limits}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	name, email := req.normalized()
	user, err := h.svc.CreateUser(c.Request.Context(), name, email)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, user)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// List handles GET /api/v1/users.
// Query: page, per_page, name, email, sorts[i][mode], sorts[i][field].
func (h *UserHandler) List(c *gin.Context) {
	order, err := pkg.ParseSortStatement[domain.UserSortField](c.Request.URL.Query(), sortKey)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if len(order) == 0 {
		order = defaultOrder
	}

	var lq ListQuery
	if !pkg.BindAndValidate(c, &lq) {
		return
	}

	result, err := h.svc.ListUsers(c.Request.Context(), lq.query(), h.limits.Parse(c), order.Clause())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, result)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	name, email := req.normalized()
	user, err := h.svc.UpdateUser(c.Request.Context(), id, name, email)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
