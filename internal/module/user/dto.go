package user

import (
	"strings"

	"github.com/simp-lee/blogbase/internal/domain"
)

// UserRequest is the body of create and update requests.
type UserRequest struct {
	Name  string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" form:"email" binding:"required,email,max=255"`
}

// normalized trims the name and lower-cases the email, which is unique.
func (r UserRequest) normalized() (name, email string) {
	return strings.TrimSpace(r.Name), strings.ToLower(strings.TrimSpace(r.Email))
}

// ListQuery holds the filters of GET /api/v1/users.
type ListQuery struct {
	Name  string `form:"name" binding:"max=100"`
	Email string `form:"email" binding:"max=255"`
}

func (q ListQuery) query() domain.UserQuery {
	return domain.UserQuery{
		Name:  strings.TrimSpace(q.Name),
		Email: strings.ToLower(strings.TrimSpace(q.Email)),
	}
}
