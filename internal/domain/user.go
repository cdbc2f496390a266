package domain

import "context"

// User represents a user in the system.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// UserBrief is the public projection of a user embedded in other resources.
type UserBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserSortField names a column users can be ordered by.
type UserSortField string

const (
	UserSortID        UserSortField = "id"
	UserSortName      UserSortField = "name"
	UserSortEmail     UserSortField = "email"
	UserSortCreatedAt UserSortField = "created_at"
	UserSortUpdatedAt UserSortField = "updated_at"
)

// Valid reports whether f is a sortable user column.
func (f UserSortField) Valid() bool {
	switch f {
	case UserSortID, UserSortName, UserSortEmail, UserSortCreatedAt, UserSortUpdatedAt:
		return true
	}
	return false
}

// UserQuery holds list filters for users.
type UserQuery struct {
	Name  string
	Email string
}

// UserService defines the business logic interface for users.
type UserService interface {
	CreateUser(ctx context.Context, name, email string) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	ListUsers(ctx context.Context, q UserQuery, page Paginate, order string) (Paginated[UserBrief], error)
	UpdateUser(ctx context.Context, id uint, name, email string) (*User, error)
	DeleteUser(ctx context.Context, id uint) error
}
