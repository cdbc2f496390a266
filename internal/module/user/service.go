package user

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/dao"
	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// userService implements domain.UserService on top of the user conditions.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService backed by db.
func NewUserService(db *gorm.DB) domain.UserService {
	return &userService{db: db}
}

// CreateUser validates input and inserts the user.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}

	id, err := dao.Create(CreateUser{Name: name, Email: email}).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "create user", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	u, err := dao.Get[domain.User](UserByID{ID: id}).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "get user", err)
	}
	return &u, nil
}

// ListUsers returns one page of user briefs.
func (s *userService) ListUsers(ctx context.Context, q domain.UserQuery, page domain.Paginate, order string) (domain.Paginated[domain.UserBrief], error) {
	result, err := dao.Page[domain.UserBrief](UserFilter{UserQuery: q}, page, order).Run(ctx, s.db)
	if err != nil {
		return result, s.fail(ctx, "list users", err)
	}
	return result, nil
}

// UpdateUser applies new name and email to an existing user.
func (s *userService) UpdateUser(ctx context.Context, id uint, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := validateNameEmail(name, email); err != nil {
		return nil, err
	}

	changed, err := dao.Update(UpdateUser{ID: id, Name: name, Email: email}).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "update user", err)
	}
	if !changed {
		return nil, s.fail(ctx, "update user", gorm.ErrRecordNotFound)
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes a user by ID.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := dao.Delete(DeleteUser{ID: id}).Run(ctx, s.db); err != nil {
		return s.fail(ctx, "delete user", err)
	}
	return nil
}

// fail maps err into the error taxonomy and logs it. A unique violation on
// users can only come from the email index.
func (s *userService) fail(ctx context.Context, op string, err error) error {
	err = MapError(err)
	pkg.LogFailure(ctx, op, err)
	return err
}

// MapError converts a driver error from a user condition into the error
// taxonomy.
func MapError(err error) error {
	err = pkg.DBError(err)
	if domain.IsConflict(err) {
		return Errors.Wrap(CodeEmailTaken, err)
	}
	return err
}

// validateNameEmail checks that name and email are well formed.
func validateNameEmail(name, email string) error {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return domain.Validation("name is required")
	}
	if utf8.RuneCountInString(trimmedName) < 2 {
		return domain.Validation("name must be at least 2 characters")
	}
	if utf8.RuneCountInString(trimmedName) > 100 {
		return domain.Validation("name must be at most 100 characters")
	}

	trimmedEmail := strings.TrimSpace(email)
	if trimmedEmail == "" {
		return domain.Validation("email is required")
	}
	if _, err := mail.ParseAddress(trimmedEmail); err != nil {
		return domain.Validation("email must be a valid email address")
	}
	return nil
}
