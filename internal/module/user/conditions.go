package user

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// CreateUser inserts a user row.
type CreateUser struct {
	Name         string
	Email        string
	PasswordHash string
}

// Create implements dao.CreateDAO.
func (c CreateUser) Create(ctx context.Context, db *gorm.DB) (uint, error) {
	u := domain.User{Name: c.Name, Email: c.Email, PasswordHash: c.PasswordHash}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return 0, err
	}
	return u.ID, nil
}

// UserByID matches one user by primary key.
type UserByID struct {
	ID uint
}

// Select implements dao.Selector.
func (c UserByID) Select(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.User{}).Where("id = ?", c.ID)
}

// Read implements dao.ReadDAO[domain.User].
func (c UserByID) Read(ctx context.Context, db *gorm.DB) (domain.User, error) {
	var u domain.User
	err := c.Select(db.WithContext(ctx)).First(&u).Error
	return u, err
}

// UserByEmail matches one user by email address.
type UserByEmail struct {
	Email string
}

// Select implements dao.Selector.
func (c UserByEmail) Select(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.User{}).Where("email = ?", c.Email)
}

// Read implements dao.ReadDAO[domain.User].
func (c UserByEmail) Read(ctx context.Context, db *gorm.DB) (domain.User, error) {
	var u domain.User
	err := c.Select(db.WithContext(ctx)).First(&u).Error
	return u, err
}

// UpdateUser rewrites name and email of one user.
type UpdateUser struct {
	ID    uint
	Name  string
	Email string
}

// Update implements dao.UpdateDAO.
func (c UpdateUser) Update(ctx context.Context, db *gorm.DB) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "email": c.Email})
	return res.RowsAffected > 0, res.Error
}

// DeleteUser removes one user. Users have no soft delete column, so the
// hard delete is the same statement.
type DeleteUser struct {
	ID uint
}

// Delete implements dao.DeleteDAO.
func (c DeleteUser) Delete(ctx context.Context, db *gorm.DB) error {
	res := db.WithContext(ctx).Delete(&domain.User{}, c.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UserFilter selects the users matching a list query. Name matches by
// substring, email exactly.
type UserFilter struct {
	domain.UserQuery
}

// Select implements dao.Selector.
func (c UserFilter) Select(db *gorm.DB) *gorm.DB {
	q := db.Model(&domain.User{})
	if name := strings.TrimSpace(c.Name); name != "" {
		q = q.Where("name LIKE ? "+pkg.LikeEscape, pkg.Contains(name))
	}
	if email := strings.TrimSpace(c.Email); email != "" {
		q = q.Where("email = ?", email)
	}
	return q
}
