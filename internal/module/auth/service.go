package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/dao"
	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/module/user"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// tokenType is the scheme clients send the token back with.
const tokenType = "Bearer"

// Service defines the account operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*Token, error)
	Register(ctx context.Context, name, email, password string) (*Account, error)
	Account(ctx context.Context, userID uint) (*Account, error)
}

// Issuer signs access tokens for a user id.
type Issuer interface {
	Issue(userID uint) (string, time.Time, error)
}

type authService struct {
	db     *gorm.DB
	issuer Issuer
}

// NewService creates a new auth Service over the user table.
func NewService(db *gorm.DB, issuer Issuer) Service {
	return &authService{db: db, issuer: issuer}
}

// Login checks the password of the user registered under email and returns a
// signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := dao.Get[domain.User](user.UserByEmail{Email: normalizeEmail(email)}).Run(ctx, s.db)
	if err != nil {
		err = user.MapError(err)
		// Unknown emails and wrong passwords look the same to the caller.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		pkg.LogFailure(ctx, "login", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, exp, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeSystem, "failed to generate token", err)
	}
	return &Token{Token: token, TokenType: tokenType, ExpiresAt: exp.Unix()}, nil
}

// Register creates a user with a bcrypt password hash. The insert and the
// read back share one transaction.
func (s *authService) Register(ctx context.Context, name, email, password string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateRegisterInput(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeSystem, "failed to hash password", err)
	}

	register := dao.OpFunc[Account](func(ctx context.Context, db *gorm.DB) (Account, error) {
		id, err := user.CreateUser{Name: name, Email: email, PasswordHash: string(hash)}.Create(ctx, db)
		if err != nil {
			return Account{}, err
		}
		return dao.Project[Account](user.UserByID{ID: id}).Read(ctx, db)
	})
	acc, err := dao.Transaction(register).Run(ctx, s.db)
	if err != nil {
		err = user.MapError(err)
		pkg.LogFailure(ctx, "register", err)
		return nil, err
	}
	return &acc, nil
}

// Account returns the public view of userID.
func (s *authService) Account(ctx context.Context, userID uint) (*Account, error) {
	acc, err := dao.Get(dao.Project[Account](user.UserByID{ID: userID})).Run(ctx, s.db)
	if err != nil {
		err = user.MapError(err)
		// A valid token whose user is gone no longer authenticates anyone.
		if domain.IsNotFound(err) {
			return nil, domain.ErrUnauthorized
		}
		pkg.LogFailure(ctx, "account", err)
		return nil, err
	}
	return &acc, nil
}

// validateRegisterInput expects name and email to be normalized already.
func validateRegisterInput(name, email, password string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen == 0 {
		return domain.Validation("name is required")
	}
	if nameLen > 100 {
		return domain.Validation("name must not exceed 100 characters")
	}
	if email == "" {
		return domain.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return domain.Validation("email must be a valid email address")
	}
	if len(password) < 8 {
		return domain.Validation("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return domain.Validation("password must not exceed 72 characters")
	}
	return nil
}
