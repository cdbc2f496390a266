package auth

import (
	"strings"
	"time"
)

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// Registration is the body of a register request.
type Registration struct {
	Name     string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// normalizeEmail matches the stored form of user emails.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Token is a signed bearer token and its expiry as a unix timestamp.
type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresAt int64  `json:"expires_at"`
}

// Account is the public view of the authenticated or newly registered user.
type Account struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
