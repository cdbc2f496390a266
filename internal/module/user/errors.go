package user

import (
	"net/http"

	"github.com/simp-lee/blogbase/internal/domain"
)

// Business error codes of the user domain.
const (
	CodeEmailTaken int16 = 1001
)

// Errors is the error table of the user domain.
var Errors = domain.MustErrorDomain("user",
	domain.ErrorDef{Code: CodeEmailTaken, Message: "email already registered", Status: http.StatusConflict},
)
