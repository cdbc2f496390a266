package article

import (
	"net/http"

	"github.com/simp-lee/blogbase/internal/domain"
)

// Business error codes of the article domain.
const (
	CodeTitleTaken    int16 = 2001
	CodeEmptyTag      int16 = 2002
	CodeTooManyTags   int16 = 2003
	CodeUnknownAuthor int16 = 2004
)

// MaxTags bounds the tags of one article.
const MaxTags = 10

// Errors is the error table of the article domain.
var Errors = domain.MustErrorDomain("article",
	domain.ErrorDef{Code: CodeTitleTaken, Message: "an article with this title already exists", Status: http.StatusConflict},
	domain.ErrorDef{Code: CodeEmptyTag, Message: "tag names must not be empty", Status: http.StatusBadRequest},
	domain.ErrorDef{Code: CodeTooManyTags, Message: "an article takes at most 10 tags", Status: http.StatusBadRequest},
	domain.ErrorDef{Code: CodeUnknownAuthor, Message: "author does not exist", Status: http.StatusBadRequest},
)
