package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/blogbase/internal/domain"
)

// ErrorTemplate is the HTML template used for error pages.
const ErrorTemplate = "errors/error.html"

const errorCodeKey = "blogbase.error_code"

// Response is the standard JSON envelope for API responses.
// Detail is only filled for debug requests.
type Response struct {
	Code   int16  `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: domain.CodeOK,
		Msg:  "ok",
		Data: data,
	})
}

// Created sends a 201 JSON response with the given data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code: domain.CodeOK,
		Msg:  "ok",
		Data: data,
	})
}

// Error renders err and aborts the handler chain. The status, code and
// message come from the error taxonomy; errors outside of it render as
// unknown. The representation follows the request Preference.
func Error(c *gin.Context, err error) {
	coded := domain.AsCoded(err)
	if coded == nil {
		coded = domain.ErrUnknown
	}
	status := coded.HTTPStatus()
	pref := PreferenceOf(c)
	c.Set(errorCodeKey, coded.ErrorCode())

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"code", coded.ErrorCode(),
			"status", status,
			"error", err,
		)
	}

	var detail string
	if pref.Debug && err != nil {
		detail = err.Error()
	}

	if pref.Format == PreferHTML {
		renderErrorPage(c, status, coded, detail)
	} else {
		c.JSON(status, Response{
			Code:   coded.ErrorCode(),
			Msg:    coded.ErrorMessage(),
			Data:   nil,
			Detail: detail,
		})
	}
	c.Abort()
}

// ErrorCodeOf returns the code rendered by Error for this request, if any.
func ErrorCodeOf(c *gin.Context) (int16, bool) {
	v, ok := c.Get(errorCodeKey)
	if !ok {
		return 0, false
	}
	code, ok := v.(int16)
	return code, ok
}

// renderErrorPage renders ErrorTemplate. Without an HTML renderer, or when the
// template fails, it falls back to a plain text body.
func renderErrorPage(c *gin.Context, status int, coded domain.CodedError, detail string) {
	defer func() {
		if r := recover(); r != nil {
			writePlainError(c, status, coded)
		}
	}()

	c.HTML(status, ErrorTemplate, gin.H{
		"Status":  status,
		"Code":    coded.ErrorCode(),
		"Message": coded.ErrorMessage(),
		"Detail":  detail,
	})
	if !c.Writer.Written() {
		writePlainError(c, status, coded)
	}
}

func writePlainError(c *gin.Context, status int, coded domain.CodedError) {
	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Data(status, "text/plain; charset=utf-8",
		[]byte(fmt.Sprintf("%d %s", status, coded.ErrorMessage())))
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it sends a validation error response and returns false.
// Because obj is available, JSON struct tags are used for field names when possible.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

// ValidationError sends a 400 response with per-field validation messages.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// validationErrorWithType sends a 400 validation error response with code -3.
// Field messages are carried in data. When obj is non-nil, JSON tag names are
// used as keys.
func validationErrorWithType(c *gin.Context, err error, obj any) {
	c.Set(errorCodeKey, domain.CodeValidation)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Code: domain.CodeValidation,
			Msg:  "bad request",
			Data: nil,
		})
		return
	}

	jsonTags := buildJSONTagMap(obj)

	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		fieldErrors[name] = fieldMessage(fe)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Code: domain.CodeValidation,
		Msg:  domain.ErrValidation.Message,
		Data: fieldErrors,
	})
}

// fieldMessage renders a readable message for common validation tags.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := parseJSONTagName(f.Tag.Get("json")); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
