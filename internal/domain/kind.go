package domain

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// ErrorKind is the closed set of failure sources reachable from the API
// boundary: *DatabaseError or *BusinessError.
type ErrorKind interface {
	CodedError
	errorKind()
}

// DBFailure classifies a driver level error.
type DBFailure int

const (
	DBFailureOther DBFailure = iota
	DBFailureNotFound
	DBFailureConflict
)

func (f DBFailure) String() string {
	switch f {
	case DBFailureNotFound:
		return "not_found"
	case DBFailureConflict:
		return "conflict"
	default:
		return "unhandled"
	}
}

// dbFailureTable maps each DBFailure to its reserved (code, message, status).
var dbFailureTable = map[DBFailure]ErrorDef{
	DBFailureNotFound: {Code: CodeNotFound, Message: "resource not found", Status: http.StatusNotFound},
	DBFailureConflict: {Code: CodeConflict, Message: "resource already exists", Status: http.StatusConflict},
	DBFailureOther:    {Code: CodeDatabase, Message: "unhandled database error", Status: http.StatusInternalServerError},
}

// DatabaseError wraps a driver level error. Its code and message depend only
// on Failure; the driver text never becomes part of the message.
type DatabaseError struct {
	Failure DBFailure
	Err     error
}

func (*DatabaseError) errorKind() {}

func (e *DatabaseError) def() ErrorDef {
	if d, ok := dbFailureTable[e.Failure]; ok {
		return d
	}
	return dbFailureTable[DBFailureOther]
}

func (e *DatabaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Failure, e.def().Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Failure, e.def().Message)
}

func (e *DatabaseError) Unwrap() error        { return e.Err }
func (e *DatabaseError) HTTPStatus() int      { return e.def().Status }
func (e *DatabaseError) ErrorCode() int16     { return e.def().Code }
func (e *DatabaseError) ErrorMessage() string { return e.def().Message }

// BusinessError wraps a CodedError chosen by business code.
type BusinessError struct {
	Err CodedError
}

func (*BusinessError) errorKind() {}

func (e *BusinessError) Error() string        { return e.Err.Error() }
func (e *BusinessError) Unwrap() error        { return e.Err }
func (e *BusinessError) HTTPStatus() int      { return e.Err.HTTPStatus() }
func (e *BusinessError) ErrorCode() int16     { return e.Err.ErrorCode() }
func (e *BusinessError) ErrorMessage() string { return e.Err.ErrorMessage() }

// Business wraps err as a BusinessError. A nil err yields nil.
func Business(err CodedError) ErrorKind {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

// Message length limits, in runes and bytes.
const (
	maxMessageRunes = 160
	maxMessageBytes = 255
)

// ErrorDef is one row of an error table.
type ErrorDef struct {
	Code    int16
	Message string
	Status  int
}

// ErrorDomain is the table of business errors of one domain. Codes are unique
// inside a domain and never inside the reserved interval; different domains
// may reuse the same code.
type ErrorDomain struct {
	name string
	defs map[int16]ErrorDef
}

// NewErrorDomain validates defs and builds the table.
func NewErrorDomain(name string, defs ...ErrorDef) (*ErrorDomain, error) {
	d := &ErrorDomain{name: name, defs: make(map[int16]ErrorDef, len(defs))}
	for _, def := range defs {
		if IsReserved(def.Code) {
			return nil, fmt.Errorf("error domain %q: code %d is reserved [%d, %d]", name, def.Code, ReservedMin, ReservedMax)
		}
		if _, dup := d.defs[def.Code]; dup {
			return nil, fmt.Errorf("error domain %q: duplicate code %d", name, def.Code)
		}
		if def.Status == 0 {
			def.Status = http.StatusInternalServerError
		}
		def.Message = clampMessage(def.Message)
		d.defs[def.Code] = def
	}
	return d, nil
}

// MustErrorDomain is like NewErrorDomain but panics on an invalid table.
// It is meant for package level variables.
func MustErrorDomain(name string, defs ...ErrorDef) *ErrorDomain {
	d, err := NewErrorDomain(name, defs...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the domain name.
func (d *ErrorDomain) Name() string { return d.name }

// New returns the business error registered under code.
func (d *ErrorDomain) New(code int16) ErrorKind {
	return d.Wrap(code, nil)
}

// Wrap returns the business error registered under code, wrapping cause.
// Unregistered codes degrade to the reserved unknown error, which still
// wraps cause.
func (d *ErrorDomain) Wrap(code int16, cause error) ErrorKind {
	def, ok := d.defs[code]
	if !ok {
		return &BusinessError{Err: &AppError{
			Code:    CodeUnknown,
			Message: ErrUnknown.Message,
			Status:  http.StatusInternalServerError,
			Err:     errors.Join(fmt.Errorf("error domain %q: unregistered code %d", d.name, code), cause),
		}}
	}
	return &BusinessError{Err: &AppError{Code: def.Code, Message: def.Message, Status: def.Status, Err: cause}}
}

func clampMessage(msg string) string {
	if utf8.RuneCountInString(msg) > maxMessageRunes {
		runes := []rune(msg)
		msg = string(runes[:maxMessageRunes])
	}
	for len(msg) > maxMessageBytes {
		_, size := utf8.DecodeLastRuneInString(msg)
		msg = msg[:len(msg)-size]
	}
	return msg
}
