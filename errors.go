package veganify

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an *Error.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Error is returned for rejected input, non-2xx responses and responses that
// fail schema validation. Transport and JSON decoding failures are never
// wrapped in an *Error.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 when not tied to an HTTP status
	Msg        string // empty only on the sentinels
	Err        error  // underlying cause, e.g. a *schema.Violation
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrService    = &Error{Kind: KindService}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("veganify: ")
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.StatusCode == 0 && t.Err == nil && t.Kind == e.Kind
}

func validationError(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, StatusCode: 400, Msg: msg, Err: cause}
}

// statusError maps a non-2xx status onto the taxonomy.
func statusError(op string, status int) *Error {
	switch status {
	case 404:
		return &Error{Kind: KindNotFound, StatusCode: status, Msg: op + ": not found"}
	case 400:
		return &Error{Kind: KindValidation, StatusCode: status, Msg: op + ": bad request"}
	default:
		return &Error{Kind: KindService, StatusCode: status, Msg: op + ": request failed"}
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
