package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")
)

// User-facing messages.
const (
	MsgInvalidCredentials = "invalid credentials"
	MsgForbidden          = "you do not have permission to perform this action"
	MsgValidation         = "invalid input data"
	MsgRateLimited        = "too many attempts, please try again later"
	MsgServer             = "server error"
	MsgUnavailable        = "could not connect to the server"
)

type Kind int

const (
	KindServer Kind = iota
	KindInvalidCredentials
	KindForbidden
	KindValidation
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "server"
	}
}

// Error is the single failure shape surfaced to the session layer.
type Error struct {
	Kind        Kind
	Status      int
	Message     string
	FieldErrors map[string]string
	Err         error
}

func (e *Error) Error() string {
	if len(e.FieldErrors) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.FieldErrors[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindInvalidCredentials
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrServer:
		return e.Kind == KindServer
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	}
	return false
}

// NewValidationError reports input rejected before any request was made.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: MsgValidation, FieldErrors: fields}
}

// AsError returns err as an *Error, wrapping anything else as a server error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindServer, Message: MsgServer, Err: err}
}

func unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: MsgUnavailable, Err: err}
}

// errorBody covers both shapes the API uses: {"error": "..."} and
// {"message": "...", "errors": {"field": "msg" | ["msg", ...]}}.
type errorBody struct {
	Error   string                     `json:"error"`
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (b errorBody) fields() map[string]string {
	if len(b.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(b.Errors))
	for k, raw := range b.Errors {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			out[k] = s
			continue
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			out[k] = list[0]
			continue
		}
		out[k] = string(raw)
	}
	return out
}

// mapStatus converts a non-2xx response into an *Error.
func mapStatus(status int, body []byte) *Error {
	var b errorBody
	_ = json.Unmarshal(body, &b)
	fields := b.fields()

	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Message = KindInvalidCredentials, MsgInvalidCredentials
	case status == http.StatusForbidden:
		e.Kind, e.Message = KindForbidden, MsgForbidden
	case status == http.StatusUnprocessableEntity,
		status == http.StatusBadRequest && len(fields) > 0:
		e.Kind, e.Message, e.FieldErrors = KindValidation, orDefault(b.text(), MsgValidation), fields
	case status == http.StatusTooManyRequests:
		e.Kind, e.Message = KindRateLimited, MsgRateLimited
	default:
		e.Kind, e.Message = KindServer, orDefault(b.text(), MsgServer)
	}
	return e
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
