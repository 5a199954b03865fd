// Package validate runs struct-tag validation on request bodies before they
// leave the client and turns failures into per-field messages keyed by the
// JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s characters long",
	"max":      "%s must be no longer than %s characters",
	"numeric":  "%s must contain digits only",
	"nefield":  "%s must differ from %s",
	"eqfield":  "%s must match %s",
}

func message(e validator.FieldError, t reflect.Type) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid (%s)", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") < 2 {
		return fmt.Sprintf(msg, e.Field())
	}
	param := e.Param()
	switch e.Tag() {
	case "nefield", "eqfield":
		param = jsonName(t, param)
	}
	return fmt.Sprintf(msg, e.Field(), param)
}

// jsonName maps a Go field name of t to the name it has on the wire.
func jsonName(t reflect.Type, field string) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return field
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
		return name
	}
	return field
}

// Struct validates s and returns a map of JSON field name to message.
// A nil map means s is valid.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		if _, seen := out[e.Field()]; !seen {
			out[e.Field()] = message(e, reflect.TypeOf(s))
		}
	}
	return out
}
