// Package validation turns struct-tag constraint failures into per-field,
// human readable messages keyed by form field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>?`

// PasswordRule is applied to plaintext passwords before they are encoded.
// bcrypt reads at most 72 bytes, so the limit is checked in bytes as well as
// characters.
const PasswordRule = "required,min=8,max=72,maxbytes=72,password"

// PasswordField is the form field name password errors are reported under.
const PasswordField = "password"

// FieldErrors maps a form field name to its first failure message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Merge copies other into fe without overwriting existing messages.
func (fe FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		fe.Add(k, v)
	}
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
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
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return &Validator{v: v}
}

// Struct validates s and returns its failures, or nil when s is valid.
func (v *Validator) Struct(s any) FieldErrors {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return FieldErrors{"": err.Error()}
	}

	typ := reflect.TypeOf(s)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	out := make(FieldErrors, len(invalid))
	for _, fe := range invalid {
		out.Add(fe.Field(), message(labelOf(typ, fe), fe.Tag(), fe.Param()))
	}
	return out
}

// Password checks a plaintext password against PasswordRule.
func (v *Validator) Password(plaintext string) FieldErrors {
	err := v.v.Var(plaintext, PasswordRule)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return FieldErrors{PasswordField: err.Error()}
	}
	first := invalid[0]
	return FieldErrors{PasswordField: message("Password", first.Tag(), first.Param())}
}

func labelOf(typ reflect.Type, fe validator.FieldError) string {
	if typ.Kind() == reflect.Struct {
		if f, ok := typ.FieldByName(fe.StructField()); ok {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
		}
	}
	return fe.Field()
}

func message(label, tag, param string) string {
	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, param)
	case "maxbytes":
		return fmt.Sprintf("%s cannot exceed %s bytes", label, param)
	case "gt":
		return label + " must be a positive number"
	case "oneof":
		return fmt.Sprintf("%s must be %s", label, strings.Join(strings.Fields(param), " or "))
	case "password":
		return label + " must contain at least one uppercase letter, one digit and one special character"
	default:
		return label + " is invalid"
	}
}

func strongPassword(s string) bool {
	var upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && digit && special
}
