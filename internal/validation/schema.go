// Package validation builds locale-bound field schemas for request bodies and import rows.
// A Schema is immutable once built; the locale is chosen per call, never globally.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// Rule checks one value. It returns a message key and format arguments when the
// value is invalid, or an empty key.
type Rule func(v any) (key string, args []any)

// Field is a named set of rules. Label is used in messages and defaults to Name.
type Field struct {
	Name     string
	Label    string
	Required bool
	Rules    []Rule
}

// Schema validates maps against its fields with messages in one locale.
type Schema struct {
	locale string
	msgs   map[string]string
	fields []Field
}

// BuildSchema returns a schema for locale ("fr" or "en"; anything else falls back to fr).
func BuildSchema(locale string, fields ...Field) Schema {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if _, ok := catalogs[locale]; !ok {
		locale = DefaultLocale
	}
	return Schema{locale: locale, msgs: catalog(locale), fields: fields}
}

func (s Schema) Locale() string { return s.locale }

// Validate returns the first failing message per field, or nil when every field passes.
// Absent or blank values are only checked by Required.
func (s Schema) Validate(values map[string]any) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for _, f := range s.fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		v, ok := values[f.Name]
		if !ok || isBlank(v) {
			if f.Required {
				errs[f.Name] = fmt.Sprintf(s.msgs[msgRequired], label)
			}
			continue
		}
		for _, rule := range f.Rules {
			if key, args := rule(v); key != "" {
				errs[f.Name] = fmt.Sprintf(s.msgs[key], append([]any{label}, args...)...)
				break
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Check wraps Validate into a *domain.ValidationError.
func (s Schema) Check(values map[string]any) error {
	fields := s.Validate(values)
	if fields == nil {
		return nil
	}
	msg := "Données invalides"
	if s.locale == "en" {
		msg = "Invalid data"
	}
	return domain.NewValidationError(msg, fields)
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *float64:
		return t == nil
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	}
	return false
}

// Number parses v as a float64. Strings accept a decimal comma.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		return f, err == nil
	}
	return 0, false
}

// Min requires a number >= min.
func Min(min float64) Rule {
	return func(v any) (string, []any) {
		f, ok := Number(v)
		if !ok {
			return msgNumber, nil
		}
		if f < min {
			return msgMin, []any{bound(min)}
		}
		return "", nil
	}
}

// Max requires a number <= max.
func Max(max float64) Rule {
	return func(v any) (string, []any) {
		f, ok := Number(v)
		if !ok {
			return msgNumber, nil
		}
		if f > max {
			return msgMax, []any{bound(max)}
		}
		return "", nil
	}
}

// bound keeps whole limits printable without an exponent (2147483647, not 2.147483647e+09).
func bound(x float64) any {
	if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		return int64(x)
	}
	return x
}

// PositiveInt requires an integer >= 0.
func PositiveInt() Rule {
	return func(v any) (string, []any) {
		f, ok := Number(v)
		if !ok || f < 0 || f != math.Trunc(f) {
			return msgPositiveInt, nil
		}
		return "", nil
	}
}

// Date requires a YYYY-MM-DD string or a time.Time.
func Date() Rule {
	return func(v any) (string, []any) {
		switch t := v.(type) {
		case time.Time:
			return "", nil
		case string:
			if _, err := time.Parse("2006-01-02", strings.TrimSpace(t)); err == nil {
				return "", nil
			}
		}
		return msgDate, nil
	}
}

// OneOf requires a string among values (case-insensitive).
func OneOf(values ...string) Rule {
	return func(v any) (string, []any) {
		s, _ := v.(string)
		for _, allowed := range values {
			if strings.EqualFold(strings.TrimSpace(s), allowed) {
				return "", nil
			}
		}
		return msgOneOf, []any{strings.Join(values, ", ")}
	}
}

// MaxLen bounds a string length in runes.
func MaxLen(n int) Rule {
	return func(v any) (string, []any) {
		s, _ := v.(string)
		if len([]rune(s)) > n {
			return msgTooLong, []any{n}
		}
		return "", nil
	}
}

// MinLen requires at least n runes.
func MinLen(n int) Rule {
	return func(v any) (string, []any) {
		s, _ := v.(string)
		if len([]rune(s)) < n {
			return msgTooShort, []any{n}
		}
		return "", nil
	}
}
