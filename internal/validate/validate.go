// Package validate checks submitted form fields against declarative rules
// and reports every failing field at once.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/shelfwise/shelfwise/internal/shared"
)

// DateLayout is the accepted calendar date format.
const DateLayout = shared.DateLayout

// FieldError describes why one field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// Errors is the collected set of field failures for one submission.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Reason)
	}
	return strings.Join(parts, " ")
}

// Is makes Errors match shared.ErrValidation.
func (e Errors) Is(target error) bool {
	return target == shared.ErrValidation
}

// Fields returns the failures keyed by field name.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Reason
	}
	return out
}

// AsErrors extracts field failures from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
)

type spec struct {
	label    string
	required bool
	raw      bool
	kind     kind
	minLen   int
	maxLen   int
	email    bool
	date     bool
	oneOf    []string
	min      *float64
	max      *float64
	message  string
}

// Rule configures the checks applied to one field.
type Rule func(*spec)

// Required rejects empty values.
func Required() Rule { return func(s *spec) { s.required = true } }

// Raw keeps the value exactly as submitted (no trimming or normalisation).
func Raw() Rule { return func(s *spec) { s.raw = true } }

// Label sets the human name used in default messages.
func Label(label string) Rule { return func(s *spec) { s.label = label } }

// Message replaces every default failure reason for the field.
func Message(msg string) Rule { return func(s *spec) { s.message = msg } }

// Length bounds the value length in characters. A zero max means unbounded.
func Length(min, max int) Rule {
	return func(s *spec) { s.minLen, s.maxLen = min, max }
}

// MaxLength bounds the value length from above.
func MaxLength(max int) Rule { return func(s *spec) { s.maxLen = max } }

// Email requires a well-formed email address.
func Email() Rule { return func(s *spec) { s.email = true } }

// Date requires a YYYY-MM-DD calendar date.
func Date() Rule { return func(s *spec) { s.date = true } }

// OneOf restricts the value to an enumerated set.
func OneOf(values ...string) Rule { return func(s *spec) { s.oneOf = values } }

// IntRange requires an integer within [min, max].
func IntRange(min, max int) Rule {
	return func(s *spec) {
		lo, hi := float64(min), float64(max)
		s.kind, s.min, s.max = kindInt, &lo, &hi
	}
}

// FloatRange requires a decimal number within [min, max].
func FloatRange(min, max float64) Rule {
	return func(s *spec) { s.kind, s.min, s.max = kindFloat, &min, &max }
}

// Validator evaluates rules using go-playground/validator.
type Validator struct {
	engine *validator.Validate
}

// New constructs a Validator.
func New() *Validator {
	return &Validator{engine: validator.New()}
}

// Normalize trims surrounding whitespace and applies NFC normalisation.
func Normalize(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// Check validates a single field and returns the accepted value.
func (v *Validator) Check(name, value string, rules ...Rule) (string, *FieldError) {
	s := spec{label: name}
	for _, rule := range rules {
		rule(&s)
	}
	if !s.raw {
		value = Normalize(value)
	}
	if value == "" {
		if s.required {
			return "", s.fail(name, fmt.Sprintf("%s is required.", s.label))
		}
		return "", nil
	}

	switch s.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", s.fail(name, fmt.Sprintf("%s must be a whole number.", s.label))
		}
		if err := v.engine.Var(n, rangeTag(s.min, s.max)); err != nil {
			return "", s.fail(name, s.rangeReason())
		}
		return strconv.Itoa(n), nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", s.fail(name, fmt.Sprintf("%s must be a number.", s.label))
		}
		if err := v.engine.Var(f, rangeTag(s.min, s.max)); err != nil {
			return "", s.fail(name, s.rangeReason())
		}
		return value, nil
	}

	if s.minLen > 0 || s.maxLen > 0 {
		if err := v.engine.Var(value, lengthTag(s.minLen, s.maxLen)); err != nil {
			return "", s.fail(name, s.lengthReason())
		}
	}
	if s.email {
		if err := v.engine.Var(value, "email"); err != nil {
			return "", s.fail(name, "Please enter a valid email address.")
		}
	}
	if s.date {
		if err := v.engine.Var(value, "datetime="+DateLayout); err != nil {
			return "", s.fail(name, fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", s.label))
		}
	}
	if len(s.oneOf) > 0 {
		if err := v.engine.Var(value, "oneof="+strings.Join(s.oneOf, " ")); err != nil {
			return "", s.fail(name, fmt.Sprintf("%s must be one of %s.", s.label, strings.Join(s.oneOf, ", ")))
		}
	}
	return value, nil
}

// Field pairs a submitted value with its rules for Form.
type Field struct {
	Name  string
	Value string
	Rules []Rule
}

// F is shorthand for building a Field.
func F(name, value string, rules ...Rule) Field {
	return Field{Name: name, Value: value, Rules: rules}
}

// Form validates every field independently. It returns the accepted values
// keyed by name, or Errors listing each failed field in declaration order.
func (v *Validator) Form(fields ...Field) (map[string]string, error) {
	accepted := make(map[string]string, len(fields))
	var errs Errors
	for _, f := range fields {
		value, fe := v.Check(f.Name, f.Value, f.Rules...)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		accepted[f.Name] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return accepted, nil
}

func (s spec) fail(name, reason string) *FieldError {
	if s.message != "" {
		reason = s.message
	}
	return &FieldError{Field: name, Reason: reason}
}

func (s spec) lengthReason() string {
	switch {
	case s.minLen > 0 && s.maxLen > 0:
		return fmt.Sprintf("%s must be between %d and %d characters.", s.label, s.minLen, s.maxLen)
	case s.minLen > 0:
		return fmt.Sprintf("%s must be at least %d characters long.", s.label, s.minLen)
	default:
		return fmt.Sprintf("%s must be at most %d characters.", s.label, s.maxLen)
	}
}

func (s spec) rangeReason() string {
	switch {
	case s.min != nil && s.max != nil:
		return fmt.Sprintf("%s should be between %s and %s.", s.label, formatBound(*s.min), formatBound(*s.max))
	case s.min != nil:
		return fmt.Sprintf("%s must be at least %s.", s.label, formatBound(*s.min))
	default:
		return fmt.Sprintf("%s must be at most %s.", s.label, formatBound(*s.max))
	}
}

func lengthTag(min, max int) string {
	var parts []string
	if min > 0 {
		parts = append(parts, "min="+strconv.Itoa(min))
	}
	if max > 0 {
		parts = append(parts, "max="+strconv.Itoa(max))
	}
	return strings.Join(parts, ",")
}

func rangeTag(min, max *float64) string {
	var parts []string
	if min != nil {
		parts = append(parts, "gte="+formatBound(*min))
	}
	if max != nil {
		parts = append(parts, "lte="+formatBound(*max))
	}
	if len(parts) == 0 {
		return "omitempty"
	}
	return strings.Join(parts, ",")
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
