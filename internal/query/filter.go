// Package query composes optional search predicates into a single
// parameterised SQL statement. Column names, operators and ORDER BY clauses
// only ever come from a Schema declared in code; request values are always
// bound as arguments.
package query

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shelfwise/shelfwise/internal/validate"
)

// Op is a comparison operator usable in a Filter.
type Op int

const (
	Eq Op = iota
	Contains
	Prefix
	Gte
	Lte
	Gt
	Lt
)

// String returns the operator keyword in the generic dialect.
func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case Contains, Prefix:
		return "LIKE"
	case Gte:
		return ">="
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Lt:
		return "<"
	default:
		return "?"
	}
}

// Dialect selects placeholder style and LIKE keyword.
type Dialect int

const (
	// Generic renders ? placeholders and LIKE.
	Generic Dialect = iota
	// Postgres renders $n placeholders and ILIKE.
	Postgres
)

// Coerce converts a trimmed request value into a bound argument.
type Coerce func(raw string) (any, error)

var (
	errNotInteger = errors.New("must be a whole number")
	errNotDecimal = errors.New("must be a number")
	errNotDate    = errors.New("must be a valid date (YYYY-MM-DD)")
	errNotFlag    = errors.New("must be 0 or 1")
	errOutOfRange = errors.New("is out of range")
)

// Text binds the normalised string unchanged.
func Text(raw string) (any, error) { return raw, nil }

// Int binds a base-10 integer that fits a Postgres INTEGER column.
func Int(raw string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return nil, errOutOfRange
	}
	if err != nil {
		return nil, errNotInteger
	}
	return int(n), nil
}

// Decimal binds a finite float.
func Decimal(raw string) (any, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNotDecimal
	}
	return f, nil
}

// Date binds a calendar date in validate.DateLayout.
func Date(raw string) (any, error) {
	t, err := time.Parse(validate.DateLayout, raw)
	if err != nil {
		return nil, errNotDate
	}
	return t, nil
}

// Flag binds "0" or "1" as a bool.
func Flag(raw string) (any, error) {
	switch raw {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return nil, errNotFlag
}

// Filter declares one optional predicate.
type Filter struct {
	Param  string
	Column string
	Op     Op
	Coerce Coerce
	Label  string
}

// Condition is a predicate that was included in a built Query.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Query is a statement ready for execution.
type Query struct {
	SQL        string
	Args       []any
	Conditions []Condition
}

// Schema is the fixed per-endpoint declaration of supported predicates.
type Schema struct {
	// Base is the statement up to but excluding WHERE.
	Base string
	// Scope names the owner column that is always constrained. Build must
	// then receive exactly one scope value.
	Scope string
	// Fixed holds literal predicates without bound values.
	Fixed   []string
	Filters []Filter
	// Sorts maps a sort key to a literal ORDER BY body.
	Sorts       map[string]string
	DefaultSort string
	// SortParam is the request parameter carrying the sort key; "sort" when empty.
	SortParam string
	Dialect   Dialect
}

// ErrScopeRequired is returned when a scoped schema is built without an owner.
var ErrScopeRequired = errors.New("query: scope value required")

// Build composes the query for params. Values that fail coercion are
// reported together as validate.Errors.
func (s Schema) Build(params url.Values, scope ...any) (Query, error) {
	b := builder{dialect: s.Dialect}

	if s.Scope != "" {
		if len(scope) != 1 || scope[0] == nil {
			return Query{}, ErrScopeRequired
		}
		b.add(s.Scope, Eq, scope[0], scope[0])
	}
	b.where = append(b.where, s.Fixed...)

	var errs validate.Errors
	for _, f := range s.Filters {
		raw := validate.Normalize(params.Get(f.Param))
		if raw == "" {
			continue
		}
		coerce := f.Coerce
		if coerce == nil {
			coerce = Text
		}
		value, err := coerce(raw)
		if err != nil {
			errs = append(errs, validate.FieldError{Field: f.Param, Reason: f.label() + " " + err.Error() + "."})
			continue
		}
		b.add(f.Column, f.Op, value, bindValue(f.Op, value))
	}
	if len(errs) > 0 {
		return Query{}, errs
	}

	var sb strings.Builder
	sb.WriteString(s.Base)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if order := s.order(params); order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}
	return Query{SQL: sb.String(), Args: b.args, Conditions: b.conds}, nil
}

func (s Schema) order(params url.Values) string {
	key := s.SortParam
	if key == "" {
		key = "sort"
	}
	if clause, ok := s.Sorts[strings.TrimSpace(params.Get(key))]; ok {
		return clause
	}
	return s.DefaultSort
}

func (f Filter) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Param
}

type builder struct {
	dialect Dialect
	where   []string
	args    []any
	conds   []Condition
}

func (b *builder) add(column string, op Op, value, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, Condition{Column: column, Op: op, Value: value})
	b.where = append(b.where, column+" "+b.keyword(op)+" "+b.placeholder())
}

func (b *builder) keyword(op Op) string {
	if b.dialect == Postgres && (op == Contains || op == Prefix) {
		return "ILIKE"
	}
	return op.String()
}

func (b *builder) placeholder() string {
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func bindValue(op Op, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch op {
	case Contains:
		return "%" + likeEscaper.Replace(s) + "%"
	case Prefix:
		return likeEscaper.Replace(s) + "%"
	}
	return value
}
