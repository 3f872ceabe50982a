package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"pharmacy/m/domain"
)

var validate = validator.New()

// Violations maps a column to the reason its value was rejected.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error renders the violations in column order.
func (v Violations) Error() string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " " + v[c]
	}
	return strings.Join(parts, "; ")
}

// Body is a request body decoded one level deep so presence of each key can
// be checked before its value is parsed.
type Body map[string]json.RawMessage

// DecodeBody reads a JSON object.
func DecodeBody(data []byte) (Body, error) {
	var body Body
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if body == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return body, nil
}

// Present reports whether column carries a non-null value.
func (b Body) Present(column string) bool {
	raw, ok := b[column]
	if !ok {
		return false
	}
	return strings.TrimSpace(string(raw)) != "null"
}

// Values holds parsed column values ready to bind to SQL.
type Values struct {
	Columns []string
	Args    []any
}

func (v *Values) add(column string, value any) {
	v.Columns = append(v.Columns, column)
	v.Args = append(v.Args, value)
}

// Get returns the value bound to column.
func (v Values) Get(column string) (any, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Args[i], true
		}
	}
	return nil, false
}

// ForCreate parses every writable field. Required fields must be present
// and valid; absent optional fields take their zero value.
func (r *Resource) ForCreate(body Body) (Values, Violations) {
	var out Values
	violations := Violations{}
	for _, f := range r.Writable() {
		if !body.Present(f.Column) {
			if f.Required {
				violations[f.Column] = "is required"
				continue
			}
			out.add(f.Column, f.Zero())
			continue
		}
		value, err := f.Parse(body[f.Column])
		if err != nil {
			violations[f.Column] = err.Error()
			continue
		}
		out.add(f.Column, value)
	}
	return out, violations
}

// ForUpdate parses only the updatable fields present in body. Keys outside
// the whitelist are ignored.
func (r *Resource) ForUpdate(body Body) (Values, Violations) {
	var out Values
	violations := Violations{}
	for _, f := range r.Updatable() {
		if !body.Present(f.Column) {
			continue
		}
		value, err := f.Parse(body[f.Column])
		if err != nil {
			violations[f.Column] = err.Error()
			continue
		}
		out.add(f.Column, value)
	}
	return out, violations
}

// Zero is the value stored for an absent optional field.
func (f Field) Zero() any {
	switch f.Kind {
	case Int:
		return int64(0)
	case Float:
		return float64(0)
	case Date:
		return domain.Date("")
	}
	return ""
}

// Parse converts one raw JSON value according to the field kind and then
// applies the field's validation rule.
func (f Field) Parse(raw json.RawMessage) (any, error) {
	var scalar any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&scalar); err != nil {
		return nil, errors.New("is not valid JSON")
	}

	var value any
	switch f.Kind {
	case Text:
		s, ok := textOf(scalar)
		if !ok {
			return nil, errors.New("must be a string")
		}
		s = strings.TrimSpace(s)
		if f.Required && s == "" {
			return nil, errors.New("is required")
		}
		value = s
	case Secret:
		s, ok := scalar.(string)
		if !ok {
			return nil, errors.New("must be a string")
		}
		if f.Required && s == "" {
			return nil, errors.New("is required")
		}
		value = s
	case Int:
		n, ok := intOf(scalar)
		if !ok {
			return nil, errors.New("must be an integer")
		}
		value = n
	case Float:
		n, ok := floatOf(scalar)
		if !ok {
			return nil, errors.New("must be a number")
		}
		value = n
	case Date:
		s, ok := scalar.(string)
		if !ok {
			return nil, errors.New("must be a date in YYYY-MM-DD format")
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, errors.New("must be a date in YYYY-MM-DD format")
		}
		value = d
	default:
		return nil, fmt.Errorf("has unsupported kind %s", f.Kind)
	}

	if f.Rule != "" {
		check := value
		if d, ok := value.(domain.Date); ok {
			check = string(d)
		}
		if err := validate.Var(check, f.Rule); err != nil {
			return nil, describe(err)
		}
	}
	return value, nil
}

func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

func intOf(v any) (int64, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatOf(v any) (float64, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return errors.New("must be a valid email address")
	case "max":
		return fmt.Errorf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Errorf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Errorf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Errorf("must be at least %s", fe.Param())
	}
	return fmt.Errorf("failed %s validation", fe.Tag())
}
