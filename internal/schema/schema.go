// Package schema holds the compiled-in descriptors of every table exposed
// over HTTP. Column names used in SQL text come only from here.
package schema

import "fmt"

// Kind selects how a field is parsed from JSON and selected from SQL.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Date
	// Secret is a write-only text value stored as a bcrypt hash.
	Secret
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Int:
		return "integer"
	case Float:
		return "number"
	case Date:
		return "date"
	case Secret:
		return "secret"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field is one whitelisted column.
type Field struct {
	Column   string
	Kind     Kind
	Required bool
	// Rule is a go-playground/validator tag applied to the parsed value.
	Rule string
}

// Resource describes one table-backed resource.
type Resource struct {
	// Name is the URL segment, e.g. "products".
	Name string
	// Label is used in response messages, e.g. "Product".
	Label string
	Table string
	Key   string
	// ClientKey marks resources whose key is supplied in the create body
	// instead of generated by the database.
	ClientKey bool
	Fields    []Field
}

// Field returns the whitelisted field named column.
func (r *Resource) Field(column string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

// Writable returns the fields accepted on create, in declaration order.
func (r *Resource) Writable() []Field {
	return r.Fields
}

// Updatable returns the fields accepted on update. The key is never
// rewritten.
func (r *Resource) Updatable() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Column == r.Key {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Readable returns the columns selected back out, key first. Secrets are
// excluded.
func (r *Resource) Readable() []Field {
	out := []Field{}
	if !r.ClientKey {
		out = append(out, Field{Column: r.Key, Kind: Int})
	}
	for _, f := range r.Fields {
		if f.Kind == Secret {
			continue
		}
		out = append(out, f)
	}
	return out
}

// KeyKind reports how the key is parsed from a request.
func (r *Resource) KeyKind() Kind {
	if r.ClientKey {
		if f, ok := r.Field(r.Key); ok {
			return f.Kind
		}
		return Text
	}
	return Int
}
