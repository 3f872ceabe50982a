package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/internal/database"
	"pharmacy/m/internal/schema"
)

// crud serves list, get, create, partial update and delete for one
// resource. T is the row type the select list scans into.
type crud[T any] struct {
	h         *Handler
	res       *schema.Resource
	selectSQL string
}

func newCRUD[T any](h *Handler, res *schema.Resource) *crud[T] {
	return &crud[T]{h: h, res: res, selectSQL: selectSQL(res)}
}

// selectSQL lists the readable columns, folding NULLs into the zero value of
// each kind so rows written by other tools still scan.
func selectSQL(res *schema.Resource) string {
	cols := make([]string, 0, len(res.Fields)+1)
	for _, f := range res.Readable() {
		switch {
		case f.Column == res.Key:
			cols = append(cols, f.Column)
		case f.Kind == schema.Text:
			cols = append(cols, fmt.Sprintf("COALESCE(%s, '') AS %s", f.Column, f.Column))
		case f.Kind == schema.Int || f.Kind == schema.Float:
			cols = append(cols, fmt.Sprintf("COALESCE(%s, 0) AS %s", f.Column, f.Column))
		default:
			cols = append(cols, f.Column)
		}
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + res.Table
}

func (c *crud[T]) mount(r chi.Router) {
	r.Route("/"+c.res.Name, func(r chi.Router) {
		r.Get("/", c.read)
		r.Post("/", c.create)
		r.Put("/", c.update)
		r.Delete("/", c.remove)
		r.Get("/{id}", c.read)
		r.Put("/{id}", c.update)
		r.Delete("/{id}", c.remove)
	})
}

// parseKey validates a key taken from the request.
func (c *crud[T]) parseKey(raw string) (any, error) {
	if c.res.KeyKind() == schema.Int {
		return parsePositiveID(raw)
	}
	return raw, nil
}

func (c *crud[T]) read(w http.ResponseWriter, r *http.Request) {
	raw, ok := targetID(r)
	if !ok {
		c.list(w, r)
		return
	}
	id, err := c.parseKey(raw)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid "+strings.ToLower(c.res.Label)+" ID.")
		return
	}

	var item T
	query := c.h.db.Rebind(c.selectSQL + " WHERE " + c.res.Key + " = ?")
	err = c.h.db.GetContext(r.Context(), &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondMessage(w, http.StatusNotFound, c.res.Label+" not found.")
		return
	}
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (c *crud[T]) list(w http.ResponseWriter, r *http.Request) {
	items := make([]T, 0)
	if err := c.h.db.SelectContext(r.Context(), &items, c.selectSQL+" ORDER BY "+c.res.Key); err != nil {
		c.h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (c *crud[T]) create(w http.ResponseWriter, r *http.Request) {
	body, ok := c.body(w, r)
	if !ok {
		return
	}
	values, violations := c.res.ForCreate(body)
	if !violations.Empty() {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing or invalid required fields.", Fields: violations})
		return
	}
	if violations := hashSecrets(c.res, &values); !violations.Empty() {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing or invalid required fields.", Fields: violations})
		return
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values.Columns)), ", ")
	query := "INSERT INTO " + c.res.Table + " (" + strings.Join(values.Columns, ", ") + ") VALUES (" + placeholders + ")"

	var id any
	var err error
	if c.res.ClientKey {
		_, err = c.h.db.ExecContext(r.Context(), c.h.db.Rebind(query), values.Args...)
		id, _ = values.Get(c.res.Key)
	} else {
		id, err = database.InsertID(r.Context(), c.h.db, query, c.res.Key, values.Args...)
	}
	if database.IsUniqueViolation(err) {
		respondMessage(w, http.StatusConflict, c.conflictMessage())
		return
	}
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, messageResponse{Message: c.res.Label + " created successfully.", ID: id})
}

func (c *crud[T]) update(w http.ResponseWriter, r *http.Request) {
	raw, ok := targetID(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, c.res.Label+" ID is required for update.")
		return
	}
	id, err := c.parseKey(raw)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid "+strings.ToLower(c.res.Label)+" ID.")
		return
	}
	body, ok := c.body(w, r)
	if !ok {
		return
	}
	values, violations := c.res.ForUpdate(body)
	if !violations.Empty() {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid field values.", Fields: violations})
		return
	}
	if len(values.Columns) == 0 {
		respondMessage(w, http.StatusBadRequest, "No fields provided for update.")
		return
	}
	if violations := hashSecrets(c.res, &values); !violations.Empty() {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid field values.", Fields: violations})
		return
	}

	set := make([]string, len(values.Columns))
	for i, col := range values.Columns {
		set[i] = col + " = ?"
	}
	query := "UPDATE " + c.res.Table + " SET " + strings.Join(set, ", ") + " WHERE " + c.res.Key + " = ?"
	args := append(values.Args, id)

	res, err := c.h.db.ExecContext(r.Context(), c.h.db.Rebind(query), args...)
	if database.IsUniqueViolation(err) {
		respondMessage(w, http.StatusConflict, c.conflictMessage())
		return
	}
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	if affected == 0 {
		respondMessage(w, http.StatusNotFound, c.res.Label+" not found.")
		return
	}
	respondMessage(w, http.StatusOK, c.res.Label+" updated successfully.")
}

func (c *crud[T]) remove(w http.ResponseWriter, r *http.Request) {
	raw, ok := targetID(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, c.res.Label+" ID is required for deletion.")
		return
	}
	id, err := c.parseKey(raw)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid "+strings.ToLower(c.res.Label)+" ID.")
		return
	}

	query := c.h.db.Rebind("DELETE FROM " + c.res.Table + " WHERE " + c.res.Key + " = ?")
	res, err := c.h.db.ExecContext(r.Context(), query, id)
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		c.h.internalError(w, r, err)
		return
	}
	if affected == 0 {
		respondMessage(w, http.StatusNotFound, c.res.Label+" not found.")
		return
	}
	respondMessage(w, http.StatusOK, c.res.Label+" deleted successfully.")
}

func (c *crud[T]) body(w http.ResponseWriter, r *http.Request) (schema.Body, bool) {
	data, err := readBody(w, r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return nil, false
	}
	body, err := schema.DecodeBody(data)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return nil, false
	}
	return body, true
}

func (c *crud[T]) conflictMessage() string {
	if c.res.ClientKey {
		return c.res.Label + " ID already exists."
	}
	return c.res.Label + " already exists."
}

// hashSecrets replaces every secret value with its bcrypt hash in place.
func hashSecrets(res *schema.Resource, values *schema.Values) schema.Violations {
	violations := schema.Violations{}
	for i, col := range values.Columns {
		f, ok := res.Field(col)
		if !ok || f.Kind != schema.Secret {
			continue
		}
		plain, _ := values.Args[i].(string)
		hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			violations[col] = "cannot be hashed: " + err.Error()
			continue
		}
		values.Args[i] = string(hashed)
	}
	return violations
}
