package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/metrics"
	"pharmacy/m/internal/schema"
)

const maxBodyBytes = 1 << 20

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db      *sqlx.DB
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New constructs a Handler. m may be nil to run without /metrics.
func New(db *sqlx.DB, log *zap.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{db: db, log: log, metrics: m}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	// set before any Route call so sub-routers inherit them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Resource not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Get("/health", h.health)

	r.Route("/api", func(api chi.Router) {
		api.Post("/sales/checkout", h.checkout)
		api.Get("/sales/{id}/items", h.saleItems)

		newCRUD[domain.User](h, schema.Users).mount(api)
		newCRUD[domain.Manufacturer](h, schema.Manufacturers).mount(api)
		newCRUD[domain.ActiveIngredient](h, schema.ActiveIngredients).mount(api)
		newCRUD[domain.Product](h, schema.Products).mount(api)
		newCRUD[domain.InventoryItem](h, schema.Inventory).mount(api)
		newCRUD[domain.Supplier](h, schema.Suppliers).mount(api)
		newCRUD[domain.PurchaseOrder](h, schema.PurchaseOrders).mount(api)
		newCRUD[domain.Customer](h, schema.Customers).mount(api)
		newCRUD[domain.Sale](h, schema.Sales).mount(api)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// messageResponse is the envelope of every mutation response and every error.
type messageResponse struct {
	Message string            `json:"message"`
	ID      any               `json:"id,omitempty"`
	Fields  schema.Violations `json:"fields,omitempty"`
	ErrorID string            `json:"error_id,omitempty"`
}

// internalError logs the underlying failure under an opaque id and sends the
// client only that id.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	errorID := uuid.NewString()
	h.log.Error("request failed",
		zap.String("error_id", errorID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondJSON(w, http.StatusInternalServerError, messageResponse{
		Message: "Internal server error.",
		ErrorID: errorID,
	})
}

// targetID returns the row id from the {id} path segment or the id query
// parameter. An empty value counts as absent.
func targetID(r *http.Request) (string, bool) {
	if id := strings.TrimSpace(pathParam(r, "id")); id != "" {
		return id, true
	}
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		return id, true
	}
	return "", false
}

// pathParam returns a decoded URL parameter. chi matches on RawPath when the
// request carries one (an escaped "/" in a key), leaving the value escaped.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func parsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Helpers
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("request body is empty")
	}
	return data, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// respondJSON encodes before writing the header so an unencodable payload
// becomes a 500 instead of an empty 200.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = encoder.Encode(messageResponse{Message: "Internal server error."})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}
