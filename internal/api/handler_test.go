package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/schema"
)

func newTestServer(t *testing.T) (http.Handler, *sqlx.DB) {
	t.Helper()
	db, err := database.Connect(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return New(db, nil, nil).Router(), db
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type createResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func create(t *testing.T, h http.Handler, resource string, body map[string]any) int64 {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/"+resource, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[createResult](t, w)
	require.Positive(t, res.ID)
	return res.ID
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

// seedProduct creates a manufacturer, an ingredient and one product.
func seedProduct(t *testing.T, h http.Handler, name string, price float64, stock int) int64 {
	t.Helper()
	mID := create(t, h, "manufacturers", map[string]any{"manufacturer_name": "Acme " + name})
	iID := create(t, h, "active_ingredients", map[string]any{"ingredient_name": "Ingredient " + name})
	return create(t, h, "products", map[string]any{
		"product_name":         name,
		"manufacturer_id":      mID,
		"price":                price,
		"active_ingredient_id": iID,
		"stock_quantity":       stock,
	})
}

func TestList_EmptyForEveryResource(t *testing.T) {
	h, _ := newTestServer(t)
	for _, res := range schema.All {
		t.Run(res.Name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/"+res.Name, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, "[]", w.Body.String())
		})
	}
}

func TestCreate_MissingRequiredField(t *testing.T) {
	h, db := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/products", map[string]any{
		"product_name": "Aspirin",
		"price":        4.5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[messageResponse](t, w)
	assert.Equal(t, "Missing or invalid required fields.", body.Message)
	assert.Contains(t, body.Fields, "manufacturer_id")
	assert.Contains(t, body.Fields, "stock_quantity")
	assert.NotContains(t, body.Fields, "description")
	assert.Equal(t, 0, count(t, db, "tbl_products"))
}

func TestCreate_RejectsInvalidValues(t *testing.T) {
	h, db := newTestServer(t)

	tests := []struct {
		name   string
		body   map[string]any
		column string
	}{
		{"blank name", map[string]any{"supplier_name": "   "}, "supplier_name"},
		{"bad email", map[string]any{"supplier_name": "Medline", "email": "not-an-email"}, "email"},
		{"name not text", map[string]any{"supplier_name": []string{"x"}}, "supplier_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/suppliers", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[messageResponse](t, w).Fields, tt.column)
		})
	}
	assert.Equal(t, 0, count(t, db, "tbl_suppliers"))
}

func TestCreate_InvalidJSON(t *testing.T) {
	h, _ := newTestServer(t)

	for _, body := range []string{"", "{", "[1,2]"} {
		w := do(t, h, http.MethodPost, "/api/customers", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestProducts_RoundTrip(t *testing.T) {
	h, _ := newTestServer(t)
	mID := create(t, h, "manufacturers", map[string]any{"manufacturer_name": "Acme", "email": "sales@acme.test"})
	iID := create(t, h, "active_ingredients", map[string]any{"ingredient_name": "Ibuprofen"})

	id := create(t, h, "products", map[string]any{
		"product_name":         "  Advil  ",
		"manufacturer_id":      mID,
		"price":                "12.75",
		"description":          "200mg tablets",
		"active_ingredient_id": iID,
		"stock_quantity":       40,
	})

	w := do(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.Product](t, w)
	assert.Equal(t, domain.Product{
		ID:                 id,
		Name:               "Advil",
		ManufacturerID:     mID,
		Price:              12.75,
		Description:        "200mg tablets",
		ActiveIngredientID: iID,
		StockQuantity:      40,
	}, got)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/products?id=%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, got, decode[domain.Product](t, w))

	w = do(t, h, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.Product{got}, decode[[]domain.Product](t, w))
}

func TestInventory_DateRoundTrip(t *testing.T) {
	h, _ := newTestServer(t)
	pID := seedProduct(t, h, "Amoxil", 8, 10)

	id := create(t, h, "inventory", map[string]any{
		"product_id":   pID,
		"batch_number": "B-100",
		"expiry_date":  "2027-03-31",
		"quantity":     25,
	})
	w := do(t, h, http.MethodGet, fmt.Sprintf("/api/inventory/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[domain.InventoryItem](t, w)
	assert.Equal(t, domain.Date("2027-03-31"), item.ExpiryDate)
	assert.Equal(t, "", item.Location)

	w = do(t, h, http.MethodPost, "/api/inventory", map[string]any{
		"product_id":   pID,
		"batch_number": "B-101",
		"expiry_date":  "31/03/2027",
		"quantity":     1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[messageResponse](t, w).Fields, "expiry_date")
}

func TestGet_NotFoundAndInvalidID(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/customers/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Customer not found.", decode[messageResponse](t, w).Message)

	for _, path := range []string{"/api/customers/abc", "/api/customers?id=-1"} {
		w = do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUsers_CreateHashesPassword(t *testing.T) {
	h, db := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/users", map[string]any{
		"user_id":         "alice",
		"user_pass":       "s3cret",
		"user_department": "Pharmacy",
		"user_type":       "admin",
		"user_status":     "active",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"User created successfully.","id":"alice"}`, w.Body.String())

	var hash string
	require.NoError(t, db.Get(&hash, "SELECT user_pass FROM tbl_crm_user WHERE user_id = ?", "alice"))
	assert.NotEqual(t, "s3cret", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	w = do(t, h, http.MethodGet, "/api/users/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "user_pass")
	assert.Equal(t, domain.User{UserID: "alice", Department: "Pharmacy", Type: "admin", Status: "active"}, decode[domain.User](t, w))
}

func TestUsers_DuplicateIDConflict(t *testing.T) {
	h, db := newTestServer(t)
	user := map[string]any{
		"user_id":         "bob",
		"user_pass":       "first",
		"user_department": "Front",
		"user_type":       "clerk",
		"user_status":     "active",
	}
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users", user).Code)

	user["user_department"] = "Back"
	w := do(t, h, http.MethodPost, "/api/users", user)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User ID already exists.", decode[messageResponse](t, w).Message)

	var dept string
	require.NoError(t, db.Get(&dept, "SELECT user_department FROM tbl_crm_user WHERE user_id = ?", "bob"))
	assert.Equal(t, "Front", dept)
	assert.Equal(t, 1, count(t, db, "tbl_crm_user"))
}

func TestUsers_UpdatePasswordIsRehashed(t *testing.T) {
	h, db := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users", map[string]any{
		"user_id": "carol", "user_pass": "old", "user_department": "Front", "user_type": "clerk", "user_status": "active",
	}).Code)

	w := do(t, h, http.MethodPut, "/api/users/carol", map[string]any{"user_pass": "new", "user_id": "mallory"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var hash string
	require.NoError(t, db.Get(&hash, "SELECT user_pass FROM tbl_crm_user WHERE user_id = ?", "carol"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new")))
}

func TestUpdate_PartialLeavesOtherFields(t *testing.T) {
	h, _ := newTestServer(t)
	id := create(t, h, "suppliers", map[string]any{
		"supplier_name":  "Medline",
		"contact_person": "Dana",
		"phone":          "555-0100",
		"email":          "dana@medline.test",
		"address":        "1 Main St",
	})

	w := do(t, h, http.MethodPut, fmt.Sprintf("/api/suppliers?id=%d", id), map[string]any{
		"phone":   "555-0199",
		"address": nil,
		"unknown": "ignored",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Supplier updated successfully.", decode[messageResponse](t, w).Message)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/suppliers/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Supplier{
		ID:            id,
		Name:          "Medline",
		ContactPerson: "Dana",
		Phone:         "555-0199",
		Email:         "dana@medline.test",
		Address:       "1 Main St",
	}, decode[domain.Supplier](t, w))
}

func TestUpdate_Errors(t *testing.T) {
	h, db := newTestServer(t)
	id := create(t, h, "customers", map[string]any{"customer_name": "Erin"})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"missing id", "/api/customers", map[string]any{"phone": "1"}, http.StatusBadRequest},
		{"no known fields", fmt.Sprintf("/api/customers/%d", id), map[string]any{"nope": 1}, http.StatusBadRequest},
		{"only nulls", fmt.Sprintf("/api/customers/%d", id), map[string]any{"phone": nil}, http.StatusBadRequest},
		{"invalid value", fmt.Sprintf("/api/customers/%d", id), map[string]any{"email": "x"}, http.StatusBadRequest},
		{"missing row", "/api/customers/999", map[string]any{"phone": "1"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	var c domain.Customer
	require.NoError(t, db.Get(&c, "SELECT customer_id, customer_name, COALESCE(phone, '') AS phone, COALESCE(email, '') AS email, COALESCE(address, '') AS address FROM tbl_customers"))
	assert.Equal(t, domain.Customer{ID: id, Name: "Erin"}, c)
}

func TestUpdate_SameValuesStillSucceeds(t *testing.T) {
	h, _ := newTestServer(t)
	id := create(t, h, "active_ingredients", map[string]any{"ingredient_name": "Paracetamol"})

	w := do(t, h, http.MethodPut, fmt.Sprintf("/api/active_ingredients/%d", id), map[string]any{"ingredient_name": "Paracetamol"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDelete(t *testing.T) {
	h, db := newTestServer(t)
	id := create(t, h, "manufacturers", map[string]any{"manufacturer_name": "Globex"})

	w := do(t, h, http.MethodDelete, "/api/manufacturers", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/api/manufacturers/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, count(t, db, "tbl_manufacturers"))

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/api/manufacturers?id=%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Manufacturer deleted successfully.", decode[messageResponse](t, w).Message)
	assert.Equal(t, 0, count(t, db, "tbl_manufacturers"))
}

func TestRouting_MethodNotAllowedAndUnknownPath(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPatch, "/api/products", map[string]any{})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed.", decode[messageResponse](t, w).Message)

	w = do(t, h, http.MethodGet, "/api/prescriptions", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestDatabaseErrorHidesDetail(t *testing.T) {
	h, db := newTestServer(t)
	_, err := db.Exec("DROP TABLE tbl_suppliers")
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/api/suppliers", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[messageResponse](t, w)
	assert.Equal(t, "Internal server error.", body.Message)
	assert.NotEmpty(t, body.ErrorID)
	assert.NotContains(t, w.Body.String(), "tbl_suppliers")
}

func TestCheckout_RecordsSaleWithoutTouchingStock(t *testing.T) {
	h, db := newTestServer(t)
	p1 := seedProduct(t, h, "Aspirin", 5.75, 10)
	p2 := seedProduct(t, h, "Cough Syrup", 10, 3)

	req := map[string]any{
		"customer_name":  "Frank",
		"customer_phone": "555-0111",
		"items": []map[string]any{
			{"product_id": p1, "quantity": 2, "price_at_sale": 5.75},
			{"product_id": p2, "quantity": 1, "price_at_sale": "10.00"},
		},
	}
	w := do(t, h, http.MethodPost, "/api/sales/checkout", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[domain.CheckoutResponse](t, w)
	assert.True(t, res.Success)
	assert.Equal(t, res.ID, res.SaleID)
	assert.True(t, decimal.RequireFromString("21.50").Equal(res.TotalAmount), res.TotalAmount.String())

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/sales/%d", res.SaleID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	sale := decode[domain.Sale](t, w)
	assert.Equal(t, "completed", sale.Status)
	assert.Equal(t, domain.Today(), sale.SaleDate)
	assert.InDelta(t, 21.50, sale.TotalAmount, 0.001)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/sales/%d/items", res.SaleID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]domain.SaleItem](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, p1, items[0].ProductID)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.InDelta(t, 5.75, items[0].PriceAtSale, 0.001)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", p1), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(10), decode[domain.Product](t, w).StockQuantity)

	// same customer is reused
	w = do(t, h, http.MethodPost, "/api/sales/checkout", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, count(t, db, "tbl_customers"))
	assert.Equal(t, 2, count(t, db, "tbl_sales"))
	assert.Equal(t, 4, count(t, db, "tbl_sale_items"))
}

func TestCheckout_WalkInCustomer(t *testing.T) {
	h, db := newTestServer(t)
	p := seedProduct(t, h, "Bandage", 1.25, 50)

	w := do(t, h, http.MethodPost, "/api/sales/checkout", map[string]any{
		"items": []map[string]any{{"product_id": p, "quantity": 4, "price_at_sale": 1.25}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var name string
	require.NoError(t, db.Get(&name, "SELECT customer_name FROM tbl_customers"))
	assert.Equal(t, "Walk-in Customer", name)
}

func TestCheckout_Rejects(t *testing.T) {
	h, db := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty cart", map[string]any{"customer_name": "Gina", "items": []any{}}},
		{"zero quantity", map[string]any{"items": []map[string]any{{"product_id": 1, "quantity": 0, "price_at_sale": 1}}}},
		{"bad product", map[string]any{"items": []map[string]any{{"product_id": 0, "quantity": 1, "price_at_sale": 1}}}},
		{"negative price", map[string]any{"items": []map[string]any{{"product_id": 1, "quantity": 1, "price_at_sale": -1}}}},
		{"unknown field", map[string]any{"items": []map[string]any{{"product_id": 1, "quantity": 1, "price_at_sale": 1}}, "discount": 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/sales/checkout", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 0, count(t, db, "tbl_sales"))
}

func TestSaleItems_UnknownSale(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sales/42/items", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/sales/x/items", nil).Code)
}

func TestCreate_RejectsNonFiniteNumbers(t *testing.T) {
	h, db := newTestServer(t)

	for _, v := range []string{"Infinity", "-inf", "NaN", "1e400"} {
		w := do(t, h, http.MethodPost, "/api/purchase_orders", map[string]any{
			"supplier_id":  1,
			"order_date":   "2025-01-02",
			"total_amount": v,
			"status":       "open",
		})
		require.Equal(t, http.StatusBadRequest, w.Code, v)
		assert.Contains(t, decode[messageResponse](t, w).Fields, "total_amount", v)
	}
	assert.Equal(t, 0, count(t, db, "tbl_purchase_orders"))
}

func TestList_UnencodableRowIsServerError(t *testing.T) {
	h, db := newTestServer(t)
	id := seedProduct(t, h, "Aspirin", 5, 1)
	_, err := db.Exec("UPDATE tbl_products SET price = 9e999 WHERE product_id = ?", id)
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error.", decode[messageResponse](t, w).Message)
}

func TestUsers_KeysWithReservedCharacters(t *testing.T) {
	h, db := newTestServer(t)

	for _, id := range []string{"ops/alice", "50%off", "a b"} {
		t.Run(id, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/users", map[string]any{
				"user_id": id, "user_pass": "pw", "user_department": "Front",
				"user_type": "clerk", "user_status": "active",
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			path := "/api/users/" + url.PathEscape(id)
			w = do(t, h, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, id, decode[domain.User](t, w).UserID)

			w = do(t, h, http.MethodPut, path, map[string]any{"user_status": "inactive"})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = do(t, h, http.MethodDelete, path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 0, count(t, db, "tbl_crm_user"))
}

func TestCheckout_RollsBackOnFailure(t *testing.T) {
	h, db := newTestServer(t)
	_, err := db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	p := seedProduct(t, h, "Aspirin", 5.75, 10)

	w := do(t, h, http.MethodPost, "/api/sales/checkout", map[string]any{
		"customer_name": "Hana",
		"items": []map[string]any{
			{"product_id": p, "quantity": 1, "price_at_sale": 5.75},
			{"product_id": 999, "quantity": 1, "price_at_sale": 1},
		},
	})
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[messageResponse](t, w).ErrorID)

	assert.Equal(t, 0, count(t, db, "tbl_customers"))
	assert.Equal(t, 0, count(t, db, "tbl_sales"))
	assert.Equal(t, 0, count(t, db, "tbl_sale_items"))
}

func TestRoundTrip_EveryResource(t *testing.T) {
	h, _ := newTestServer(t)

	// ordered so referenced rows exist; each generated key is 1
	tests := []struct {
		resource string
		body     map[string]any
	}{
		{"users", map[string]any{"user_id": "dana", "user_pass": "pw", "user_department": "Front", "user_type": "clerk", "user_status": "active"}},
		{"manufacturers", map[string]any{"manufacturer_name": "Acme", "contact_person": "Ann", "phone": "555-0100", "email": "ann@acme.test"}},
		{"active_ingredients", map[string]any{"ingredient_name": "Ibuprofen", "description": "NSAID"}},
		{"products", map[string]any{"product_name": "Advil", "manufacturer_id": 1.0, "price": 8.99, "description": "200mg", "active_ingredient_id": 1.0, "stock_quantity": 12.0}},
		{"inventory", map[string]any{"product_id": 1.0, "batch_number": "B-1", "expiry_date": "2027-01-31", "quantity": 12.0, "location": "Shelf A"}},
		{"suppliers", map[string]any{"supplier_name": "Medline", "contact_person": "Bo", "phone": "555-0101", "email": "bo@medline.test", "address": "1 Main St"}},
		{"purchase_orders", map[string]any{"supplier_id": 1.0, "order_date": "2025-03-04", "total_amount": 120.5, "status": "open"}},
		{"customers", map[string]any{"customer_name": "Cy", "phone": "555-0102", "email": "cy@example.test", "address": "2 Side St"}},
		{"sales", map[string]any{"customer_id": 1.0, "sale_date": "2025-03-05", "total_amount": 17.98, "status": "completed"}},
	}
	require.Len(t, tests, len(schema.All))

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/"+tt.resource, tt.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			id := decode[map[string]any](t, w)["id"]
			require.NotNil(t, id)

			w = do(t, h, http.MethodGet, fmt.Sprintf("/api/%s/%v", tt.resource, id), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			got := decode[map[string]any](t, w)

			res, ok := schema.Lookup(tt.resource)
			require.True(t, ok)
			assert.Equal(t, id, got[res.Key])
			for col, want := range tt.body {
				if col == "user_pass" {
					assert.NotContains(t, got, col)
					continue
				}
				assert.Equal(t, want, got[col], col)
			}
		})
	}
}
