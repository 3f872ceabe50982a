package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database"
)

const (
	walkInCustomer = "Walk-in Customer"
	saleCompleted  = "completed"
)

// checkout records a whole cart as one sale. Product stock is not adjusted.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req domain.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if msg := validateCheckout(req); msg != "" {
		respondMessage(w, http.StatusBadRequest, msg)
		return
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = walkInCustomer
	}
	phone := strings.TrimSpace(req.CustomerPhone)
	total := req.Total()
	ctx := r.Context()

	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	defer tx.Rollback()

	var customerID int64
	err = tx.GetContext(ctx, &customerID, tx.Rebind(
		`SELECT customer_id FROM tbl_customers WHERE customer_name = ? AND COALESCE(phone, '') = ? ORDER BY customer_id LIMIT 1`),
		name, phone)
	if errors.Is(err, sql.ErrNoRows) {
		customerID, err = database.InsertID(ctx, tx,
			`INSERT INTO tbl_customers (customer_name, phone, email, address) VALUES (?, ?, '', '')`,
			"customer_id", name, phone)
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	saleID, err := database.InsertID(ctx, tx,
		`INSERT INTO tbl_sales (customer_id, sale_date, total_amount, status) VALUES (?, ?, ?, ?)`,
		"sale_id", customerID, domain.Today(), total, saleCompleted)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	insertItem := tx.Rebind(`INSERT INTO tbl_sale_items (sale_id, product_id, quantity, price_at_sale) VALUES (?, ?, ?, ?)`)
	for _, item := range req.Items {
		if _, err := tx.ExecContext(ctx, insertItem, saleID, item.ProductID, item.Quantity, item.PriceAtSale); err != nil {
			h.internalError(w, r, err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		h.internalError(w, r, err)
		return
	}

	h.log.Info("sale recorded",
		zap.Int64("sale_id", saleID),
		zap.Int64("customer_id", customerID),
		zap.Int("items", len(req.Items)),
		zap.String("total_amount", total.StringFixed(2)),
	)
	respondJSON(w, http.StatusCreated, domain.CheckoutResponse{
		Success:     true,
		Message:     "Sale processed successfully.",
		ID:          saleID,
		SaleID:      saleID,
		TotalAmount: total,
	})
}

func validateCheckout(req domain.CheckoutRequest) string {
	if len(req.Items) == 0 {
		return "Cart is empty."
	}
	for _, item := range req.Items {
		switch {
		case item.ProductID <= 0:
			return "Every item needs a valid product_id."
		case item.Quantity <= 0:
			return "Every item needs a quantity greater than 0."
		case item.PriceAtSale.IsNegative():
			return "Item prices cannot be negative."
		}
	}
	return ""
}

func (h *Handler) saleItems(w http.ResponseWriter, r *http.Request) {
	saleID, err := parsePositiveID(pathParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid sale ID.")
		return
	}
	ctx := r.Context()

	var exists int
	err = h.db.GetContext(ctx, &exists, h.db.Rebind(`SELECT 1 FROM tbl_sales WHERE sale_id = ?`), saleID)
	if errors.Is(err, sql.ErrNoRows) {
		respondMessage(w, http.StatusNotFound, "Sale not found.")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	items := make([]domain.SaleItem, 0)
	err = h.db.SelectContext(ctx, &items, h.db.Rebind(
		`SELECT sale_item_id, sale_id, product_id, quantity, price_at_sale FROM tbl_sale_items WHERE sale_id = ? ORDER BY sale_item_id`),
		saleID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
