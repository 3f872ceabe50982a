package domain

import "github.com/shopspring/decimal"

type Customer struct {
	ID      int64  `db:"customer_id" json:"customer_id"`
	Name    string `db:"customer_name" json:"customer_name"`
	Phone   string `db:"phone" json:"phone"`
	Email   string `db:"email" json:"email"`
	Address string `db:"address" json:"address"`
}

type Sale struct {
	ID          int64   `db:"sale_id" json:"sale_id"`
	CustomerID  int64   `db:"customer_id" json:"customer_id"`
	SaleDate    Date    `db:"sale_date" json:"sale_date"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Status      string  `db:"status" json:"status"`
}

type SaleItem struct {
	ID          int64   `db:"sale_item_id" json:"sale_item_id"`
	SaleID      int64   `db:"sale_id" json:"sale_id"`
	ProductID   int64   `db:"product_id" json:"product_id"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	PriceAtSale float64 `db:"price_at_sale" json:"price_at_sale"`
}

// CheckoutItem is one cart line as submitted at checkout.
type CheckoutItem struct {
	ProductID   int64           `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
}

// CheckoutRequest is the whole cart plus the free-text customer details.
type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Items         []CheckoutItem `json:"items"`
}

// Total sums quantity × price over every line.
func (r CheckoutRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.PriceAtSale.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

type CheckoutResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
