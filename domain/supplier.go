package domain

type Supplier struct {
	ID            int64  `db:"supplier_id" json:"supplier_id"`
	Name          string `db:"supplier_name" json:"supplier_name"`
	ContactPerson string `db:"contact_person" json:"contact_person"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
	Address       string `db:"address" json:"address"`
}

// PurchaseOrder status is free text chosen by the client.
type PurchaseOrder struct {
	ID          int64   `db:"po_id" json:"po_id"`
	SupplierID  int64   `db:"supplier_id" json:"supplier_id"`
	OrderDate   Date    `db:"order_date" json:"order_date"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	Status      string  `db:"status" json:"status"`
}
