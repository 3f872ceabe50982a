package domain

// InventoryItem is one stocked batch of a product.
type InventoryItem struct {
	ID          int64  `db:"inventory_id" json:"inventory_id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	BatchNumber string `db:"batch_number" json:"batch_number"`
	ExpiryDate  Date   `db:"expiry_date" json:"expiry_date"`
	Quantity    int64  `db:"quantity" json:"quantity"`
	Location    string `db:"location" json:"location"`
}
