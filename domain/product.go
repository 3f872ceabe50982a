package domain

type Manufacturer struct {
	ID            int64  `db:"manufacturer_id" json:"manufacturer_id"`
	Name          string `db:"manufacturer_name" json:"manufacturer_name"`
	ContactPerson string `db:"contact_person" json:"contact_person"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
}

type ActiveIngredient struct {
	ID          int64  `db:"ingredient_id" json:"ingredient_id"`
	Name        string `db:"ingredient_name" json:"ingredient_name"`
	Description string `db:"description" json:"description"`
}

type Product struct {
	ID                 int64   `db:"product_id" json:"product_id"`
	Name               string  `db:"product_name" json:"product_name"`
	ManufacturerID     int64   `db:"manufacturer_id" json:"manufacturer_id"`
	Price              float64 `db:"price" json:"price"`
	Description        string  `db:"description" json:"description"`
	ActiveIngredientID int64   `db:"active_ingredient_id" json:"active_ingredient_id"`
	StockQuantity      int64   `db:"stock_quantity" json:"stock_quantity"`
}
