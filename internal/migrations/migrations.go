package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"pharmacy/m/internal/database"
)

// dialect fills the engine-specific parts of the DDL.
type dialect struct {
	autoID string
	money  string
}

var dialects = map[string]dialect{
	database.DriverSQLite:   {autoID: "INTEGER PRIMARY KEY AUTOINCREMENT", money: "DECIMAL(10,2)"},
	database.DriverPostgres: {autoID: "SERIAL PRIMARY KEY", money: "NUMERIC(10,2)"},
	database.DriverMySQL:    {autoID: "INT AUTO_INCREMENT PRIMARY KEY", money: "DECIMAL(10,2)"},
}

// tables is ordered so referenced tables exist before their referrers.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS tbl_crm_user (
            user_id VARCHAR(255) PRIMARY KEY,
            user_pass VARCHAR(255) NOT NULL,
            user_department VARCHAR(100),
            user_type VARCHAR(50),
            user_status VARCHAR(50)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_manufacturers (
            manufacturer_id {{id}},
            manufacturer_name VARCHAR(255) NOT NULL,
            contact_person VARCHAR(255),
            phone VARCHAR(50),
            email VARCHAR(255)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_active_ingredients (
            ingredient_id {{id}},
            ingredient_name VARCHAR(255) NOT NULL,
            description TEXT
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_products (
            product_id {{id}},
            product_name VARCHAR(255) NOT NULL,
            manufacturer_id INT,
            price {{money}},
            description TEXT,
            active_ingredient_id INT,
            stock_quantity INT,
            FOREIGN KEY (manufacturer_id) REFERENCES tbl_manufacturers(manufacturer_id),
            FOREIGN KEY (active_ingredient_id) REFERENCES tbl_active_ingredients(ingredient_id)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_inventory (
            inventory_id {{id}},
            product_id INT NOT NULL,
            batch_number VARCHAR(255) NOT NULL,
            expiry_date DATE,
            quantity INT NOT NULL,
            location VARCHAR(255),
            FOREIGN KEY (product_id) REFERENCES tbl_products(product_id)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_suppliers (
            supplier_id {{id}},
            supplier_name VARCHAR(255) NOT NULL,
            contact_person VARCHAR(255),
            phone VARCHAR(50),
            email VARCHAR(255),
            address TEXT
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_purchase_orders (
            po_id {{id}},
            supplier_id INT NOT NULL,
            order_date DATE NOT NULL,
            total_amount {{money}},
            status VARCHAR(50),
            FOREIGN KEY (supplier_id) REFERENCES tbl_suppliers(supplier_id)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_customers (
            customer_id {{id}},
            customer_name VARCHAR(255) NOT NULL,
            phone VARCHAR(50),
            email VARCHAR(255),
            address TEXT
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_sales (
            sale_id {{id}},
            customer_id INT NOT NULL,
            sale_date DATE NOT NULL,
            total_amount {{money}},
            status VARCHAR(50),
            FOREIGN KEY (customer_id) REFERENCES tbl_customers(customer_id)
        )`,
	`CREATE TABLE IF NOT EXISTS tbl_sale_items (
            sale_item_id {{id}},
            sale_id INT NOT NULL,
            product_id INT NOT NULL,
            quantity INT NOT NULL,
            price_at_sale {{money}} NOT NULL,
            FOREIGN KEY (sale_id) REFERENCES tbl_sales(sale_id),
            FOREIGN KEY (product_id) REFERENCES tbl_products(product_id)
        )`,
}

// Statements renders the DDL for the given driver.
func Statements(driver string) ([]string, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
	r := strings.NewReplacer("{{id}}", d.autoID, "{{money}}", d.money)
	out := make([]string, len(tables))
	for i, stmt := range tables {
		out[i] = r.Replace(stmt)
	}
	return out, nil
}

// Run creates any missing tables. Existing tables are left untouched.
func Run(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Statements(db.DriverName())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
