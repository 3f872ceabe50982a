package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
)

const catalog = `product_name,manufacturer_name,ingredient_name,price,stock_quantity,description
Advil,Pfizer,Ibuprofen,12.75,40,200mg tablets
Motrin,Johnson & Johnson,Ibuprofen,9.50,15,
Tylenol,Johnson & Johnson,Paracetamol,7.25,0
Broken,Pfizer,Ibuprofen,abc,3,bad price
,Pfizer,Ibuprofen,1,1,no name
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(context.Background(), db))
	return db
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	db := newTestDB(t)
	path := writeCatalog(t, catalog)

	n, err := LoadCatalog(context.Background(), db, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var manufacturers, ingredients int
	require.NoError(t, db.Get(&manufacturers, "SELECT COUNT(*) FROM tbl_manufacturers"))
	require.NoError(t, db.Get(&ingredients, "SELECT COUNT(*) FROM tbl_active_ingredients"))
	assert.Equal(t, 2, manufacturers)
	assert.Equal(t, 2, ingredients)

	var p domain.Product
	require.NoError(t, db.Get(&p, `SELECT product_id, product_name, manufacturer_id, price, COALESCE(description, '') AS description,
		active_ingredient_id, stock_quantity FROM tbl_products WHERE product_name = ?`, "Advil"))
	assert.InDelta(t, 12.75, p.Price, 0.001)
	assert.Equal(t, int64(40), p.StockQuantity)
	assert.Equal(t, "200mg tablets", p.Description)
}

func TestLoadCatalog_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	path := writeCatalog(t, catalog)

	_, err := LoadCatalog(context.Background(), db, path, nil)
	require.NoError(t, err)
	n, err := LoadCatalog(context.Background(), db, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var products int
	require.NoError(t, db.Get(&products, "SELECT COUNT(*) FROM tbl_products"))
	assert.Equal(t, 3, products)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	db := newTestDB(t)
	n, err := LoadCatalog(context.Background(), db, filepath.Join(t.TempDir(), "nope.csv"), nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
