package seed

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy/m/internal/database"
)

// catalog columns
const (
	colProduct = iota
	colManufacturer
	colIngredient
	colPrice
	colStock
	colDescription
	catalogColumns
)

// LoadCatalog ingests a product catalog CSV. Manufacturers and ingredients
// are matched by name and created when missing; products already present
// for the same manufacturer are skipped. A missing file is not an error.
func LoadCatalog(ctx context.Context, db *sqlx.DB, csvPath string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	file, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no product catalog to seed", zap.String("path", csvPath))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("read catalog header: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog seed: %w", err)
	}
	defer tx.Rollback()

	l := loader{tx: tx, manufacturers: map[string]int64{}, ingredients: map[string]int64{}}
	rows := 0
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable catalog row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(record) < catalogColumns-1 {
			log.Warn("skipping short catalog row", zap.Int("line", line))
			continue
		}
		inserted, err := l.product(ctx, record)
		if err != nil {
			log.Warn("skipping catalog row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if inserted {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog seed: %w", err)
	}
	log.Info("seeded product catalog", zap.String("path", csvPath), zap.Int("products", rows))
	return rows, nil
}

type loader struct {
	tx            *sqlx.Tx
	manufacturers map[string]int64
	ingredients   map[string]int64
}

func (l *loader) product(ctx context.Context, record []string) (bool, error) {
	name := strings.TrimSpace(record[colProduct])
	if name == "" {
		return false, errors.New("product name is empty")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[colPrice]))
	if err != nil || price.IsNegative() {
		return false, fmt.Errorf("invalid price %q", record[colPrice])
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(record[colStock]), 10, 64)
	if err != nil || stock < 0 {
		return false, fmt.Errorf("invalid stock quantity %q", record[colStock])
	}
	description := ""
	if len(record) > colDescription {
		description = strings.TrimSpace(record[colDescription])
	}

	manufacturerID, err := l.findOrCreate(ctx, l.manufacturers, "tbl_manufacturers", "manufacturer_id", "manufacturer_name", record[colManufacturer])
	if err != nil {
		return false, err
	}
	ingredientID, err := l.findOrCreate(ctx, l.ingredients, "tbl_active_ingredients", "ingredient_id", "ingredient_name", record[colIngredient])
	if err != nil {
		return false, err
	}

	var existing int64
	err = l.tx.GetContext(ctx, &existing, l.tx.Rebind(
		`SELECT product_id FROM tbl_products WHERE product_name = ? AND manufacturer_id = ?`), name, manufacturerID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = database.InsertID(ctx, l.tx,
		`INSERT INTO tbl_products (product_name, manufacturer_id, price, description, active_ingredient_id, stock_quantity) VALUES (?, ?, ?, ?, ?, ?)`,
		"product_id", name, manufacturerID, price, description, ingredientID, stock)
	if err != nil {
		return false, err
	}
	return true, nil
}

// findOrCreate resolves a name in a lookup table. Table and column names
// are constants supplied by the caller.
func (l *loader) findOrCreate(ctx context.Context, cache map[string]int64, table, key, column, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%s is empty", column)
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var id int64
	err := l.tx.GetContext(ctx, &id, l.tx.Rebind(
		"SELECT "+key+" FROM "+table+" WHERE "+column+" = ? ORDER BY "+key+" LIMIT 1"), name)
	if errors.Is(err, sql.ErrNoRows) {
		id, err = database.InsertID(ctx, l.tx, "INSERT INTO "+table+" ("+column+") VALUES (?)", key, name)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s %q: %w", column, name, err)
	}
	cache[name] = id
	return id, nil
}
