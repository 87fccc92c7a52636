// Package store mirrors a dataset into a SQLite file and reads it back.
package store

import (
	"fmt"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const batchSize = 500

func models() []any {
	return []any{&dataset.Customer{}, &dataset.Product{}, &dataset.Store{}, &dataset.Order{}, &dataset.LineItem{}}
}

// Open opens (or creates) the database at path and migrates the five tables.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(models()...); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Export replaces the five tables in the database at path with ds.
func Export(path string, ds *dataset.Dataset) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer Close(db)

	if err := db.Migrator().DropTable(models()...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := insert(tx, "customers", ds.Customers); err != nil {
			return err
		}
		if err := insert(tx, "products", ds.Products); err != nil {
			return err
		}
		if err := insert(tx, "stores", ds.Stores); err != nil {
			return err
		}
		if err := insert(tx, "orders", ds.Orders); err != nil {
			return err
		}
		return insert(tx, "lineitems", ds.LineItems)
	})
}

// gorm rejects empty slices in Create, so skip them.
func insert[T any](tx *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Import reads the five tables from the database at path, ordered by key.
func Import(path string) (*dataset.Dataset, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer Close(db)

	ds := &dataset.Dataset{}
	steps := []struct {
		table string
		dest  any
		order string
	}{
		{"customers", &ds.Customers, "customer_id"},
		{"products", &ds.Products, "sku_id, product_id"},
		{"stores", &ds.Stores, "store_id"},
		{"orders", &ds.Orders, "order_id"},
		{"lineitems", &ds.LineItems, "lineitem_id"},
	}
	for _, s := range steps {
		if err := db.Order(s.order).Find(s.dest).Error; err != nil {
			return nil, fmt.Errorf("read %s: %w", s.table, err)
		}
	}
	return ds, nil
}
