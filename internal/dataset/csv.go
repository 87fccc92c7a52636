package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/utils"
)

// Files lists the input tables in load order.
var Files = []string{"customers.csv", "products.csv", "stores.csv", "orders.csv", "lineitems.csv"}

// required columns per file; others are optional and default to zero values
var required = map[string][]string{
	"customers.csv": {"customer_id", "gender", "age", "location", "join_date", "persona"},
	"products.csv":  {"product_id", "product_name", "category", "brand", "price", "rating"},
	"stores.csv":    {"store_id", "location"},
	"orders.csv":    {"order_id", "customer_id", "store_id", "order_date", "payment_method"},
	"lineitems.csv": {"lineitem_id", "order_id", "product_id", "quantity", "unit_price", "total_amount"},
}

// MissingFileError reports input tables absent from the data folder.
type MissingFileError struct {
	Folder string
	Names  []string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing input file(s) in %s: %s", e.Folder, strings.Join(e.Names, ", "))
}

// ParseError pinpoints a malformed cell.
type ParseError struct {
	File   string
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d column %s: invalid value %q: %v", e.File, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the five tables from folder. All files are checked for
// existence before any is parsed. progress, if non-nil, is called with each
// file name before it is read.
func Load(folder string, progress func(name string)) (*Dataset, error) {
	if missing := utils.MissingFiles(folder, Files); len(missing) > 0 {
		return nil, &MissingFileError{Folder: folder, Names: missing}
	}
	ds := &Dataset{}
	for _, name := range Files {
		if progress != nil {
			progress(name)
		}
		err := readTable(filepath.Join(folder, name), func(r *row) {
			switch name {
			case "customers.csv":
				ds.Customers = append(ds.Customers, Customer{
					CustomerID: r.int("customer_id"),
					Name:       r.str("name"),
					Email:      r.str("email"),
					Gender:     r.str("gender"),
					Age:        r.int("age"),
					Location:   r.str("location"),
					JoinDate:   r.date("join_date"),
					Persona:    r.str("persona"),
				})
			case "products.csv":
				ds.Products = append(ds.Products, Product{
					ProductID:   r.str("product_id"),
					SKUID:       r.int("sku_id"),
					ProductCode: r.str("product_code"),
					ProductName: r.str("product_name"),
					Description: r.str("description"),
					Category:    r.str("category"),
					Brand:       r.str("brand"),
					Price:       r.float("price"),
					Rating:      r.float("rating"),
				})
			case "stores.csv":
				ds.Stores = append(ds.Stores, Store{
					StoreID:  r.int("store_id"),
					Location: r.str("location"),
				})
			case "orders.csv":
				ds.Orders = append(ds.Orders, Order{
					OrderID:       r.int("order_id"),
					CustomerID:    r.int("customer_id"),
					StoreID:       r.int("store_id"),
					OrderDate:     r.date("order_date"),
					OrderTime:     r.str("order_time"),
					PaymentMethod: r.str("payment_method"),
				})
			case "lineitems.csv":
				ds.LineItems = append(ds.LineItems, LineItem{
					LineItemID:  r.int("lineitem_id"),
					OrderID:     r.int("order_id"),
					ProductID:   r.str("product_id"),
					SKUID:       r.int("sku_id"),
					Quantity:    r.int("quantity"),
					UnitPrice:   r.float("unit_price"),
					TotalAmount: r.float("total_amount"),
				})
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// row gives typed, header-addressed access to one CSV record. The first
// conversion failure is kept in err; later failures are ignored.
type row struct {
	file string
	n    int
	idx  map[string]int
	rec  []string
	err  error
}

func (r *row) str(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) fail(col, val string, err error) {
	if r.err == nil {
		r.err = &ParseError{File: r.file, Row: r.n, Column: col, Value: val, Err: err}
	}
}

func (r *row) int(col string) int {
	s := r.str(col)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// pandas writes integer columns with gaps as floats, e.g. "12.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			r.fail(col, s, err)
			return 0
		}
		return int(f)
	}
	return v
}

func (r *row) float(col string) float64 {
	s := r.str(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(col, s, err)
		return 0
	}
	return v
}

func (r *row) date(col string) time.Time {
	s := r.str(col)
	if len(s) > len(DateLayout) {
		// tolerate timestamps, keep the calendar date
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		r.fail(col, r.str(col), err)
		return time.Time{}
	}
	return t
}

func readTable(path string, each func(*row)) error {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty file, header expected", name)
		}
		return fmt.Errorf("%s: read header: %w", name, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required[name] {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("%s: missing column %q", name, col)
		}
	}

	r := &row{file: name, idx: idx}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%s: read row %d: %w", name, r.n+1, err)
		}
		r.n++
		r.rec = rec
		each(r)
		if r.err != nil {
			return r.err
		}
	}
}

// Write stores the five tables as CSV files inside folder, creating it if
// needed. Each file is written atomically.
func Write(folder string, ds *Dataset) error {
	if err := utils.EnsureDir(folder); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tables := []struct {
		name   string
		header []string
		rows   func(emit func(...string))
	}{
		{"customers.csv", []string{"customer_id", "name", "email", "gender", "age", "location", "join_date", "persona"}, func(emit func(...string)) {
			for _, c := range ds.Customers {
				emit(itoa(c.CustomerID), c.Name, c.Email, c.Gender, itoa(c.Age), c.Location, c.JoinDate.Format(DateLayout), c.Persona)
			}
		}},
		{"products.csv", []string{"sku_id", "product_id", "product_code", "product_name", "description", "category", "brand", "price", "rating"}, func(emit func(...string)) {
			for _, p := range ds.Products {
				emit(itoa(p.SKUID), p.ProductID, p.ProductCode, p.ProductName, p.Description, p.Category, p.Brand, ftoa(p.Price), ftoa(p.Rating))
			}
		}},
		{"stores.csv", []string{"store_id", "location"}, func(emit func(...string)) {
			for _, s := range ds.Stores {
				emit(itoa(s.StoreID), s.Location)
			}
		}},
		{"orders.csv", []string{"order_id", "customer_id", "store_id", "order_date", "order_time", "payment_method"}, func(emit func(...string)) {
			for _, o := range ds.Orders {
				emit(itoa(o.OrderID), itoa(o.CustomerID), itoa(o.StoreID), o.OrderDate.Format(DateLayout), o.OrderTime, o.PaymentMethod)
			}
		}},
		{"lineitems.csv", []string{"lineitem_id", "order_id", "product_id", "sku_id", "quantity", "unit_price", "total_amount"}, func(emit func(...string)) {
			for _, li := range ds.LineItems {
				emit(itoa(li.LineItemID), itoa(li.OrderID), li.ProductID, itoa(li.SKUID), itoa(li.Quantity), ftoa(li.UnitPrice), ftoa(li.TotalAmount))
			}
		}},
	}

	for _, t := range tables {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.header); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		var werr error
		t.rows(func(fields ...string) {
			if werr == nil {
				werr = w.Write(fields)
			}
		})
		w.Flush()
		if werr == nil {
			werr = w.Error()
		}
		if werr != nil {
			return fmt.Errorf("%s: %w", t.name, werr)
		}
		if err := utils.SafeWriteFile(filepath.Join(folder, t.name), buf.Bytes()); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
