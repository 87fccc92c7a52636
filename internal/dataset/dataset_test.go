package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

func day(s string) time.Time {
	t, err := time.Parse(dataset.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sample() *dataset.Dataset {
	return &dataset.Dataset{
		Customers: []dataset.Customer{
			{CustomerID: 1, Name: "Asha Rao", Email: "asha@example.com", Gender: "Female", Age: 30, Location: "Mumbai", JoinDate: day("2024-01-01"), Persona: "Fashionista"},
			{CustomerID: 2, Name: "Ravi Nair", Email: "ravi@example.com", Gender: "Male", Age: 45, Location: "Delhi", JoinDate: day("2024-01-02"), Persona: "Tech Enthusiast"},
		},
		Products: []dataset.Product{
			{ProductID: "P00001", SKUID: 1, ProductCode: "EL-00001", ProductName: "HP Ink Cartridge", Description: "Black, High-yield", Category: "Electronics", Brand: "HP", Price: 999.5, Rating: 4.2},
			{ProductID: "P00002", SKUID: 2, ProductCode: "FA-00002", ProductName: "Manyavar Pajama Set", Description: "Regal color, \"rich\" look", Category: "Fashion", Brand: "Manyavar", Price: 1200, Rating: 3.9},
		},
		Stores: []dataset.Store{{StoreID: 1, Location: "Mumbai"}},
		Orders: []dataset.Order{
			{OrderID: 1, CustomerID: 1, StoreID: 1, OrderDate: day("2024-01-03"), OrderTime: "10:15:00", PaymentMethod: "UPI"},
			{OrderID: 2, CustomerID: 2, StoreID: 1, OrderDate: day("2024-01-04"), OrderTime: "18:40:09", PaymentMethod: "Cash on Delivery"},
		},
		LineItems: []dataset.LineItem{
			{LineItemID: 1, OrderID: 1, ProductID: "P00002", SKUID: 2, Quantity: 3, UnitPrice: 1200, TotalAmount: 3600},
			{LineItemID: 2, OrderID: 2, ProductID: "P00001", SKUID: 1, Quantity: 2, UnitPrice: 999.5, TotalAmount: 1999},
		},
	}
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	ds := sample()
	if err := dataset.Write(dir, ds); err != nil {
		t.Fatalf("write: %v", err)
	}
	var seen []string
	got, err := dataset.Load(dir, func(name string) { seen = append(seen, name) })
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(seen) != len(dataset.Files) {
		t.Fatalf("progress calls: %v", seen)
	}
	if len(got.Customers) != 2 || len(got.Products) != 2 || len(got.Orders) != 2 || len(got.LineItems) != 2 || len(got.Stores) != 1 {
		t.Fatalf("unexpected counts: %v", got.Counts())
	}
	if got.Products[1].Description != ds.Products[1].Description {
		t.Fatalf("quoted description mangled: %q", got.Products[1].Description)
	}
	if !got.Customers[1].JoinDate.Equal(ds.Customers[1].JoinDate) {
		t.Fatalf("join date: %v", got.Customers[1].JoinDate)
	}
	if got.LineItems[1].UnitPrice != 999.5 || got.LineItems[1].TotalAmount != 1999 {
		t.Fatalf("line item amounts: %+v", got.LineItems[1])
	}
	if err := dataset.Validate(got); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadReportsAllMissingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "customers.csv"), []byte("customer_id\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := dataset.Load(dir, nil)
	var mfe *dataset.MissingFileError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFileError, got %v", err)
	}
	if len(mfe.Names) != 4 || mfe.Names[0] != "products.csv" {
		t.Fatalf("missing names: %v", mfe.Names)
	}
}

func TestLoadHeaderOrderAndBOM(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.Write(dir, sample()); err != nil {
		t.Fatal(err)
	}
	// reorder columns, add an unknown one, prefix a BOM
	stores := "\ufefflocation,extra,store_id\nPune,x,7\n"
	if err := os.WriteFile(filepath.Join(dir, "stores.csv"), []byte(stores), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := dataset.Load(dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ds.Stores) != 1 || ds.Stores[0].StoreID != 7 || ds.Stores[0].Location != "Pune" {
		t.Fatalf("stores: %+v", ds.Stores)
	}
}

func TestLoadParseErrorNamesCell(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.Write(dir, sample()); err != nil {
		t.Fatal(err)
	}
	bad := "order_id,customer_id,store_id,order_date,payment_method\n1,1,1,2024-01-03,UPI\n2,two,1,2024-01-04,UPI\n"
	if err := os.WriteFile(filepath.Join(dir, "orders.csv"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := dataset.Load(dir, nil)
	var pe *dataset.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.File != "orders.csv" || pe.Row != 2 || pe.Column != "customer_id" {
		t.Fatalf("parse error location: %+v", pe)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.Write(dir, sample()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stores.csv"), []byte("store_id\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := dataset.Load(dir, nil)
	if err == nil || !strings.Contains(err.Error(), `missing column "location"`) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestValidateFindsViolations(t *testing.T) {
	ds := sample()
	ds.Orders[0].OrderDate = day("2023-12-31")
	ds.LineItems[0].TotalAmount = 3599.99
	ds.LineItems[1].ProductID = "P09999"

	err := dataset.Validate(ds)
	if err == nil {
		t.Fatalf("expected violations")
	}
	msg := err.Error()
	for _, want := range []string{"precedes customer 1 join date", "total 3599.99, want 3600.00", "unknown product P09999"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in %q", want, msg)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{1234.5678: 1234.57, 0.125: 0.13, 10: 10, -3.14159: -3.14}
	for in, want := range cases {
		if got := dataset.Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestManifestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	m := dataset.NewManifest(7, map[string]any{"customers": 2}, sample())
	if m.RunID == "" {
		t.Fatalf("run id not set")
	}
	if err := m.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := dataset.LoadManifest(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.RunID != m.RunID || got.Seed != 7 || got.Counts["lineitems"] != 2 {
		t.Fatalf("manifest mismatch: %+v", got)
	}
}
