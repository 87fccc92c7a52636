// Package dataset defines the five ecommerce tables and their CSV form.
package dataset

import "time"

// DateLayout is the on-disk format for join and order dates.
const DateLayout = "2006-01-02"

type Customer struct {
	CustomerID int       `gorm:"primaryKey;autoIncrement:false"`
	Name       string
	Email      string
	Gender     string
	Age        int
	Location   string    `gorm:"index"`
	JoinDate   time.Time `gorm:"type:date"`
	Persona    string
}

type Product struct {
	ProductID   string `gorm:"primaryKey"`
	SKUID       int    `gorm:"column:sku_id"`
	ProductCode string
	ProductName string
	Description string
	Category    string `gorm:"index"`
	Brand       string
	Price       float64
	Rating      float64
}

type Store struct {
	StoreID  int `gorm:"primaryKey;autoIncrement:false"`
	Location string
}

type Order struct {
	OrderID       int       `gorm:"primaryKey;autoIncrement:false"`
	CustomerID    int       `gorm:"index"`
	StoreID       int
	OrderDate     time.Time `gorm:"type:date"`
	OrderTime     string
	PaymentMethod string
}

type LineItem struct {
	LineItemID  int    `gorm:"column:lineitem_id;primaryKey;autoIncrement:false"`
	OrderID     int    `gorm:"index"`
	ProductID   string `gorm:"index"`
	SKUID       int    `gorm:"column:sku_id"`
	Quantity    int
	UnitPrice   float64
	TotalAmount float64
}

// TableName keeps the table name aligned with lineitems.csv.
func (LineItem) TableName() string { return "lineitems" }

// Dataset is the full set of input tables. It is treated as read-only once
// generated or loaded.
type Dataset struct {
	Customers []Customer
	Products  []Product
	Stores    []Store
	Orders    []Order
	LineItems []LineItem
}

// Counts reports row counts keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"customers": len(d.Customers),
		"products":  len(d.Products),
		"stores":    len(d.Stores),
		"orders":    len(d.Orders),
		"lineitems": len(d.LineItems),
	}
}

func (d *Dataset) CustomersByID() map[int]*Customer {
	m := make(map[int]*Customer, len(d.Customers))
	for i := range d.Customers {
		m[d.Customers[i].CustomerID] = &d.Customers[i]
	}
	return m
}

func (d *Dataset) ProductsByID() map[string]*Product {
	m := make(map[string]*Product, len(d.Products))
	for i := range d.Products {
		m[d.Products[i].ProductID] = &d.Products[i]
	}
	return m
}

func (d *Dataset) OrdersByID() map[int]*Order {
	m := make(map[int]*Order, len(d.Orders))
	for i := range d.Orders {
		m[d.Orders[i].OrderID] = &d.Orders[i]
	}
	return m
}

func (d *Dataset) StoresByID() map[int]*Store {
	m := make(map[int]*Store, len(d.Stores))
	for i := range d.Stores {
		m[d.Stores[i].StoreID] = &d.Stores[i]
	}
	return m
}
