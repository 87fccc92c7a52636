package dataset

import (
	"errors"
	"fmt"
	"math"
)

// maxViolations caps how many problems Validate reports.
const maxViolations = 20

// Validate checks key uniqueness, referential integrity, order dates against
// customer join dates and line item totals.
func Validate(ds *Dataset) error {
	var errs []error
	add := func(format string, args ...any) {
		if len(errs) < maxViolations {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	customers := make(map[int]*Customer, len(ds.Customers))
	for i := range ds.Customers {
		c := &ds.Customers[i]
		if _, dup := customers[c.CustomerID]; dup {
			add("customers: duplicate customer_id %d", c.CustomerID)
		}
		customers[c.CustomerID] = c
	}
	products := make(map[string]struct{}, len(ds.Products))
	for _, p := range ds.Products {
		if _, dup := products[p.ProductID]; dup {
			add("products: duplicate product_id %s", p.ProductID)
		}
		products[p.ProductID] = struct{}{}
	}
	stores := make(map[int]struct{}, len(ds.Stores))
	for _, s := range ds.Stores {
		if _, dup := stores[s.StoreID]; dup {
			add("stores: duplicate store_id %d", s.StoreID)
		}
		stores[s.StoreID] = struct{}{}
	}

	orders := make(map[int]struct{}, len(ds.Orders))
	for _, o := range ds.Orders {
		if _, dup := orders[o.OrderID]; dup {
			add("orders: duplicate order_id %d", o.OrderID)
		}
		orders[o.OrderID] = struct{}{}
		c, ok := customers[o.CustomerID]
		if !ok {
			add("orders: order %d references unknown customer %d", o.OrderID, o.CustomerID)
		} else if o.OrderDate.Before(c.JoinDate) {
			add("orders: order %d dated %s precedes customer %d join date %s",
				o.OrderID, o.OrderDate.Format(DateLayout), c.CustomerID, c.JoinDate.Format(DateLayout))
		}
		if _, ok := stores[o.StoreID]; !ok {
			add("orders: order %d references unknown store %d", o.OrderID, o.StoreID)
		}
	}

	lineitems := make(map[int]struct{}, len(ds.LineItems))
	for _, li := range ds.LineItems {
		if _, dup := lineitems[li.LineItemID]; dup {
			add("lineitems: duplicate lineitem_id %d", li.LineItemID)
		}
		lineitems[li.LineItemID] = struct{}{}
		if _, ok := orders[li.OrderID]; !ok {
			add("lineitems: line item %d references unknown order %d", li.LineItemID, li.OrderID)
		}
		if _, ok := products[li.ProductID]; !ok {
			add("lineitems: line item %d references unknown product %s", li.LineItemID, li.ProductID)
		}
		if want := Round2(li.UnitPrice * float64(li.Quantity)); math.Abs(li.TotalAmount-want) > 1e-9 {
			add("lineitems: line item %d total %.2f, want %.2f", li.LineItemID, li.TotalAmount, want)
		}
	}
	return errors.Join(errs...)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
