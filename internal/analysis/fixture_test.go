package analysis

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// builder assembles small hand-made datasets for stage tests.
type builder struct {
	ds      dataset.Dataset
	orderID int
	lineID  int
}

func newBuilder() *builder {
	b := &builder{}
	b.ds.Stores = []dataset.Store{{StoreID: 1, Location: "Mumbai"}}
	return b
}

func date(s string) time.Time {
	t, err := time.Parse(dataset.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (b *builder) customer(id int, gender, location, persona, joined string) *builder {
	b.ds.Customers = append(b.ds.Customers, dataset.Customer{
		CustomerID: id, Name: fmt.Sprintf("Customer %d", id), Gender: gender, Age: 30,
		Location: location, JoinDate: date(joined), Persona: persona,
	})
	return b
}

func (b *builder) product(id, name, category string, price float64) *builder {
	b.ds.Products = append(b.ds.Products, dataset.Product{
		ProductID: id, ProductName: name, Category: category, Brand: "Acme", Price: price, Rating: 4,
	})
	return b
}

// order adds an order with one line item per product id, quantity qty each.
func (b *builder) order(customer int, day string, qty int, productIDs ...string) int {
	b.orderID++
	b.ds.Orders = append(b.ds.Orders, dataset.Order{
		OrderID: b.orderID, CustomerID: customer, StoreID: 1, OrderDate: date(day), OrderTime: "12:00:00", PaymentMethod: "UPI",
	})
	for _, pid := range productIDs {
		price := 0.0
		for _, p := range b.ds.Products {
			if p.ProductID == pid {
				price = p.Price
			}
		}
		b.lineID++
		b.ds.LineItems = append(b.ds.LineItems, dataset.LineItem{
			LineItemID: b.lineID, OrderID: b.orderID, ProductID: pid, Quantity: qty,
			UnitPrice: price, TotalAmount: dataset.Round2(price * float64(qty)),
		})
	}
	return b.orderID
}

func (b *builder) build() *dataset.Dataset {
	ds := b.ds
	return &ds
}

func testOptions() Options {
	o := DefaultOptions()
	o.ChartWidthIn, o.ChartHeightIn = 4, 2
	return o
}
