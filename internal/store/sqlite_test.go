package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *dataset.Dataset {
	join := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &dataset.Dataset{
		Customers: []dataset.Customer{
			{CustomerID: 1, Name: "Asha Rao", Gender: "Female", Age: 30, Location: "Mumbai", JoinDate: join, Persona: "Fashionista"},
			{CustomerID: 2, Name: "Ravi Nair", Gender: "Male", Age: 52, Location: "Delhi", JoinDate: join.AddDate(0, 0, 1), Persona: "Family Shopper"},
		},
		Products: []dataset.Product{
			{ProductID: "P00001", SKUID: 1, ProductCode: "FA-00001", ProductName: "Manyavar Pajama Set", Category: "Fashion", Brand: "Manyavar", Price: 1200.5, Rating: 4.1},
		},
		Stores: []dataset.Store{{StoreID: 1, Location: "Delhi"}},
		Orders: []dataset.Order{
			{OrderID: 1, CustomerID: 2, StoreID: 1, OrderDate: join.AddDate(0, 0, 3), OrderTime: "09:00:00", PaymentMethod: "UPI"},
		},
		LineItems: []dataset.LineItem{
			{LineItemID: 1, OrderID: 1, ProductID: "P00001", SKUID: 1, Quantity: 2, UnitPrice: 1200.5, TotalAmount: 2401},
		},
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecomm.db")
	want := fixture()
	require.NoError(t, Export(path, want))

	got, err := Import(path)
	require.NoError(t, err)
	assert.Equal(t, want.Counts(), got.Counts())

	require.Len(t, got.Customers, 2)
	assert.Equal(t, "Ravi Nair", got.Customers[1].Name)
	assert.Equal(t, "2024-01-02", got.Customers[1].JoinDate.Format(dataset.DateLayout))
	assert.Equal(t, "2024-01-04", got.Orders[0].OrderDate.Format(dataset.DateLayout))
	assert.Equal(t, want.Products[0], got.Products[0])
	assert.Equal(t, want.LineItems[0], got.LineItems[0])
	assert.NoError(t, dataset.Validate(got))
}

func TestExportReplacesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecomm.db")
	require.NoError(t, Export(path, fixture()))

	smaller := fixture()
	smaller.Customers = smaller.Customers[1:]
	smaller.LineItems = nil
	require.NoError(t, Export(path, smaller))

	got, err := Import(path)
	require.NoError(t, err)
	assert.Len(t, got.Customers, 1)
	assert.Empty(t, got.LineItems)
}
