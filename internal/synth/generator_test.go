package synth

import (
	"testing"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/catalog"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams() Params {
	return Params{
		Customers:     200,
		Products:      60,
		Stores:        10,
		OrdersPerDay:  20,
		ItemsPerOrder: 4,
		From:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:            time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func generate(t *testing.T, seed uint64, p Params) *dataset.Dataset {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	ds, err := New(cat, seed, nil).Generate(p)
	require.NoError(t, err)
	return ds
}

func TestGeneratedDatasetHoldsInvariants(t *testing.T) {
	ds := generate(t, 1, smallParams())

	require.NotEmpty(t, ds.Orders)
	require.NotEmpty(t, ds.LineItems)
	assert.Len(t, ds.Customers, 200)
	assert.Len(t, ds.Products, 60)
	assert.Len(t, ds.Stores, 10)

	// covers join dates, totals, keys and references
	require.NoError(t, dataset.Validate(ds))

	customers := ds.CustomersByID()
	for _, o := range ds.Orders {
		c := customers[o.CustomerID]
		assert.False(t, o.OrderDate.Before(c.JoinDate), "order %d", o.OrderID)
	}
	for _, li := range ds.LineItems {
		assert.Equal(t, dataset.Round2(li.UnitPrice*float64(li.Quantity)), li.TotalAmount)
	}
}

func TestSameSeedSameDataset(t *testing.T) {
	a := generate(t, 99, smallParams())
	b := generate(t, 99, smallParams())
	assert.Equal(t, a, b)

	c := generate(t, 100, smallParams())
	assert.NotEqual(t, a.LineItems, c.LineItems)
}

func TestGuaranteedProductsComeFirst(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	ds := generate(t, 5, smallParams())

	for i, ref := range cat.Guaranteed {
		it, ok := cat.FindItem(ref)
		require.True(t, ok)
		p := ds.Products[i]
		assert.Equal(t, it.ProductName(), p.ProductName)
		assert.Equal(t, ref.Category, p.Category)
		assert.GreaterOrEqual(t, p.Price, it.PriceRange[0])
		assert.LessOrEqual(t, p.Price, it.PriceRange[1])
		assert.GreaterOrEqual(t, p.Rating, 3.8)
		assert.LessOrEqual(t, p.Rating, 5.0)
	}
	assert.Equal(t, "P00001", ds.Products[0].ProductID)
	assert.Equal(t, "EL-00001", ds.Products[0].ProductCode)
	assert.Equal(t, 1, ds.Products[0].SKUID)
}

func TestProductsTruncateGuaranteedList(t *testing.T) {
	p := smallParams()
	p.Products = 3
	p.OrdersPerDay = 5
	ds := generate(t, 2, p)
	require.Len(t, ds.Products, 3)
	for _, li := range ds.LineItems {
		assert.Contains(t, []string{"P00001", "P00002", "P00003"}, li.ProductID)
	}
	require.NoError(t, dataset.Validate(ds))
}

func TestQuantityBounds(t *testing.T) {
	ds := generate(t, 11, smallParams())
	products := ds.ProductsByID()
	for _, li := range ds.LineItems {
		q := li.Quantity
		if q >= 50 {
			assert.LessOrEqual(t, q, 100)
			continue
		}
		if products[li.ProductID].Category == "Electronics" {
			assert.True(t, q >= 1 && q <= 2, "electronics qty %d", q)
		} else {
			assert.True(t, q >= 1 && q <= 5, "qty %d", q)
		}
	}
}

func TestCustomersFollowCatalog(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	ds := generate(t, 3, smallParams())

	cities := map[string]bool{}
	for _, c := range cat.AllCities() {
		cities[c] = true
	}
	for _, c := range ds.Customers {
		assert.True(t, c.Age >= 18 && c.Age <= 75, "age %d", c.Age)
		assert.True(t, cities[c.Location], c.Location)
		_, ok := cat.Persona(c.Persona)
		assert.True(t, ok, c.Persona)
		assert.Contains(t, []string{"Female", "Male"}, c.Gender)
		assert.Contains(t, c.Email, "@")
	}
	for _, s := range ds.Stores {
		assert.True(t, cities[s.Location], s.Location)
	}
}

func TestOrdersAreNeverEmpty(t *testing.T) {
	ds := generate(t, 8, smallParams())
	counts := map[int]int{}
	for _, li := range ds.LineItems {
		counts[li.OrderID]++
	}
	for _, o := range ds.Orders {
		assert.Positive(t, counts[o.OrderID], "order %d has no line items", o.OrderID)
	}
}

func TestBundlesSkippedWhenProductMissing(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	g := New(cat, 1, nil)
	// only the first two guaranteed items: iPhone and its power adapter
	links := g.bundleLinks(g.products(2))
	require.Len(t, links, 1)
	assert.Equal(t, "P00002", links["P00001"].productID)
	assert.InDelta(t, 0.70, links["P00001"].probability, 1e-9)
}

func TestParamsValidate(t *testing.T) {
	p := smallParams()
	p.Customers = 0
	p.ItemsPerOrder = 0
	p.To = p.From.AddDate(0, 0, -1)
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customers must be > 0")
	assert.Contains(t, err.Error(), "items-per-order")
	assert.Contains(t, err.Error(), "is before")
}

func TestPickHonoursZeroWeights(t *testing.T) {
	g := New(&catalog.Catalog{}, 4, nil)
	for i := 0; i < 1000; i++ {
		idx := pick(g.rng, []float64{0, 1, 0})
		require.Equal(t, 1, idx)
	}
}
