// Package synth fabricates self-consistent ecommerce tables from a catalog.
package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/catalog"
	"github.com/KaramelBytes/ecomm-insights/internal/config"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
	"github.com/MonkyMars/gecho"
)

// Params controls table sizes and the simulated calendar.
type Params struct {
	Customers     int
	Products      int
	Stores        int
	OrdersPerDay  int
	ItemsPerOrder int
	From          time.Time
	To            time.Time
}

// DefaultParams mirrors the CLI defaults.
func DefaultParams() Params {
	return Params{
		Customers:     10000,
		Products:      1000,
		Stores:        100,
		OrdersPerDay:  100,
		ItemsPerOrder: 4,
		From:          time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
		To:            time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Validate rejects parameters that cannot produce a consistent dataset.
func (p Params) Validate() error {
	var errs []error
	if p.Customers <= 0 {
		errs = append(errs, fmt.Errorf("customers must be > 0 (got %d)", p.Customers))
	}
	if p.Products <= 0 {
		errs = append(errs, fmt.Errorf("products must be > 0 (got %d)", p.Products))
	}
	if p.Stores <= 0 {
		errs = append(errs, fmt.Errorf("stores must be > 0 (got %d)", p.Stores))
	}
	if p.OrdersPerDay < 0 {
		errs = append(errs, fmt.Errorf("orders-per-day must be >= 0 (got %d)", p.OrdersPerDay))
	}
	if p.ItemsPerOrder < 1 {
		errs = append(errs, fmt.Errorf("items-per-order must be >= 1 (got %d)", p.ItemsPerOrder))
	}
	if p.To.Before(p.From) {
		errs = append(errs, fmt.Errorf("--to %s is before --from %s", p.To.Format(dataset.DateLayout), p.From.Format(dataset.DateLayout)))
	}
	return errors.Join(errs...)
}

// Generator draws every table from a single seeded source, so equal seeds
// and params give equal datasets.
type Generator struct {
	cat  *catalog.Catalog
	rng  *rand.Rand
	seed uint64
	log  *gecho.Logger

	// OnStep, if set, is called before each table is generated.
	OnStep func(table string)
}

// New returns a generator over cat seeded with seed. A nil logger is
// replaced by a quiet one.
func New(cat *catalog.Catalog, seed uint64, log *gecho.Logger) *Generator {
	if log == nil {
		log = config.Discard()
	}
	return &Generator{
		cat:  cat,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
		log:  log,
	}
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() uint64 { return g.seed }

// Generate builds all five tables.
func (g *Generator) Generate(p Params) (*dataset.Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.From = truncateDay(p.From)
	p.To = truncateDay(p.To)

	ds := &dataset.Dataset{}
	start := time.Now()

	g.step("customers")
	ds.Customers = g.customers(p)
	g.step("products")
	ds.Products = g.products(p.Products)
	g.step("stores")
	ds.Stores = g.stores(p.Stores)
	g.step("orders")
	ds.Orders, ds.LineItems = g.orders(p, ds)

	g.log.Debug("dataset generated",
		gecho.Field("customers", len(ds.Customers)),
		gecho.Field("products", len(ds.Products)),
		gecho.Field("orders", len(ds.Orders)),
		gecho.Field("lineitems", len(ds.LineItems)),
		gecho.Field("duration", time.Since(start)),
	)
	return ds, nil
}

func (g *Generator) step(table string) {
	if g.OnStep != nil {
		g.OnStep(table)
	}
}

func (g *Generator) customers(p Params) []dataset.Customer {
	c := g.cat
	ageWeights := make([]float64, len(c.AgeBuckets))
	for i, a := range c.AgeBuckets {
		ageWeights[i] = a.Weight
	}
	tierWeights := make([]float64, len(c.CityTiers))
	for i, t := range c.CityTiers {
		tierWeights[i] = t.Weight
	}
	personaWeights := make([]float64, len(c.Personas))
	for i, ps := range c.Personas {
		personaWeights[i] = ps.Prevalence
	}
	span := daysBetween(p.From, p.To)

	out := make([]dataset.Customer, 0, p.Customers)
	for id := 1; id <= p.Customers; id++ {
		bucket := c.AgeBuckets[pick(g.rng, ageWeights)]
		tier := c.CityTiers[pick(g.rng, tierWeights)]
		first := c.Names.First[g.rng.IntN(len(c.Names.First))]
		last := c.Names.Last[g.rng.IntN(len(c.Names.Last))]
		domain := c.Names.EmailDomains[g.rng.IntN(len(c.Names.EmailDomains))]

		out = append(out, dataset.Customer{
			CustomerID: id,
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), id, domain),
			Gender:     pickValue(g.rng, c.Genders),
			Age:        bucket.Min + g.rng.IntN(bucket.Max-bucket.Min+1),
			Location:   tier.Cities[g.rng.IntN(len(tier.Cities))],
			JoinDate:   p.From.AddDate(0, 0, g.rng.IntN(span+1)),
			Persona:    c.Personas[pick(g.rng, personaWeights)].Name,
		})
	}
	return out
}

// products emits the guaranteed items first, then uniform filler draws with
// replacement until n products exist.
func (g *Generator) products(n int) []dataset.Product {
	c := g.cat
	out := make([]dataset.Product, 0, n)
	add := func(category string, it catalog.Item, rating [2]float64) {
		sku := len(out) + 1
		out = append(out, dataset.Product{
			ProductID:   fmt.Sprintf("P%05d", sku),
			SKUID:       sku,
			ProductCode: fmt.Sprintf("%s-%05d", catalog.CategoryCode(category), sku),
			ProductName: it.ProductName(),
			Description: it.Description,
			Category:    category,
			Brand:       it.Brand,
			Price:       dataset.Round2(g.uniform(it.PriceRange)),
			Rating:      math.Round(g.uniform(rating)*10) / 10,
		})
	}

	for _, ref := range c.Guaranteed {
		if len(out) == n {
			return out
		}
		// Validate guarantees the reference resolves
		it, _ := c.FindItem(ref)
		add(ref.Category, it, c.Ratings.Guaranteed)
	}
	for len(out) < n {
		cat := c.Categories[g.rng.IntN(len(c.Categories))]
		it := cat.Items[g.rng.IntN(len(cat.Items))]
		add(cat.Name, it, c.Ratings.Filler)
	}
	return out
}

func (g *Generator) stores(n int) []dataset.Store {
	cities := g.cat.AllCities()
	out := make([]dataset.Store, 0, n)
	for id := 1; id <= n; id++ {
		out = append(out, dataset.Store{StoreID: id, Location: cities[g.rng.IntN(len(cities))]})
	}
	return out
}

type partner struct {
	productID   string
	probability float64
}

// bundleLinks maps anchor product ids to their co-purchase partner. Bundles
// whose fragments match no generated product are skipped.
func (g *Generator) bundleLinks(products []dataset.Product) map[string]partner {
	find := func(fragment string) (string, bool) {
		for _, p := range products {
			if strings.Contains(p.ProductName, fragment) {
				return p.ProductID, true
			}
		}
		return "", false
	}
	links := make(map[string]partner, len(g.cat.Bundles))
	for _, b := range g.cat.Bundles {
		anchor, ok1 := find(b.Anchor)
		other, ok2 := find(b.Partner)
		if !ok1 || !ok2 {
			g.log.Warn("bundle skipped, product not generated",
				gecho.Field("anchor", b.Anchor), gecho.Field("partner", b.Partner))
			continue
		}
		if _, dup := links[anchor]; dup {
			continue
		}
		links[anchor] = partner{productID: other, probability: b.Probability}
	}
	return links
}

func (g *Generator) orders(p Params, ds *dataset.Dataset) ([]dataset.Order, []dataset.LineItem) {
	c := g.cat
	byCategory := map[string][]*dataset.Product{}
	for i := range ds.Products {
		pr := &ds.Products[i]
		byCategory[pr.Category] = append(byCategory[pr.Category], pr)
	}
	byID := ds.ProductsByID()
	links := g.bundleLinks(ds.Products)

	type prefs struct {
		categories []string
		weights    []float64
	}
	personaPrefs := make(map[string]prefs, len(c.Personas))
	for _, ps := range c.Personas {
		var pr prefs
		for _, w := range ps.CategoryPrefs {
			pr.categories = append(pr.categories, w.Value)
			pr.weights = append(pr.weights, w.Weight)
		}
		personaPrefs[ps.Name] = pr
	}

	var (
		orders    []dataset.Order
		lineitems []dataset.LineItem
		orderID   = 1
		lineID    = 1
		skipped   int
	)
	for day := p.From; !day.After(p.To); day = day.AddDate(0, 0, 1) {
		for k := 0; k < p.OrdersPerDay; k++ {
			cust := &ds.Customers[g.rng.IntN(len(ds.Customers))]
			if day.Before(cust.JoinDate) {
				skipped++
				continue
			}
			store := ds.Stores[g.rng.IntN(len(ds.Stores))]
			pr := personaPrefs[cust.Persona]

			var basket []string
			inBasket := map[string]bool{}
			put := func(id string) {
				if !inBasket[id] {
					inBasket[id] = true
					basket = append(basket, id)
				}
			}
			items := 1 + g.rng.IntN(p.ItemsPerOrder)
			for j := 0; j < items && len(pr.categories) > 0; j++ {
				candidates := byCategory[pr.categories[pick(g.rng, pr.weights)]]
				if len(candidates) == 0 {
					continue
				}
				prod := candidates[g.rng.IntN(len(candidates))]
				put(prod.ProductID)
				if link, ok := links[prod.ProductID]; ok && g.rng.Float64() < link.probability {
					put(link.productID)
				}
			}
			if len(basket) == 0 {
				continue
			}

			orders = append(orders, dataset.Order{
				OrderID:       orderID,
				CustomerID:    cust.CustomerID,
				StoreID:       store.StoreID,
				OrderDate:     day,
				OrderTime:     g.clock(),
				PaymentMethod: pickValue(g.rng, c.PaymentMethods),
			})
			for _, id := range basket {
				prod := byID[id]
				qty := g.quantity(prod.Category)
				lineitems = append(lineitems, dataset.LineItem{
					LineItemID:  lineID,
					OrderID:     orderID,
					ProductID:   prod.ProductID,
					SKUID:       prod.SKUID,
					Quantity:    qty,
					UnitPrice:   prod.Price,
					TotalAmount: dataset.Round2(prod.Price * float64(qty)),
				})
				lineID++
			}
			orderID++
		}
	}
	g.log.Debug("order draws skipped before join date", gecho.Field("count", skipped))
	return orders, lineitems
}

func (g *Generator) quantity(category string) int {
	q := g.cat.Quantities
	r := q.Default
	switch {
	case g.rng.Float64() < q.BulkProbability:
		r = q.Bulk
	case category == q.ElectronicsCategory:
		r = q.Electronics
	}
	return r[0] + g.rng.IntN(r[1]-r[0]+1)
}

func (g *Generator) clock() string {
	s := g.rng.IntN(24 * 60 * 60)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

func (g *Generator) uniform(r [2]float64) float64 {
	return r[0] + g.rng.Float64()*(r[1]-r[0])
}

// pick returns an index drawn proportionally to weights.
func pick(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if x < w {
			return i
		}
		x -= w
		last = i
	}
	return last
}

func pickValue(rng *rand.Rand, opts []catalog.Weighted) string {
	weights := make([]float64, len(opts))
	for i, o := range opts {
		weights[i] = o.Weight
	}
	return opts[pick(rng, weights)].Value
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
