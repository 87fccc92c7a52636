package analysis

import (
	"sort"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// Recommendation is the most purchased product name for a persona.
type Recommendation struct {
	Persona   string
	Product   string
	Purchases int
}

// Recommend joins line items to orders, customers and products and picks, per
// persona, the product name with the most line items. Ties go to the
// lexicographically smallest name. Personas are returned in name order.
func Recommend(ds *dataset.Dataset) ([]Recommendation, error) {
	if len(ds.LineItems) == 0 {
		return nil, &EmptyInputError{Table: "lineitems"}
	}
	orders := ds.OrdersByID()
	customers := ds.CustomersByID()
	products := ds.ProductsByID()

	counts := map[string]map[string]int{}
	for _, li := range ds.LineItems {
		o, ok := orders[li.OrderID]
		if !ok {
			continue
		}
		c, ok := customers[o.CustomerID]
		if !ok {
			continue
		}
		p, ok := products[li.ProductID]
		if !ok {
			continue
		}
		m := counts[c.Persona]
		if m == nil {
			m = map[string]int{}
			counts[c.Persona] = m
		}
		m[p.ProductName]++
	}

	out := make([]Recommendation, 0, len(counts))
	for persona, m := range counts {
		best := Recommendation{Persona: persona}
		for name, n := range m {
			if n > best.Purchases || (n == best.Purchases && name < best.Product) {
				best.Product, best.Purchases = name, n
			}
		}
		out = append(out, best)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Persona < out[j].Persona })
	return out, nil
}

// Personalization recommends one product per customer persona.
func Personalization(ds *dataset.Dataset, _ Options) (*Output, error) {
	recs, err := Recommend(ds)
	if err != nil {
		return nil, err
	}
	t := Table{Title: "Recommendations by Segment", Columns: []string{"Segment", "Top Product"}}
	for _, r := range recs {
		t.Rows = append(t.Rows, []string{r.Persona, r.Product})
	}
	return &Output{
		Summary: "Generated top product recommendation for each customer persona.",
		Tables:  []Table{t},
	}, nil
}
