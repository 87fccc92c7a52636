package analysis

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// Basket messages shown in place of the rules summary.
const (
	msgBasketNotEnough = "Not enough data for Market Basket Analysis."
	msgBasketFound     = "Frequent product bundles and association rules found from a data sample."
	msgBasketNoRules   = "No association rules found."
	msgBasketNoSets    = "No frequent product bundles found for current settings."
)

// BasketResult is the outcome of basket mining over an order sample.
type BasketResult struct {
	SampledOrders int
	Itemsets      []Itemset
	Rules         []Rule
}

// SampleBaskets returns the product sets of up to size distinct orders that
// have line items. Orders are drawn with a seeded shuffle when there are more
// than size of them; baskets come back in ascending order id.
func SampleBaskets(ds *dataset.Dataset, size int, seed uint64) [][]string {
	byOrder := map[int][]string{}
	seen := map[int]map[string]bool{}
	var ids []int
	for _, li := range ds.LineItems {
		if _, ok := byOrder[li.OrderID]; !ok {
			ids = append(ids, li.OrderID)
			seen[li.OrderID] = map[string]bool{}
			byOrder[li.OrderID] = nil
		}
		if !seen[li.OrderID][li.ProductID] {
			seen[li.OrderID][li.ProductID] = true
			byOrder[li.OrderID] = append(byOrder[li.OrderID], li.ProductID)
		}
	}
	sort.Ints(ids)
	if size > 0 && len(ids) > size {
		rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		ids = ids[:size]
		sort.Ints(ids)
	}
	out := make([][]string, len(ids))
	for i, id := range ids {
		out[i] = byOrder[id]
	}
	return out
}

// MineBaskets samples orders and derives association rules. A nil result
// with nil error means there were fewer than two orders to sample.
func MineBaskets(ds *dataset.Dataset, opt Options) (*BasketResult, error) {
	baskets := SampleBaskets(ds, opt.BasketSampleSize, opt.Seed)
	if len(baskets) <= 1 {
		return nil, nil
	}
	opt.note(fmt.Sprintf("  (Analyzing a sample of %d orders)", len(baskets)))
	sets := FrequentItemsets(baskets, opt.BasketMinSupport)
	return &BasketResult{
		SampledOrders: len(baskets),
		Itemsets:      sets,
		Rules:         AssociationRules(sets),
	}, nil
}

// MarketBasket mines product bundles from a sample of orders.
func MarketBasket(ds *dataset.Dataset, opt Options) (*Output, error) {
	res, err := MineBaskets(ds, opt)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &Output{Summary: msgBasketNotEnough}, nil
	}
	if len(res.Itemsets) == 0 {
		return &Output{Summary: msgBasketNoSets}, nil
	}
	if len(res.Rules) == 0 {
		return &Output{Summary: msgBasketNoRules}, nil
	}

	names := map[string]string{}
	for _, p := range ds.Products {
		names[p.ProductID] = p.ProductName
	}
	label := func(ids []string) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			if n, ok := names[id]; ok {
				parts[i] = n
			} else {
				parts[i] = id
			}
		}
		return strings.Join(parts, ", ")
	}

	t := Table{Columns: []string{"antecedents", "consequents", "support", "confidence", "lift"}}
	for _, r := range res.Rules {
		if len(t.Rows) == opt.BasketMaxRules {
			break
		}
		t.Rows = append(t.Rows, []string{label(r.Antecedent), label(r.Consequent), ratio(r.Support), ratio(r.Confidence), ratio(r.Lift)})
	}
	t.Title = fmt.Sprintf("Association Rules (top %d)", len(t.Rows))
	return &Output{Summary: msgBasketFound, Tables: []Table{t}}, nil
}
