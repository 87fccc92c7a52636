package analysis

import (
	"sort"
	"strings"
)

// Itemset is a frequent set of item ids with its support fraction.
type Itemset struct {
	Items   []string // ascending
	Count   int
	Support float64
}

// Rule is an association rule Antecedent => Consequent.
type Rule struct {
	Antecedent []string
	Consequent []string
	Support    float64
	Confidence float64
	Lift       float64
}

// FrequentItemsets mines every itemset whose support (fraction of
// transactions containing it) is at least minSupport. It walks item tid-lists
// depth first, intersecting them, so only frequent prefixes are extended.
// Each transaction must list distinct items.
func FrequentItemsets(transactions [][]string, minSupport float64) []Itemset {
	n := len(transactions)
	if n == 0 {
		return nil
	}
	frequent := func(count int) bool { return float64(count)/float64(n) >= minSupport }

	tids := map[string][]int32{}
	for t, items := range transactions {
		for _, it := range items {
			tids[it] = append(tids[it], int32(t))
		}
	}
	type node struct {
		item string
		tids []int32
	}
	var roots []node
	for it, ts := range tids {
		if frequent(len(ts)) {
			roots = append(roots, node{it, ts})
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].item < roots[j].item })

	var out []Itemset
	var walk func(prefix []string, candidates []node)
	walk = func(prefix []string, candidates []node) {
		for i, c := range candidates {
			items := append(append([]string(nil), prefix...), c.item)
			out = append(out, Itemset{Items: items, Count: len(c.tids), Support: float64(len(c.tids)) / float64(n)})

			var next []node
			for _, d := range candidates[i+1:] {
				ts := intersect(c.tids, d.tids)
				if frequent(len(ts)) {
					next = append(next, node{d.item, ts})
				}
			}
			if len(next) > 0 {
				walk(items, next)
			}
		}
	}
	walk(nil, roots)
	return out
}

// intersect merges two ascending tid-lists.
func intersect(a, b []int32) []int32 {
	out := make([]int32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// AssociationRules derives a rule for every split of each frequent itemset
// into non-empty antecedent and consequent, with no confidence floor. Rules
// are ordered by confidence, then support, descending.
func AssociationRules(sets []Itemset) []Rule {
	support := make(map[string]float64, len(sets))
	for _, s := range sets {
		support[itemKey(s.Items)] = s.Support
	}
	var rules []Rule
	for _, s := range sets {
		k := len(s.Items)
		if k < 2 {
			continue
		}
		// every non-empty proper subset as antecedent
		for mask := 1; mask < (1<<k)-1; mask++ {
			var ante, cons []string
			for b := 0; b < k; b++ {
				if mask&(1<<b) != 0 {
					ante = append(ante, s.Items[b])
				} else {
					cons = append(cons, s.Items[b])
				}
			}
			sa, okA := support[itemKey(ante)]
			sc, okC := support[itemKey(cons)]
			if !okA || !okC || sa == 0 || sc == 0 {
				continue
			}
			conf := s.Support / sa
			rules = append(rules, Rule{
				Antecedent: ante,
				Consequent: cons,
				Support:    s.Support,
				Confidence: conf,
				Lift:       conf / sc,
			})
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if ka, kb := itemKey(a.Antecedent), itemKey(b.Antecedent); ka != kb {
			return ka < kb
		}
		return itemKey(a.Consequent) < itemKey(b.Consequent)
	})
	return rules
}

func itemKey(items []string) string { return strings.Join(items, "\x00") }
