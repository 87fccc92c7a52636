package analysis

import (
	"sort"
	"strconv"
)

// tally counts or sums values per key and ranks them.
type tally struct {
	vals map[string]float64
}

// Ranked is one aggregated key with its value.
type Ranked struct {
	Key   string
	Value float64
}

func newTally() *tally { return &tally{vals: map[string]float64{}} }

func (t *tally) add(key string, v float64) { t.vals[key] += v }

func (t *tally) len() int { return len(t.vals) }

// countBy counts occurrences of key(i) for i in [0,n).
func countBy(n int, key func(i int) string) *tally {
	t := newTally()
	for i := 0; i < n; i++ {
		t.add(key(i), 1)
	}
	return t
}

// desc ranks by value descending, key ascending on ties.
func (t *tally) desc() []Ranked {
	out := t.entries()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// asc ranks by value ascending, key ascending on ties.
func (t *tally) asc() []Ranked {
	out := t.entries()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// byKey ranks by key ascending.
func (t *tally) byKey() []Ranked {
	out := t.entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (t *tally) entries() []Ranked {
	out := make([]Ranked, 0, len(t.vals))
	for k, v := range t.vals {
		out = append(out, Ranked{Key: k, Value: v})
	}
	return out
}

// series returns the top n (all when n <= 0) descending as chart input.
func (t *tally) series(n int) ([]string, []float64) {
	return seriesOf(limit(t.desc(), n))
}

// table renders the top n descending entries.
func (t *tally) table(title, keyCol, valCol string, n int) Table {
	return countTable(title, keyCol, valCol, limit(t.desc(), n))
}

func countTable(title, keyCol, valCol string, rs []Ranked) Table {
	tb := Table{Title: title, Columns: []string{keyCol, valCol}}
	for _, r := range rs {
		tb.Rows = append(tb.Rows, []string{r.Key, strconv.FormatFloat(r.Value, 'f', -1, 64)})
	}
	return tb
}

func seriesOf(rs []Ranked) ([]string, []float64) {
	labels := make([]string, len(rs))
	values := make([]float64, len(rs))
	for i, r := range rs {
		labels[i], values[i] = r.Key, r.Value
	}
	return labels, values
}

func limit(rs []Ranked, n int) []Ranked {
	if n > 0 && len(rs) > n {
		return rs[:n]
	}
	return rs
}
