package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// Suspect is an order flagged by the isolation forest.
type Suspect struct {
	OrderID  int
	Quantity int
	Score    float64
}

// DetectAnomalies scores each order's total quantity and flags those above
// the (1 - contamination) quantile of all scores. Suspects are returned by
// descending score, then order id.
func DetectAnomalies(ds *dataset.Dataset, opt Options) ([]Suspect, error) {
	if len(ds.LineItems) == 0 {
		return nil, &EmptyInputError{Table: "lineitems"}
	}
	qty := map[int]int{}
	var ids []int
	for _, li := range ds.LineItems {
		if _, ok := qty[li.OrderID]; !ok {
			ids = append(ids, li.OrderID)
		}
		qty[li.OrderID] += li.Quantity
	}
	sort.Ints(ids)
	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = float64(qty[id])
	}

	forest := FitIsolationForest(values, opt.FraudTrees, opt.FraudSampleSize, opt.Seed)
	scores := forest.Scores(values)
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	threshold := quantile(sorted, 1-opt.FraudContamination)

	var out []Suspect
	for i, s := range scores {
		if s > threshold {
			out = append(out, Suspect{OrderID: ids[i], Quantity: qty[ids[i]], Score: s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

// FraudDetection flags orders with unusual total quantities.
func FraudDetection(ds *dataset.Dataset, opt Options) (*Output, error) {
	suspects, err := DetectAnomalies(ds, opt)
	if err != nil {
		return nil, err
	}
	t := Table{Title: "Fraudulent Transactions (Sample)", Columns: []string{"order_id", "quantity", "score"}}
	for _, s := range suspects {
		t.Rows = append(t.Rows, []string{strconv.Itoa(s.OrderID), strconv.Itoa(s.Quantity), ratio(s.Score)})
	}
	return &Output{
		Summary: fmt.Sprintf("%d potentially fraudulent orders detected.", len(suspects)),
		Tables:  []Table{t},
	}, nil
}
