package analysis

import (
	"fmt"

	"github.com/KaramelBytes/ecomm-insights/internal/chart"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// ProductRanking lists quantities sold per product name.
type ProductRanking struct {
	Top    []Ranked
	Bottom []Ranked
}

// RankProducts sums quantity per product name. Products sharing a name
// (filler draws of the same catalog item) are aggregated together.
func RankProducts(ds *dataset.Dataset, n int) (*ProductRanking, error) {
	if len(ds.LineItems) == 0 {
		return nil, &EmptyInputError{Table: "lineitems"}
	}
	products := ds.ProductsByID()
	qty := newTally()
	for _, li := range ds.LineItems {
		if p, ok := products[li.ProductID]; ok {
			qty.add(p.ProductName, float64(li.Quantity))
		}
	}
	if qty.len() == 0 {
		return nil, fmt.Errorf("no line items reference known products")
	}
	return &ProductRanking{Top: limit(qty.desc(), n), Bottom: limit(qty.asc(), n)}, nil
}

// ProductPerformance charts bestsellers and lists slow movers.
func ProductPerformance(ds *dataset.Dataset, opt Options) (*Output, error) {
	rank, err := RankProducts(ds, opt.TopN)
	if err != nil {
		return nil, err
	}
	labels, values := seriesOf(rank.Top)
	img, err := chart.Bar(chart.Series{
		Title:  fmt.Sprintf("Top %d Bestselling Products", opt.TopN),
		YLabel: "Quantity",
		Labels: labels,
		Values: values,
	}, chart.Size{WidthIn: opt.ChartWidthIn, HeightIn: opt.ChartHeightIn})
	if err != nil {
		return nil, fmt.Errorf("bestseller chart: %w", err)
	}
	return &Output{
		Summary: fmt.Sprintf("Top %d bestsellers and bottom %d slow movers visualized, aggregated by product name.", opt.TopN, opt.TopN),
		Chart:   img,
		Tables: []Table{
			countTable(fmt.Sprintf("Top %d Products", opt.TopN), "product_name", "quantity", rank.Top),
			countTable(fmt.Sprintf("Bottom %d Products", opt.TopN), "product_name", "quantity", rank.Bottom),
		},
	}, nil
}
