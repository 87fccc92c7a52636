package analysis

import (
	"fmt"

	"github.com/KaramelBytes/ecomm-insights/internal/chart"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// Revenue holds the two revenue breakdowns. Line items whose order or
// product is unknown are left out of both.
type Revenue struct {
	ByCategory []Ranked // descending
	ByMonth    []Ranked // YYYY-MM ascending
	Total      float64
}

// ComputeRevenue sums line item totals per product category and per order month.
func ComputeRevenue(ds *dataset.Dataset) (*Revenue, error) {
	if len(ds.LineItems) == 0 {
		return nil, &EmptyInputError{Table: "lineitems"}
	}
	products := ds.ProductsByID()
	orders := ds.OrdersByID()
	cat, month := newTally(), newTally()
	var total float64
	for _, li := range ds.LineItems {
		p, ok := products[li.ProductID]
		if !ok {
			continue
		}
		o, ok := orders[li.OrderID]
		if !ok {
			continue
		}
		cat.add(p.Category, li.TotalAmount)
		month.add(o.OrderDate.Format("2006-01"), li.TotalAmount)
		total += li.TotalAmount
	}
	if cat.len() == 0 {
		return nil, fmt.Errorf("no line items join to known orders and products")
	}
	return &Revenue{ByCategory: cat.desc(), ByMonth: month.byKey(), Total: total}, nil
}

// SalesTrends reports revenue by category and by calendar month.
func SalesTrends(ds *dataset.Dataset, opt Options) (*Output, error) {
	rev, err := ComputeRevenue(ds)
	if err != nil {
		return nil, err
	}
	labels, values := seriesOf(rev.ByCategory)
	img, err := chart.Bar(chart.Series{
		Title:  "Revenue by Product Category",
		YLabel: "Revenue",
		Labels: labels,
		Values: values,
	}, chart.Size{WidthIn: opt.ChartWidthIn, HeightIn: opt.ChartHeightIn})
	if err != nil {
		return nil, fmt.Errorf("category chart: %w", err)
	}
	trend, err := MonthlyTrendChart(rev, opt)
	if err != nil {
		return nil, fmt.Errorf("monthly trend chart: %w", err)
	}

	return &Output{
		Summary: "Revenue by product category and monthly trends shown.",
		Chart:   img,
		Tables: []Table{
			revenueTable("Revenue by Product Category", "category", rev.ByCategory),
			revenueTable("Monthly Sales", "Month", rev.ByMonth),
		},
		Figures: []Figure{{Title: "Monthly Revenue Trend", PNG: trend}},
	}, nil
}

// MonthlyTrendChart renders the monthly revenue line. SalesTrends keeps it
// as a figure; the report page carries only the category chart.
func MonthlyTrendChart(rev *Revenue, opt Options) ([]byte, error) {
	labels, values := seriesOf(rev.ByMonth)
	return chart.Line(chart.Series{
		Title:  "Monthly Revenue Trend",
		XLabel: "Month",
		Labels: labels,
		Values: values,
	}, chart.Size{WidthIn: opt.ChartWidthIn, HeightIn: opt.ChartHeightIn})
}

func revenueTable(title, keyCol string, rs []Ranked) Table {
	t := Table{Title: title, Columns: []string{keyCol, "total_amount"}}
	for _, r := range rs {
		t.Rows = append(t.Rows, []string{r.Key, money(r.Value)})
	}
	return t
}
