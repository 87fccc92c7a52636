package analysis

import (
	"fmt"

	"github.com/KaramelBytes/ecomm-insights/internal/chart"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// OrdersByLocation counts orders per customer location, descending with
// names ascending on ties.
func OrdersByLocation(ds *dataset.Dataset) ([]Ranked, error) {
	if len(ds.Orders) == 0 {
		return nil, &EmptyInputError{Table: "orders"}
	}
	customers := ds.CustomersByID()
	t := newTally()
	for _, o := range ds.Orders {
		if c, ok := customers[o.CustomerID]; ok {
			t.add(c.Location, 1)
		}
	}
	if t.len() == 0 {
		return nil, fmt.Errorf("no orders reference known customers")
	}
	return t.desc(), nil
}

// OrdersByStore counts orders per store location, descending with names
// ascending on ties. Orders at unknown stores are skipped.
func OrdersByStore(ds *dataset.Dataset) []Ranked {
	stores := ds.StoresByID()
	t := newTally()
	for _, o := range ds.Orders {
		if s, ok := stores[o.StoreID]; ok {
			t.add(s.Location, 1)
		}
	}
	return t.desc()
}

// GeoBreakdown charts the cities with the most orders.
func GeoBreakdown(ds *dataset.Dataset, opt Options) (*Output, error) {
	locs, err := OrdersByLocation(ds)
	if err != nil {
		return nil, err
	}
	top := limit(locs, opt.TopN)
	labels, values := seriesOf(top)
	img, err := chart.HBar(chart.Series{
		Title:  "Order Volume by City",
		XLabel: "Orders",
		Labels: labels,
		Values: values,
	}, chart.Size{WidthIn: opt.ChartWidthIn, HeightIn: opt.ChartHeightIn})
	if err != nil {
		return nil, fmt.Errorf("city chart: %w", err)
	}
	return &Output{
		Summary: fmt.Sprintf("Top %d high-volume sales cities highlighted.", opt.TopN),
		Chart:   img,
		Tables: []Table{
			countTable("Top Cities by Order Volume", "location", "orders", top),
			countTable("Top Store Locations by Order Volume", "store_location", "orders", limit(OrdersByStore(ds), opt.TopN)),
		},
	}, nil
}
