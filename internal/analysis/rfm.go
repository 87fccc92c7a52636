package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/chart"
	"github.com/KaramelBytes/ecomm-insights/internal/dataset"
)

// RFMRow scores one ordering customer.
type RFMRow struct {
	CustomerID int
	Recency    int // days since the customer's last order, relative to the latest order overall
	Frequency  int
	Monetary   float64
	R, F, M    int
	Segment    string
}

// HighValue reports the top segment in all three measures.
func (r RFMRow) HighValue() bool { return r.Segment == "444" }

// AtRisk reports the worst recency bucket.
func (r RFMRow) AtRisk() bool { return r.R == 1 }

// ComputeRFM scores every customer with at least one order, ordered by
// customer id. Customers whose orders carry no line items have Monetary 0.
func ComputeRFM(ds *dataset.Dataset) ([]RFMRow, error) {
	if len(ds.Orders) == 0 {
		return nil, &EmptyInputError{Table: "orders"}
	}
	type acc struct {
		last   time.Time
		orders int
		spend  float64
	}
	var latest time.Time
	byCustomer := map[int]*acc{}
	orderOwner := make(map[int]int, len(ds.Orders))
	for _, o := range ds.Orders {
		a := byCustomer[o.CustomerID]
		if a == nil {
			a = &acc{}
			byCustomer[o.CustomerID] = a
		}
		a.orders++
		if o.OrderDate.After(a.last) {
			a.last = o.OrderDate
		}
		if o.OrderDate.After(latest) {
			latest = o.OrderDate
		}
		orderOwner[o.OrderID] = o.CustomerID
	}
	for _, li := range ds.LineItems {
		if cid, ok := orderOwner[li.OrderID]; ok {
			byCustomer[cid].spend += li.TotalAmount
		}
	}

	ids := make([]int, 0, len(byCustomer))
	for id := range byCustomer {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rows := make([]RFMRow, len(ids))
	rec := make([]float64, len(ids))
	freq := make([]float64, len(ids))
	mon := make([]float64, len(ids))
	for i, id := range ids {
		a := byCustomer[id]
		days := int(latest.Sub(a.last).Hours() / 24)
		rows[i] = RFMRow{CustomerID: id, Recency: days, Frequency: a.orders, Monetary: a.spend}
		rec[i], freq[i], mon[i] = float64(days), float64(a.orders), a.spend
	}
	r := QuantileBuckets(rec, 4, true)
	f := QuantileBuckets(freq, 4, false)
	m := QuantileBuckets(mon, 4, false)
	for i := range rows {
		rows[i].R, rows[i].F, rows[i].M = r[i], f[i], m[i]
		rows[i].Segment = fmt.Sprintf("%d%d%d", r[i], f[i], m[i])
	}
	return rows, nil
}

// CustomerSegmentation scores customers by RFM and charts the gender mix.
func CustomerSegmentation(ds *dataset.Dataset, opt Options) (*Output, error) {
	rows, err := ComputeRFM(ds)
	if err != nil {
		return nil, err
	}
	var high, risk []RFMRow
	for _, r := range rows {
		if r.HighValue() {
			high = append(high, r)
		}
		if r.AtRisk() {
			risk = append(risk, r)
		}
	}

	genders := countBy(len(ds.Customers), func(i int) string { return ds.Customers[i].Gender })
	locations := countBy(len(ds.Customers), func(i int) string { return ds.Customers[i].Location })

	labels, values := genders.series(0)
	img, err := chart.HBar(chart.Series{
		Title:  "Customer Gender Distribution",
		XLabel: "Customers",
		Labels: labels,
		Values: values,
	}, chart.Size{WidthIn: opt.ChartWidthIn, HeightIn: opt.ChartHeightIn})
	if err != nil {
		return nil, fmt.Errorf("gender chart: %w", err)
	}

	return &Output{
		Summary: fmt.Sprintf("RFM segmentation identifies %d high-value and %d at-risk customers.", len(high), len(risk)),
		Chart:   img,
		Tables: []Table{
			rfmTable("High Value Customers (Sample)", high),
			rfmTable("At Risk Customers (Sample)", risk),
			locations.table("Top 10 Customer Locations", "location", "customers", opt.TopN),
		},
	}, nil
}

func rfmTable(title string, rows []RFMRow) Table {
	t := Table{Title: title, Columns: []string{"customer_id", "Recency", "Frequency", "Monetary", "R_Quartile", "F_Quartile", "M_Quartile", "RFM_Score"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.CustomerID), strconv.Itoa(r.Recency), strconv.Itoa(r.Frequency), money(r.Monetary),
			strconv.Itoa(r.R), strconv.Itoa(r.F), strconv.Itoa(r.M), r.Segment,
		})
	}
	return t
}
