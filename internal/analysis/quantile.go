package analysis

import (
	"math"
	"sort"
)

// QuantileBuckets assigns each value to one of up to q equal-frequency
// buckets numbered from 1. Edges are the linearly interpolated 0, 1/q, ... 1
// quantiles with duplicates dropped, so ties can merge buckets. Bins are
// right-closed and the lowest edge belongs to bucket 1. When fewer than two
// distinct edges remain every value gets bucket 1. reverse numbers buckets
// from the top instead (k+1-i).
func QuantileBuckets(vals []float64, q int, reverse bool) []int {
	out := make([]int, len(vals))
	if len(vals) == 0 {
		return out
	}
	edges := quantileEdges(vals, q)
	if len(edges) < 2 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	k := len(edges) - 1
	for i, v := range vals {
		b := sort.SearchFloat64s(edges, v)
		if b < 1 {
			b = 1
		}
		if b > k {
			b = k
		}
		if reverse {
			b = k + 1 - b
		}
		out[i] = b
	}
	return out
}

func quantileEdges(vals []float64, q int) []float64 {
	if q < 1 {
		q = 1
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		e := quantile(sorted, float64(i)/float64(q))
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

// quantile interpolates linearly between closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
