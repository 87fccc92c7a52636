package analysis

import (
	"reflect"
	"testing"
)

func TestQuantileBucketsEvenSplit(t *testing.T) {
	vals := []float64{5, 1, 8, 2, 7, 3, 6, 4}
	got := QuantileBuckets(vals, 4, false)
	want := []int{3, 1, 4, 1, 4, 2, 3, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("buckets: got %v want %v", got, want)
	}
	rev := QuantileBuckets(vals, 4, true)
	for i := range got {
		if rev[i] != 5-got[i] {
			t.Fatalf("reverse[%d]=%d, forward %d", i, rev[i], got[i])
		}
	}
}

func TestQuantileBucketsDropDuplicateEdges(t *testing.T) {
	// edges collapse to {1, 1.75, 4}: two buckets remain
	vals := []float64{1, 1, 1, 1, 1, 1, 1, 2, 3, 4}
	got := QuantileBuckets(vals, 4, false)
	want := []int{1, 1, 1, 1, 1, 1, 1, 2, 2, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	rev := QuantileBuckets(vals, 4, true)
	if rev[0] != 2 || rev[9] != 1 {
		t.Fatalf("reverse labels: %v", rev)
	}
}

func TestQuantileBucketsDegenerate(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		got := QuantileBuckets([]float64{3, 3, 3, 3, 3}, 4, reverse)
		for i, b := range got {
			if b != 1 {
				t.Fatalf("reverse=%v: record %d in bucket %d", reverse, i, b)
			}
		}
	}
	if got := QuantileBuckets(nil, 4, false); len(got) != 0 {
		t.Fatalf("empty input: %v", got)
	}
}

func TestQuantileBucketsStayInRange(t *testing.T) {
	vals := []float64{10, 200, 3, 3, 45, 45, 45, 7, 1000, 12, 12, 99}
	counts := map[int]int{}
	for _, b := range QuantileBuckets(vals, 4, false) {
		if b < 1 || b > 4 {
			t.Fatalf("bucket %d out of range", b)
		}
		counts[b]++
	}
	for b, n := range counts {
		if n > 4 {
			t.Fatalf("bucket %d holds %d of %d values", b, n, len(vals))
		}
	}
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := map[float64]float64{0: 1, 0.25: 1.75, 0.5: 2.5, 1: 4}
	for q, want := range cases {
		if got := quantile(sorted, q); got != want {
			t.Fatalf("quantile(%v)=%v want %v", q, got, want)
		}
	}
}
