package analysis

import (
	"math"
	"math/rand/v2"
)

const eulerGamma = 0.5772156649

// IsolationForest is a one-feature isolation forest. Anomalous values are
// isolated by fewer random splits, so they score closer to 1.
type IsolationForest struct {
	trees  []*itree
	sample int
}

type itree struct {
	split       float64
	left, right *itree
	size        int // leaf only
}

// FitIsolationForest grows trees on random subsamples (without replacement)
// of min(sampleSize, len(values)) values each.
func FitIsolationForest(values []float64, trees, sampleSize int, seed uint64) *IsolationForest {
	rng := rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5))
	psi := min(sampleSize, len(values))
	f := &IsolationForest{sample: psi}
	if psi == 0 {
		return f
	}
	maxDepth := int(math.Ceil(math.Log2(float64(max(psi, 2)))))
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sub := make([]float64, psi)
	for t := 0; t < trees; t++ {
		// partial Fisher-Yates: the first psi slots become the subsample
		for i := 0; i < psi; i++ {
			j := i + rng.IntN(len(idx)-i)
			idx[i], idx[j] = idx[j], idx[i]
			sub[i] = values[idx[i]]
		}
		f.trees = append(f.trees, grow(append([]float64(nil), sub...), 0, maxDepth, rng))
	}
	return f
}

func grow(vals []float64, depth, maxDepth int, rng *rand.Rand) *itree {
	if depth >= maxDepth || len(vals) <= 1 {
		return &itree{size: len(vals)}
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &itree{size: len(vals)}
	}
	split := lo + rng.Float64()*(hi-lo)
	// partition in place: <= split to the left
	i := 0
	for j, v := range vals {
		if v <= split {
			vals[i], vals[j] = vals[j], vals[i]
			i++
		}
	}
	return &itree{
		split: split,
		left:  grow(vals[:i], depth+1, maxDepth, rng),
		right: grow(vals[i:], depth+1, maxDepth, rng),
	}
}

func (t *itree) pathLength(v float64, depth int) float64 {
	if t.left == nil {
		return float64(depth) + averagePathLength(t.size)
	}
	if v <= t.split {
		return t.left.pathLength(v, depth+1)
	}
	return t.right.pathLength(v, depth+1)
}

// Score returns the anomaly score 2^(-E[h(v)]/c(psi)) in (0, 1].
func (f *IsolationForest) Score(v float64) float64 {
	if len(f.trees) == 0 {
		return 0.5
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.pathLength(v, 0)
	}
	c := averagePathLength(f.sample)
	if c == 0 {
		return 0.5
	}
	return math.Pow(2, -(sum/float64(len(f.trees)))/c)
}

// Scores scores every value; repeated values are scored once.
func (f *IsolationForest) Scores(values []float64) []float64 {
	memo := map[float64]float64{}
	out := make([]float64, len(values))
	for i, v := range values {
		s, ok := memo[v]
		if !ok {
			s = f.Score(v)
			memo[v] = s
		}
		out[i] = s
	}
	return out
}

// averagePathLength is c(n), the mean path length of an unsuccessful search
// in a binary search tree of n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}
