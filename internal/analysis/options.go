// Package analysis computes the report stages over a loaded dataset.
package analysis

// Options tunes the stages. Zero values are replaced by DefaultOptions.
type Options struct {
	// TopN bounds ranked tables and charts (products, cities).
	TopN int

	// Market basket: orders sampled, minimum itemset support, rules kept in the table.
	BasketSampleSize int
	BasketMinSupport float64
	BasketMaxRules   int

	// Isolation forest settings.
	FraudContamination float64
	FraudTrees         int
	FraudSampleSize    int

	// Seed drives order sampling and the isolation forest.
	Seed uint64

	ChartWidthIn  float64
	ChartHeightIn float64

	// Progress receives stage-internal notes; may be nil.
	Progress func(msg string)
}

// DefaultOptions returns the settings the report uses unless configured.
func DefaultOptions() Options {
	return Options{
		TopN:               10,
		BasketSampleSize:   50000,
		BasketMinSupport:   0.0005,
		BasketMaxRules:     25,
		FraudContamination: 0.01,
		FraudTrees:         100,
		FraudSampleSize:    256,
		Seed:               42,
		ChartWidthIn:       10,
		ChartHeightIn:      4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.BasketSampleSize <= 0 {
		o.BasketSampleSize = d.BasketSampleSize
	}
	if o.BasketMinSupport <= 0 {
		o.BasketMinSupport = d.BasketMinSupport
	}
	if o.BasketMaxRules <= 0 {
		o.BasketMaxRules = d.BasketMaxRules
	}
	if o.FraudContamination <= 0 {
		o.FraudContamination = d.FraudContamination
	}
	if o.FraudTrees <= 0 {
		o.FraudTrees = d.FraudTrees
	}
	if o.FraudSampleSize < 2 {
		o.FraudSampleSize = d.FraudSampleSize
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	if o.ChartWidthIn <= 0 {
		o.ChartWidthIn = d.ChartWidthIn
	}
	if o.ChartHeightIn <= 0 {
		o.ChartHeightIn = d.ChartHeightIn
	}
	return o
}

func (o Options) note(msg string) {
	if o.Progress != nil {
		o.Progress(msg)
	}
}
