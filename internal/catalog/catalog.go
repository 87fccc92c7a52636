// Package catalog holds the fixed reference data the generator samples from:
// personas, the product catalog, bundles and the demographic weights.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Weighted is one option of a categorical distribution.
type Weighted struct {
	Value  string  `yaml:"value"`
	Weight float64 `yaml:"weight"`
}

// Persona is a customer archetype with category purchase preferences.
type Persona struct {
	Name          string     `yaml:"name"`
	Prevalence    float64    `yaml:"prevalence"`
	CategoryPrefs []Weighted `yaml:"category_prefs"`
}

// Item is one catalog entry; generated products are drawn from these.
type Item struct {
	Brand       string     `yaml:"brand"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	PriceRange  [2]float64 `yaml:"price_range"`
}

// ProductName is the display name used on generated products.
func (it Item) ProductName() string {
	return it.Brand + " " + it.Name
}

type Category struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// ItemRef points at a catalog item by category and item name.
type ItemRef struct {
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
}

// Bundle pairs an anchor product with a partner added at Probability.
// Anchor and Partner are fragments matched against product names.
type Bundle struct {
	Anchor      string  `yaml:"anchor"`
	Partner     string  `yaml:"partner"`
	Probability float64 `yaml:"probability"`
}

type CityTier struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"`
	Cities []string `yaml:"cities"`
}

// AgeBucket is an inclusive age range.
type AgeBucket struct {
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
	Weight float64 `yaml:"weight"`
}

type Ratings struct {
	Guaranteed [2]float64 `yaml:"guaranteed"`
	Filler     [2]float64 `yaml:"filler"`
}

// Quantities bounds line item quantities (inclusive ranges).
type Quantities struct {
	ElectronicsCategory string  `yaml:"electronics_category"`
	Electronics         [2]int  `yaml:"electronics"`
	Default             [2]int  `yaml:"default"`
	Bulk                [2]int  `yaml:"bulk"`
	BulkProbability     float64 `yaml:"bulk_probability"`
}

type Names struct {
	First        []string `yaml:"first"`
	Last         []string `yaml:"last"`
	EmailDomains []string `yaml:"email_domains"`
}

// Catalog is immutable once loaded; callers must not mutate the slices.
type Catalog struct {
	Personas       []Persona   `yaml:"personas"`
	Categories     []Category  `yaml:"categories"`
	Guaranteed     []ItemRef   `yaml:"guaranteed"`
	Bundles        []Bundle    `yaml:"bundles"`
	CityTiers      []CityTier  `yaml:"city_tiers"`
	AgeBuckets     []AgeBucket `yaml:"age_buckets"`
	Genders        []Weighted  `yaml:"genders"`
	PaymentMethods []Weighted  `yaml:"payment_methods"`
	Ratings        Ratings     `yaml:"ratings"`
	Quantities     Quantities  `yaml:"quantities"`
	Names          Names       `yaml:"names"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// DefaultYAML returns the raw embedded document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks internal consistency and returns all problems found.
func (c *Catalog) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(c.Personas) == 0 {
		add("catalog: no personas")
	}
	if len(c.Categories) == 0 {
		add("catalog: no categories")
	}
	known := map[string]bool{}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			add("catalog: category with empty name")
		}
		if known[cat.Name] {
			add("catalog: duplicate category %q", cat.Name)
		}
		known[cat.Name] = true
		if len(cat.Items) == 0 {
			add("catalog: category %q has no items", cat.Name)
		}
		for _, it := range cat.Items {
			if it.PriceRange[0] <= 0 || it.PriceRange[0] > it.PriceRange[1] {
				add("catalog: %q price range %v invalid", it.Name, it.PriceRange)
			}
		}
	}

	var prevalence float64
	for _, p := range c.Personas {
		prevalence += p.Prevalence
		var sum float64
		for _, pref := range p.CategoryPrefs {
			if !known[pref.Value] {
				add("catalog: persona %q prefers unknown category %q", p.Name, pref.Value)
			}
			if pref.Weight < 0 {
				add("catalog: persona %q has negative weight for %q", p.Name, pref.Value)
			}
			sum += pref.Weight
		}
		if sum <= 0 {
			add("catalog: persona %q has no positive category weight", p.Name)
		}
	}
	if len(c.Personas) > 0 && prevalence <= 0 {
		add("catalog: persona prevalences sum to %g", prevalence)
	}

	for _, ref := range c.Guaranteed {
		if _, ok := c.FindItem(ref); !ok {
			add("catalog: guaranteed item %q not found in category %q", ref.Name, ref.Category)
		}
	}
	for _, b := range c.Bundles {
		if b.Anchor == "" || b.Partner == "" {
			add("catalog: bundle with empty anchor or partner")
		}
		if b.Probability < 0 || b.Probability > 1 {
			add("catalog: bundle %q probability %g outside [0,1]", b.Anchor, b.Probability)
		}
	}

	var tierWeight float64
	for _, t := range c.CityTiers {
		if len(t.Cities) == 0 {
			add("catalog: city tier %q has no cities", t.Name)
		}
		tierWeight += t.Weight
	}
	if tierWeight <= 0 {
		add("catalog: city tier weights sum to %g", tierWeight)
	}

	var ageWeight float64
	for _, a := range c.AgeBuckets {
		if a.Min > a.Max || a.Min < 0 {
			add("catalog: age bucket %d-%d invalid", a.Min, a.Max)
		}
		ageWeight += a.Weight
	}
	if ageWeight <= 0 {
		add("catalog: age bucket weights sum to %g", ageWeight)
	}
	if sumWeights(c.Genders) <= 0 {
		add("catalog: gender weights sum to zero")
	}
	if sumWeights(c.PaymentMethods) <= 0 {
		add("catalog: payment method weights sum to zero")
	}

	for name, r := range map[string][2]float64{"guaranteed": c.Ratings.Guaranteed, "filler": c.Ratings.Filler} {
		if r[0] > r[1] {
			add("catalog: %s rating range %v inverted", name, r)
		}
	}
	q := c.Quantities
	for name, r := range map[string][2]int{"electronics": q.Electronics, "default": q.Default, "bulk": q.Bulk} {
		if r[0] < 1 || r[0] > r[1] {
			add("catalog: %s quantity range %v invalid", name, r)
		}
	}
	if q.BulkProbability < 0 || q.BulkProbability > 1 {
		add("catalog: bulk probability %g outside [0,1]", q.BulkProbability)
	}
	if len(c.Names.First) == 0 || len(c.Names.Last) == 0 || len(c.Names.EmailDomains) == 0 {
		add("catalog: name lists must not be empty")
	}
	return errors.Join(errs...)
}

// FindItem resolves a reference to its catalog item.
func (c *Catalog) FindItem(ref ItemRef) (Item, bool) {
	for _, cat := range c.Categories {
		if cat.Name != ref.Category {
			continue
		}
		for _, it := range cat.Items {
			if it.Name == ref.Name {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Persona looks a persona up by name.
func (c *Catalog) Persona(name string) (Persona, bool) {
	for _, p := range c.Personas {
		if p.Name == name {
			return p, true
		}
	}
	return Persona{}, false
}

// Category looks a category up by name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// CategoryNames lists categories in catalog order.
func (c *Catalog) CategoryNames() []string {
	out := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		out = append(out, cat.Name)
	}
	return out
}

// AllCities flattens every tier in tier order.
func (c *Catalog) AllCities() []string {
	var out []string
	for _, t := range c.CityTiers {
		out = append(out, t.Cities...)
	}
	return out
}

// CategoryCode is the two-letter prefix used in product codes.
func CategoryCode(category string) string {
	letters := make([]rune, 0, 2)
	for _, r := range category {
		if len(letters) == 2 {
			break
		}
		letters = append(letters, r)
	}
	return strings.ToUpper(string(letters))
}

func sumWeights(ws []Weighted) float64 {
	var s float64
	for _, w := range ws {
		s += w.Weight
	}
	return s
}

// Marshal renders the catalog back to YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return b, nil
}
