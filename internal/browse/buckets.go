package browse

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hotel_browser/internal/domain"
)

//go:embed buckets.yaml
var defaultBuckets []byte

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Buckets are the checkbox options for each filter dimension.
type Buckets struct {
	Price  []Option `yaml:"price" json:"priceRange"`
	Rating []Option `yaml:"rating" json:"rating"`
	City   []Option `yaml:"city" json:"city"`
}

// LoadBuckets reads bucket definitions from path, or the built-in defaults
// when path is empty.
func LoadBuckets(path string) (Buckets, error) {
	raw := defaultBuckets
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Buckets{}, fmt.Errorf("read buckets: %w", err)
		}
		raw = b
	}
	return ParseBuckets(raw)
}

func ParseBuckets(raw []byte) (Buckets, error) {
	var b Buckets
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Buckets{}, fmt.Errorf("decode buckets: %w", err)
	}
	for _, o := range b.Price {
		if _, err := ParsePriceBucket(o.Value); err != nil {
			return Buckets{}, err
		}
	}
	for _, o := range b.Rating {
		if _, err := ParseRatingBucket(o.Value); err != nil {
			return Buckets{}, err
		}
	}
	return b, nil
}

func (b Buckets) Options(d domain.Dimension) []Option {
	switch d {
	case domain.DimPriceRange:
		return b.Price
	case domain.DimRating:
		return b.Rating
	case domain.DimCity:
		return b.City
	}
	return nil
}

// Allows reports whether value is one of the options of dimension d.
func (b Buckets) Allows(d domain.Dimension, value string) bool {
	for _, o := range b.Options(d) {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Validate rejects filter values that are not offered as options.
func (b Buckets) Validate(f domain.FilterState) error {
	for _, d := range []domain.Dimension{domain.DimRating, domain.DimPriceRange, domain.DimCity} {
		for _, v := range f.Get(d) {
			if !b.Allows(d, v) {
				return fmt.Errorf("%w: %s %q is not a known option", domain.ErrInvalidInput, d, v)
			}
		}
	}
	return nil
}
