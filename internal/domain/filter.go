package domain

import "fmt"

type Dimension string

const (
	DimRating     Dimension = "rating"
	DimPriceRange Dimension = "priceRange"
	DimCity       Dimension = "city"
)

func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimRating, DimPriceRange, DimCity:
		return d, nil
	case "price":
		return DimPriceRange, nil
	}
	return "", fmt.Errorf("%w: unknown filter dimension %q", ErrInvalidInput, s)
}

// Selection is an ordered set of labels. Empty means "no constraint".
type Selection []string

func (s Selection) Contains(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Toggle returns the selection with v added (checked) or removed.
func (s Selection) Toggle(v string, checked bool) Selection {
	if checked {
		if s.Contains(v) {
			return s
		}
		out := make(Selection, len(s), len(s)+1)
		copy(out, s)
		return append(out, v)
	}
	out := make(Selection, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

type FilterState struct {
	Rating     Selection `json:"rating"`
	PriceRange Selection `json:"priceRange"`
	City       Selection `json:"city"`
}

func (f FilterState) IsEmpty() bool {
	return len(f.Rating) == 0 && len(f.PriceRange) == 0 && len(f.City) == 0
}

func (f FilterState) Get(d Dimension) Selection {
	switch d {
	case DimRating:
		return f.Rating
	case DimPriceRange:
		return f.PriceRange
	case DimCity:
		return f.City
	}
	return nil
}

// Toggle returns a copy of f with value toggled in dimension d.
func (f FilterState) Toggle(d Dimension, value string, checked bool) FilterState {
	switch d {
	case DimRating:
		f.Rating = f.Rating.Toggle(value, checked)
	case DimPriceRange:
		f.PriceRange = f.PriceRange.Toggle(value, checked)
	case DimCity:
		f.City = f.City.Toggle(value, checked)
	}
	return f
}
