package browse

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_browser/internal/domain"
)

// PriceBucket is a parsed "min-max" price label. Max is nil when open-ended.
type PriceBucket struct {
	Min float64
	Max *float64
}

// ParsePriceBucket parses labels like "0-1000" and "5001-".
func ParsePriceBucket(label string) (PriceBucket, error) {
	lo, hi, _ := strings.Cut(label, "-")
	from, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return PriceBucket{}, fmt.Errorf("%w: price range %q", domain.ErrInvalidInput, label)
	}
	b := PriceBucket{Min: from}
	hi = strings.TrimSpace(hi)
	if hi == "" {
		return b, nil
	}
	to, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return PriceBucket{}, fmt.Errorf("%w: price range %q", domain.ErrInvalidInput, label)
	}
	// a zero upper bound reads as open-ended, same as the web client
	if to != 0 {
		b.Max = &to
	}
	return b, nil
}

func (b PriceBucket) Contains(price float64) bool {
	return price >= b.Min && (b.Max == nil || price <= *b.Max)
}

// ParseRatingBucket parses a rating label b, selecting ratings in [b, b+1).
func ParseRatingBucket(label string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rating %q", domain.ErrInvalidInput, label)
	}
	return v, nil
}

// Filter keeps the hotels passing every non-empty dimension of f. Buckets
// within a dimension are OR-ed. Labels that do not parse match nothing.
// The input is not modified and its order is kept.
func Filter(hotels []domain.DerivedHotel, f domain.FilterState) []domain.DerivedHotel {
	var ratings []float64
	for _, l := range f.Rating {
		if v, err := ParseRatingBucket(l); err == nil {
			ratings = append(ratings, v)
		}
	}
	var prices []PriceBucket
	for _, l := range f.PriceRange {
		if b, err := ParsePriceBucket(l); err == nil {
			prices = append(prices, b)
		}
	}

	out := make([]domain.DerivedHotel, 0, len(hotels))
	for _, h := range hotels {
		if len(f.Rating) > 0 && !matchRating(h.RatingValue(), ratings) {
			continue
		}
		if len(f.PriceRange) > 0 && !matchPrice(h.Rooms, prices) {
			continue
		}
		if len(f.City) > 0 && !f.City.Contains(h.City) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func matchRating(r float64, buckets []float64) bool {
	for _, b := range buckets {
		if r >= b && r < b+1 {
			return true
		}
	}
	return false
}

func matchPrice(rooms []domain.RoomOffer, buckets []PriceBucket) bool {
	for _, b := range buckets {
		for _, room := range rooms {
			if b.Contains(room.Price) {
				return true
			}
		}
	}
	return false
}
