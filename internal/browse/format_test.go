package browse_test

import (
	"testing"

	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

func TestPriceLabel(t *testing.T) {
	d := domain.Derive(domain.Hotel{Rooms: rooms(3000, 1000)})
	if got := browse.PriceLabel(d); got != "1,000 - 3,000" {
		t.Fatalf("got %q", got)
	}
}

func TestPriceLabel_EmptyRooms(t *testing.T) {
	d := domain.Derive(domain.Hotel{})
	if got := browse.PriceLabel(d); got != browse.PriceUnavailable {
		t.Fatalf("got %q", got)
	}
}

func TestRatingLabel(t *testing.T) {
	if got := browse.RatingLabel(domain.Hotel{Rating: pfloat(4.25)}); got != "4.2" && got != "4.3" {
		t.Fatalf("got %q", got)
	}
	if got := browse.RatingLabel(domain.Hotel{}); got != "0.0" {
		t.Fatalf("got %q", got)
	}
}
