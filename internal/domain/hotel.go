package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// HotelID is the upstream identifier. The remote API is not consistent about
// sending it as a number or a string, so it is kept as text.
type HotelID string

func (id *HotelID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = HotelID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("hotel id: %w", err)
	}
	*id = HotelID(n.String())
	return nil
}

func (id HotelID) String() string { return string(id) }

type RoomOffer struct {
	ID        HotelID  `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Amenities []string `json:"amenities"`
	ImageURLs []string `json:"image_urls"`
}

// Hotel is a listing entry as returned by GET /hotels.
type Hotel struct {
	ID       HotelID     `json:"id"`
	Name     string      `json:"name"`
	City     string      `json:"city"`
	Rating   *float64    `json:"rating"`
	ImageURL string      `json:"image_url"`
	Rooms    []RoomOffer `json:"rooms"`
}

// RatingValue treats a missing rating as 0.
func (h Hotel) RatingValue() float64 {
	if h.Rating == nil {
		return 0
	}
	return *h.Rating
}

type HotelDetail struct {
	Hotel
	Description string `json:"description"`
}

// DerivedHotel carries the room price bounds. Both are nil when the hotel has
// no rooms.
type DerivedHotel struct {
	Hotel
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}

// HasPrice reports whether the price bounds could be computed.
func (d DerivedHotel) HasPrice() bool { return d.MinPrice != nil && d.MaxPrice != nil }

func Derive(h Hotel) DerivedHotel {
	d := DerivedHotel{Hotel: h}
	for i, r := range h.Rooms {
		if i == 0 {
			lo, hi := r.Price, r.Price
			d.MinPrice, d.MaxPrice = &lo, &hi
			continue
		}
		if r.Price < *d.MinPrice {
			*d.MinPrice = r.Price
		}
		if r.Price > *d.MaxPrice {
			*d.MaxPrice = r.Price
		}
	}
	return d
}

func DeriveAll(hs []Hotel) []DerivedHotel {
	out := make([]DerivedHotel, len(hs))
	for i, h := range hs {
		out[i] = Derive(h)
	}
	return out
}
