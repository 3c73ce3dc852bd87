package app

import (
	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

// HotelCard is a listing entry ready for display.
type HotelCard struct {
	domain.DerivedHotel
	PriceLabel  string `json:"priceLabel"`
	RatingLabel string `json:"ratingLabel"`
	RoomTypes   int    `json:"roomTypes"`
}

func cards(hs []domain.DerivedHotel) []HotelCard {
	out := make([]HotelCard, len(hs))
	for i, h := range hs {
		out[i] = HotelCard{
			DerivedHotel: h,
			PriceLabel:   browse.PriceLabel(h),
			RatingLabel:  browse.RatingLabel(h.Hotel),
			RoomTypes:    len(h.Rooms),
		}
	}
	return out
}

// Listing is one derived page of a filtered collection.
type Listing struct {
	Hotels       []HotelCard        `json:"hotels"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"totalPages"`
	Pages        []int              `json:"pages"`
	TotalMatches int                `json:"totalMatches"`
	Filters      domain.FilterState `json:"filters"`
}

// DeriveListing filters hotels and slices out page. The page number is taken
// as is, so a page past the end yields no hotels.
func DeriveListing(hotels []domain.DerivedHotel, f domain.FilterState, page, size int) Listing {
	filtered := browse.Filter(hotels, f)
	total := browse.TotalPages(len(filtered), size)
	return Listing{
		Hotels:       cards(browse.Paginate(filtered, page, size)),
		Page:         page,
		TotalPages:   total,
		Pages:        browse.PageNumbers(total),
		TotalMatches: len(filtered),
		Filters:      f,
	}
}

type HotelDetailView struct {
	domain.HotelDetail
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	PriceLabel  string   `json:"priceLabel"`
	RatingLabel string   `json:"ratingLabel"`
}

func detailView(h domain.HotelDetail) HotelDetailView {
	d := domain.Derive(h.Hotel)
	return HotelDetailView{
		HotelDetail: h,
		MinPrice:    d.MinPrice,
		MaxPrice:    d.MaxPrice,
		PriceLabel:  browse.PriceLabel(d),
		RatingLabel: browse.RatingLabel(h.Hotel),
	}
}
