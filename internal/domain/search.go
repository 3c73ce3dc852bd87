package domain

// SearchIndexEntry is one row of GET /hotels-name, used only by the search box.
type SearchIndexEntry struct {
	ID   HotelID `json:"id"`
	Name string  `json:"name"`
	City string  `json:"city"`
}
