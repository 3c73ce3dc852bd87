package app

import (
	"context"

	"hotel_browser/internal/browse"
)

type ExploreConfig struct {
	PageSize    int
	CatalogSize int // assumed total catalog size; the source does not report one
}

// ExploreView is one server-side page of the catalog.
type ExploreView struct {
	Hotels     []HotelCard `json:"hotels"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	Pages      []int       `json:"pages"`
}

// Explore fetches page from the catalog. It returns no partial page on error.
func Explore(ctx context.Context, c Catalog, cfg ExploreConfig, page int) (ExploreView, error) {
	hs, err := c.FetchPage(ctx, page, cfg.PageSize)
	if err != nil {
		return ExploreView{}, err
	}
	total := browse.TotalPages(cfg.CatalogSize, cfg.PageSize)
	return ExploreView{
		Hotels:     cards(hs),
		Page:       page,
		TotalPages: total,
		Pages:      browse.PageNumbers(total),
	}, nil
}
