package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_browser/internal/domain"
)

// Catalog is what the page controllers read hotels from.
type Catalog interface {
	FetchPage(ctx context.Context, page, size int) ([]domain.DerivedHotel, error)
	FetchNameIndex(ctx context.Context) ([]domain.SearchIndexEntry, error)
}

type CatalogService struct {
	src      domain.HotelSource
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewCatalogService wires a hotel source with an optional cache (nil disables caching).
func NewCatalogService(src domain.HotelSource, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{src: src, cache: c, cacheTTL: ttl}
}

// FetchPage returns one page of hotels with min/max room prices derived.
// The cache holds the raw listing, so prices are derived on every call.
func (s *CatalogService) FetchPage(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
	key := fmt.Sprintf("hotels:page:%d:%d", page, size)
	hs, err := load(ctx, s, key, func(ctx context.Context) ([]domain.Hotel, error) {
		return s.src.ListHotels(ctx, page, size)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch hotels page %d/%d: %w", page, size, err)
	}
	return domain.DeriveAll(hs), nil
}

// FetchAll returns the listing without paging parameters. Its length is
// whatever the source defaults to, not the display page size.
func (s *CatalogService) FetchAll(ctx context.Context) ([]domain.Hotel, error) {
	hs, err := load(ctx, s, "hotels:all", s.src.ListAllHotels)
	if err != nil {
		return nil, fmt.Errorf("fetch all hotels: %w", err)
	}
	return hs, nil
}

func (s *CatalogService) FetchNameIndex(ctx context.Context) ([]domain.SearchIndexEntry, error) {
	idx, err := load(ctx, s, "hotels:names", s.src.ListHotelNames)
	if err != nil {
		return nil, fmt.Errorf("fetch hotel names: %w", err)
	}
	return idx, nil
}

func (s *CatalogService) GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
	h, err := load(ctx, s, hotelKey(id), func(ctx context.Context) (domain.HotelDetail, error) {
		return s.src.GetHotel(ctx, id)
	})
	if err != nil {
		return domain.HotelDetail{}, fmt.Errorf("fetch hotel %s: %w", id, err)
	}
	return h, nil
}

func hotelKey(id domain.HotelID) string { return "hotel:" + id.String() }

// load serves key from the cache, or fetches it once for all concurrent
// callers and stores the result.
func load[T any](ctx context.Context, s *CatalogService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		var v T
		if ok, err := s.cache.Get(ctx, key, &v); ok {
			return v, nil
		} else if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// shared by every waiter, so one caller going away must not cancel it
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(context.WithoutCancel(ctx), key, v, int(s.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
