package domain

import "context"

// HotelSource is where the catalog is read from: the remote API or the MySQL mirror.
type HotelSource interface {
	ListHotels(ctx context.Context, page, size int) ([]Hotel, error)
	ListAllHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id HotelID) (HotelDetail, error)
	ListHotelNames(ctx context.Context) ([]SearchIndexEntry, error)
}

// CatalogWriter is the write side of the mirror.
type CatalogWriter interface {
	UpsertHotel(ctx context.Context, h HotelDetail) error
	LogMiss(ctx context.Context, id HotelID, status int, reason string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
