package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"hotel_browser/internal/app"
	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

// ---- fakes ----

// fakeSource is a HotelSource; each hook may be nil.
type fakeSource struct {
	list   func(page, size int) ([]domain.Hotel, error)
	all    func() ([]domain.Hotel, error)
	get    func(id domain.HotelID) (domain.HotelDetail, error)
	names  func() ([]domain.SearchIndexEntry, error)
	listN  atomic.Int32
	namesN atomic.Int32
	getN   atomic.Int32
}

func (f *fakeSource) ListHotels(ctx context.Context, page, size int) ([]domain.Hotel, error) {
	f.listN.Add(1)
	return f.list(page, size)
}
func (f *fakeSource) ListAllHotels(ctx context.Context) ([]domain.Hotel, error) { return f.all() }
func (f *fakeSource) GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
	f.getN.Add(1)
	return f.get(id)
}
func (f *fakeSource) ListHotelNames(ctx context.Context) ([]domain.SearchIndexEntry, error) {
	f.namesN.Add(1)
	return f.names()
}

// fakeCache round-trips values through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// fakeCatalog is a HotelCatalog driven directly by hooks, bypassing the
// request collapsing of CatalogService.
type fakeCatalog struct {
	page   func(ctx context.Context, page, size int) ([]domain.DerivedHotel, error)
	names  func(ctx context.Context) ([]domain.SearchIndexEntry, error)
	hotel  func(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error)
	pageN  atomic.Int32
	namesN atomic.Int32
}

func (f *fakeCatalog) FetchPage(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
	f.pageN.Add(1)
	return f.page(ctx, page, size)
}
func (f *fakeCatalog) FetchNameIndex(ctx context.Context) ([]domain.SearchIndexEntry, error) {
	f.namesN.Add(1)
	return f.names(ctx)
}
func (f *fakeCatalog) GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
	return f.hotel(ctx, id)
}

type fakeWriter struct {
	mu      sync.Mutex
	upserts []domain.HotelID
	misses  []domain.HotelID
}

func (w *fakeWriter) UpsertHotel(ctx context.Context, h domain.HotelDetail) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.upserts = append(w.upserts, h.ID)
	return nil
}
func (w *fakeWriter) LogMiss(ctx context.Context, id domain.HotelID, status int, reason string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.misses = append(w.misses, id)
	return nil
}

// ---- fixtures ----

var cities = []string{"Mumbai", "Delhi", "Kolkata", "Bangalore", "Goa"}

func ptr[T any](v T) *T { return &v }

// makeHotels returns n hotels with ids 1..n, rotating cities, and a single
// room priced 500*id.
func makeHotels(n int) []domain.Hotel {
	out := make([]domain.Hotel, n)
	for i := range out {
		id := i + 1
		out[i] = domain.Hotel{
			ID:     domain.HotelID(fmt.Sprint(id)),
			Name:   fmt.Sprintf("Hotel %d", id),
			City:   cities[i%len(cities)],
			Rating: ptr(float64(id%5) + 0.5),
			Rooms:  []domain.RoomOffer{{ID: "r1", Name: "Deluxe", Price: float64(500 * id)}},
		}
	}
	return out
}

func nameIndex() []domain.SearchIndexEntry {
	return []domain.SearchIndexEntry{
		{ID: "1", Name: "Taj Palace", City: "Mumbai"},
		{ID: "2", Name: "Oberoi", City: "Delhi"},
		{ID: "3", Name: "Leela", City: "Mumbai"},
	}
}

func buckets(t *testing.T) browse.Buckets {
	t.Helper()
	b, err := browse.LoadBuckets("")
	if err != nil {
		t.Fatalf("load buckets: %v", err)
	}
	return b
}

func staticCatalog(hs []domain.Hotel) *fakeCatalog {
	return &fakeCatalog{
		page: func(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
			return domain.DeriveAll(hs), nil
		},
		names: func(ctx context.Context) ([]domain.SearchIndexEntry, error) {
			return nameIndex(), nil
		},
		hotel: func(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
			for _, h := range hs {
				if h.ID == id {
					return domain.HotelDetail{Hotel: h, Description: "desc"}, nil
				}
			}
			return domain.HotelDetail{}, domain.ErrNotFound
		},
	}
}

func hotelIDs(cs []app.HotelCard) []domain.HotelID {
	out := make([]domain.HotelID, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
