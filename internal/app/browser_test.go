package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

func newBrowser(t *testing.T, c app.HotelCatalog) (*app.Browser, *app.SessionStore) {
	t.Helper()
	s := app.NewSessionStore(time.Minute)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	cfg := app.BrowserConfig{
		Home:    app.HomeConfig{BatchSize: 30, PageSize: 10, Buckets: buckets(t)},
		Explore: app.ExploreConfig{PageSize: 8, CatalogSize: 30},
	}
	return app.NewBrowser(c, cfg, s), s
}

func TestBrowser_Home(t *testing.T) {
	b, _ := newBrowser(t, staticCatalog(makeHotels(30)))
	ctx := context.Background()

	l, err := b.Home(ctx, domain.FilterState{City: domain.Selection{"Delhi", "Goa"}}, 1)
	if err == nil {
		t.Fatalf("unknown city accepted: %+v", l)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}

	l, err = b.Home(ctx, domain.FilterState{City: domain.Selection{"Delhi", "Kolkata"}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if l.TotalMatches != 12 || l.TotalPages != 2 || len(l.Hotels) != 2 || l.Page != 2 {
		t.Fatalf("listing = matches %d pages %d hotels %d page %d", l.TotalMatches, l.TotalPages, len(l.Hotels), l.Page)
	}

	l, err = b.Home(ctx, domain.FilterState{}, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Hotels) != 0 || l.TotalPages != 3 {
		t.Fatalf("page past end: hotels %d pages %d", len(l.Hotels), l.TotalPages)
	}
}

func TestBrowser_Explore(t *testing.T) {
	c := staticCatalog(nil)
	c.page = func(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
		if page != 2 || size != 8 {
			t.Errorf("fetched page=%d size=%d", page, size)
		}
		hs := makeHotels(8)
		hs[0].Rooms = nil
		return domain.DeriveAll(hs), nil
	}
	b, _ := newBrowser(t, c)

	v, err := b.Explore(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.TotalPages != 4 || len(v.Pages) != 4 || len(v.Hotels) != 8 {
		t.Fatalf("view = pages %d hotels %d", v.TotalPages, len(v.Hotels))
	}
	if v.Hotels[0].PriceLabel != "price unavailable" || v.Hotels[0].RoomTypes != 0 {
		t.Fatalf("empty-rooms card = %+v", v.Hotels[0])
	}
	if v.Hotels[1].RoomTypes != 1 {
		t.Fatalf("room types = %d", v.Hotels[1].RoomTypes)
	}
}

func TestBrowser_ExploreFailureHasNoPartialPage(t *testing.T) {
	c := staticCatalog(nil)
	c.page = func(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
		return nil, domain.ErrUpstream
	}
	b, _ := newBrowser(t, c)

	v, err := b.Explore(context.Background(), 1)
	if !errors.Is(err, domain.ErrUpstream) || v.Hotels != nil {
		t.Fatalf("got %+v, %v", v, err)
	}
}

func TestBrowser_Search(t *testing.T) {
	c := staticCatalog(nil)
	b, _ := newBrowser(t, c)

	got, err := b.Search(context.Background(), "ob")
	if err != nil || len(got) != 0 || got == nil {
		t.Fatalf("short query: %v, %v", got, err)
	}
	if c.namesN.Load() != 0 {
		t.Fatalf("short query fetched the index")
	}

	got, err = b.Search(context.Background(), "delhi")
	if err != nil || len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("search = %v, %v", got, err)
	}
}

func TestBrowser_Hotel(t *testing.T) {
	hs := makeHotels(2)
	hs[1].Rooms = append(hs[1].Rooms, domain.RoomOffer{Name: "Suite", Price: 4500})
	b, _ := newBrowser(t, staticCatalog(hs))

	v, err := b.Hotel(context.Background(), "2")
	if err != nil {
		t.Fatal(err)
	}
	if *v.MinPrice != 1000 || *v.MaxPrice != 4500 || v.PriceLabel != "1,000 - 4,500" || v.Description != "desc" {
		t.Fatalf("detail = %+v", v)
	}
	if _, err := b.Hotel(context.Background(), "99"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBrowser_StartSession(t *testing.T) {
	c := staticCatalog(makeHotels(12))
	b, s := newBrowser(t, c)

	id, v := b.StartSession(context.Background())
	if s.Len() != 1 || len(v.Hotels) != 10 || v.TotalPages != 2 {
		t.Fatalf("session %q: len=%d hotels=%d pages=%d", id, s.Len(), len(v.Hotels), v.TotalPages)
	}
	if c.namesN.Load() != 1 {
		t.Fatalf("name index not prefetched")
	}

	p, err := b.Session(id)
	if err != nil || p == nil {
		t.Fatalf("session: %v", err)
	}
	if err := p.SetQuery(context.Background(), "oberoi"); err != nil {
		t.Fatal(err)
	}
	if v := p.View(); len(v.Results) != 1 || v.Results[0].ID != "2" {
		t.Fatalf("results = %+v", v.Results)
	}
	if n := c.namesN.Load(); n != 1 {
		t.Fatalf("search refetched the prefetched index: %d fetches", n)
	}
	if err := b.EndSession(id); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Session(id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ended session still served: %v", err)
	}
}

func TestBrowser_StartSessionReportsLoadFailure(t *testing.T) {
	c := staticCatalog(nil)
	c.page = func(ctx context.Context, page, size int) ([]domain.DerivedHotel, error) {
		return nil, domain.ErrUpstream
	}
	b, _ := newBrowser(t, c)

	_, v := b.StartSession(context.Background())
	if v.Error != "Failed to fetch hotels list" || len(v.Hotels) != 0 {
		t.Fatalf("view = %+v", v)
	}
}
