package app_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

func TestMirror_Run(t *testing.T) {
	idx := []domain.SearchIndexEntry{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	src := &fakeSource{
		names: func() ([]domain.SearchIndexEntry, error) { return idx, nil },
		get: func(id domain.HotelID) (domain.HotelDetail, error) {
			switch id {
			case "2":
				return domain.HotelDetail{}, domain.ErrNotFound
			case "3":
				return domain.HotelDetail{}, domain.ErrUpstream
			}
			return domain.HotelDetail{Hotel: domain.Hotel{ID: id}}, nil
		},
	}
	w := &fakeWriter{}
	cache := &fakeCache{}
	m := app.NewMirrorService(src, w, cache)

	rep, err := m.Run(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Total != 4 || rep.Copied != 2 || rep.Missed != 1 || rep.Failed != 1 {
		t.Fatalf("report = %+v", rep)
	}

	sort.Slice(w.upserts, func(i, j int) bool { return w.upserts[i] < w.upserts[j] })
	if len(w.upserts) != 2 || w.upserts[0] != "1" || w.upserts[1] != "4" {
		t.Fatalf("upserts = %v", w.upserts)
	}
	if len(w.misses) != 1 || w.misses[0] != "2" {
		t.Fatalf("misses = %v", w.misses)
	}

	dels := map[string]bool{}
	for _, k := range cache.dels {
		dels[k] = true
	}
	for _, k := range []string{"hotel:1", "hotel:2", "hotel:4", "hotels:names", "hotels:all"} {
		if !dels[k] {
			t.Fatalf("%s not invalidated: %v", k, cache.dels)
		}
	}
	if dels["hotel:3"] {
		t.Fatalf("failed hotel was invalidated")
	}
}

func TestMirror_IndexFailureStopsRun(t *testing.T) {
	src := &fakeSource{names: func() ([]domain.SearchIndexEntry, error) { return nil, domain.ErrUpstream }}
	m := app.NewMirrorService(src, &fakeWriter{}, nil)

	if _, err := m.Run(context.Background(), 4); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}
