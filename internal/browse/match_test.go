package browse_test

import (
	"reflect"
	"testing"

	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

var index = []domain.SearchIndexEntry{
	{ID: "1", Name: "Taj Palace", City: "Mumbai"},
	{ID: "2", Name: "Oberoi", City: "Delhi"},
	{ID: "3", Name: "Rajmahal Inn", City: "Jaipur"},
	{ID: "4", Name: "Raj Residency", City: "Rajkot"},
	{ID: "3", Name: "Rajmahal Inn", City: "Jaipur"},
}

func entryIDs(es []domain.SearchIndexEntry) []domain.HotelID {
	out := []domain.HotelID{}
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestMatch_ShortQueriesMatchNothing(t *testing.T) {
	for _, q := range []string{"", "r", "ra", "Ta"} {
		got := browse.Match(index, q)
		if got == nil || len(got) != 0 {
			t.Fatalf("%q: expected empty result, got %v", q, got)
		}
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	upper := browse.Match(index, "RAJ")
	lower := browse.Match(index, "raj")
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("RAJ=%v raj=%v", entryIDs(upper), entryIDs(lower))
	}
	// order is kept and duplicates are not removed
	if want := []domain.HotelID{"3", "4", "3"}; !reflect.DeepEqual(entryIDs(lower), want) {
		t.Fatalf("got %v want %v", entryIDs(lower), want)
	}
}

func TestMatch_NameOrCity(t *testing.T) {
	if got := entryIDs(browse.Match(index, "delhi")); !reflect.DeepEqual(got, []domain.HotelID{"2"}) {
		t.Fatalf("city match: %v", got)
	}
	if got := entryIDs(browse.Match(index, "palace")); !reflect.DeepEqual(got, []domain.HotelID{"1"}) {
		t.Fatalf("name match: %v", got)
	}
	if got := browse.Match(index, "zzz"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestMatch_CountsRunes(t *testing.T) {
	idx := []domain.SearchIndexEntry{{ID: "9", Name: "Hôtel Éden", City: "Nice"}}
	if got := browse.Match(idx, "ÉDE"); len(got) != 1 {
		t.Fatalf("expected accented match, got %v", got)
	}
	if browse.Active("éé") {
		t.Fatalf("two runes should not activate search")
	}
}
