package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

type HomeConfig struct {
	BatchSize int // hotels fetched once, page 1
	PageSize  int // hotels per displayed page
	Buckets   browse.Buckets
}

// SearchForm is the hero search bar: hotel, dates and party size.
type SearchForm struct {
	HotelID   domain.HotelID `json:"hotelId" validate:"required"`
	HotelName string         `json:"hotelName,omitempty"`
	CheckIn   string         `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut  string         `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Persons   int            `json:"persons" validate:"min=1"`
}

type HomeView struct {
	Listing
	Query       string                    `json:"query"`
	Results     []domain.SearchIndexEntry `json:"results"`
	ShowResults bool                      `json:"showResults"`
	Form        SearchForm                `json:"form"`
	Loading     bool                      `json:"loading"`
	Error       string                    `json:"error,omitempty"`
}

const (
	msgListingFailed  = "Failed to fetch hotels list"
	msgNamesFailed    = "Failed to fetch hotel names"
	msgFormIncomplete = "All fields are mandatory!"
)

// HomePage owns the state of one home page: the fetched batch, filters, the
// current page and the search box. Every mutation is followed by a fresh
// View. Fetches run without the lock held; each one is stamped and its
// result is dropped if a newer fetch of the same resource was started.
type HomePage struct {
	catalog Catalog
	cfg     HomeConfig

	mu          sync.Mutex
	hotels      []domain.DerivedHotel
	filters     domain.FilterState
	page        int
	query       string
	results     []domain.SearchIndexEntry
	index       []domain.SearchIndexEntry
	showResults bool
	form        SearchForm
	loading     bool
	lastErr     string

	listingSeq uint64
	searchSeq  uint64
}

func NewHomePage(c Catalog, cfg HomeConfig) *HomePage {
	return &HomePage{
		catalog: c,
		cfg:     cfg,
		page:    1,
		results: []domain.SearchIndexEntry{},
		form:    SearchForm{Persons: 1},
	}
}

// Load fetches the hotel batch. On failure the collection is left as it was.
func (p *HomePage) Load(ctx context.Context) error {
	p.mu.Lock()
	p.listingSeq++
	seq := p.listingSeq
	p.loading = true
	p.mu.Unlock()

	hs, err := p.catalog.FetchPage(ctx, 1, p.cfg.BatchSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.listingSeq {
		observability.ObserveStale("listing")
		log.Debug().Uint64("seq", seq).Uint64("latest", p.listingSeq).Msg("dropping stale hotel listing")
		return nil
	}
	p.loading = false
	if err != nil {
		p.lastErr = msgListingFailed
		return err
	}
	p.hotels = hs
	p.lastErr = ""
	return nil
}

// ToggleFilter checks or unchecks a filter option. The current page is kept.
func (p *HomePage) ToggleFilter(d domain.Dimension, value string, checked bool) error {
	if !p.cfg.Buckets.Allows(d, value) {
		return fmt.Errorf("%w: %s %q is not a known option", domain.ErrInvalidInput, d, value)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = p.filters.Toggle(d, value, checked)
	return nil
}

func (p *HomePage) GoToPage(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: page must be positive", domain.ErrInvalidInput)
	}
	p.mu.Lock()
	p.page = k
	p.mu.Unlock()
	return nil
}

// SetQuery updates the search box. Queries of MinQueryLength or more match
// the name index, fetched once per page; shorter ones clear the results.
func (p *HomePage) SetQuery(ctx context.Context, q string) error {
	p.mu.Lock()
	p.query = q
	if q == "" {
		p.form.HotelID, p.form.HotelName = "", ""
	}
	p.searchSeq++
	seq := p.searchSeq
	if !browse.Active(q) {
		p.results = []domain.SearchIndexEntry{}
		p.showResults = false
		p.mu.Unlock()
		return nil
	}
	p.showResults = true
	if p.index != nil {
		p.results = browse.Match(p.index, q)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	idx, err := p.catalog.FetchNameIndex(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.searchSeq {
		observability.ObserveStale("search")
		log.Debug().Uint64("seq", seq).Uint64("latest", p.searchSeq).Msg("dropping stale search results")
		return nil
	}
	if err != nil {
		p.results = []domain.SearchIndexEntry{}
		p.lastErr = msgNamesFailed
		return err
	}
	p.index = idx
	p.results = browse.Match(idx, q)
	return nil
}

// PrimeIndex hands the page a name index fetched elsewhere so later queries
// match against it without another upstream call. A nil index is ignored.
func (p *HomePage) PrimeIndex(idx []domain.SearchIndexEntry) {
	if idx == nil {
		return
	}
	p.mu.Lock()
	p.index = idx
	p.mu.Unlock()
}

// SelectResult picks a search result: the query becomes its name, the panel
// closes and the hotel becomes the search target.
func (p *HomePage) SelectResult(id domain.HotelID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.results {
		if e.ID != id {
			continue
		}
		p.query = e.Name
		p.showResults = false
		p.form.HotelID, p.form.HotelName = e.ID, e.Name
		// any search still in flight belongs to the old query
		p.searchSeq++
		return nil
	}
	return fmt.Errorf("search result %s: %w", id, domain.ErrNotFound)
}

func (p *HomePage) SetForm(checkIn, checkOut string, persons int) {
	p.mu.Lock()
	p.form.CheckIn, p.form.CheckOut, p.form.Persons = checkIn, checkOut, persons
	p.mu.Unlock()
}

// Submit checks the search form and returns the hotel to open.
func (p *HomePage) Submit() (domain.HotelID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := validate.Struct(p.form); err != nil {
		var verrs validator.ValidationErrors
		fe := &FormError{Message: msgFormIncomplete, Fields: map[string]string{}}
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				fe.Fields[v.Field()] = v.Tag()
			}
		}
		p.lastErr = msgFormIncomplete
		return "", fe
	}
	p.lastErr = ""
	return p.form.HotelID, nil
}

func (p *HomePage) View() HomeView {
	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]domain.SearchIndexEntry, len(p.results))
	copy(results, p.results)
	return HomeView{
		Listing:     DeriveListing(p.hotels, p.filters, p.page, p.cfg.PageSize),
		Query:       p.query,
		Results:     results,
		ShowResults: p.showResults,
		Form:        p.form,
		Loading:     p.loading,
		Error:       p.lastErr,
	}
}
