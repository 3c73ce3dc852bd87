package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_browser/internal/browse"
	"hotel_browser/internal/domain"
)

// HotelCatalog is a Catalog that can also fetch a single hotel.
type HotelCatalog interface {
	Catalog
	GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error)
}

type BrowserConfig struct {
	Home    HomeConfig
	Explore ExploreConfig
}

// Browser is what the HTTP layer drives: stateless views plus live sessions.
type Browser struct {
	catalog  HotelCatalog
	cfg      BrowserConfig
	sessions *SessionStore
	booking  *BookingService
}

func NewBrowser(c HotelCatalog, cfg BrowserConfig, sessions *SessionStore) *Browser {
	return &Browser{catalog: c, cfg: cfg, sessions: sessions, booking: NewBookingService()}
}

func (b *Browser) Filters() browse.Buckets { return b.cfg.Home.Buckets }

// Home renders the home listing for the given filters and page without
// keeping any state.
func (b *Browser) Home(ctx context.Context, f domain.FilterState, page int) (Listing, error) {
	if err := b.cfg.Home.Buckets.Validate(f); err != nil {
		return Listing{}, err
	}
	hs, err := b.catalog.FetchPage(ctx, 1, b.cfg.Home.BatchSize)
	if err != nil {
		return Listing{}, err
	}
	return DeriveListing(hs, f, page, b.cfg.Home.PageSize), nil
}

func (b *Browser) Explore(ctx context.Context, page int) (ExploreView, error) {
	return Explore(ctx, b.catalog, b.cfg.Explore, page)
}

// Search matches q against the name index. Short queries never hit the source.
func (b *Browser) Search(ctx context.Context, q string) ([]domain.SearchIndexEntry, error) {
	if !browse.Active(q) {
		return []domain.SearchIndexEntry{}, nil
	}
	idx, err := b.catalog.FetchNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	return browse.Match(idx, q), nil
}

func (b *Browser) Hotel(ctx context.Context, id domain.HotelID) (HotelDetailView, error) {
	h, err := b.catalog.GetHotel(ctx, id)
	if err != nil {
		return HotelDetailView{}, err
	}
	return detailView(h), nil
}

func (b *Browser) ValidateBooking(req BookingRequest) (BookingResult, error) {
	return b.booking.Validate(req)
}

// StartSession creates a home page session. The listing and the name index
// are fetched concurrently; the index is kept on the page for its searches.
// A failed listing is reported in the view.
func (b *Browser) StartSession(ctx context.Context) (string, HomeView) {
	p := NewHomePage(b.catalog, b.cfg.Home)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Load(gctx) })
	g.Go(func() error {
		idx, err := b.catalog.FetchNameIndex(gctx)
		if err != nil {
			log.Warn().Err(err).Msg("name index prefetch failed")
			return nil
		}
		p.PrimeIndex(idx)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("session listing load failed")
	}

	id := b.sessions.Add(p)
	return id, p.View()
}

func (b *Browser) Session(id string) (*HomePage, error) { return b.sessions.Get(id) }

func (b *Browser) EndSession(id string) error { return b.sessions.Delete(id) }
