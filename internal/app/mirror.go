package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_browser/internal/domain"
)

// MirrorService copies the remote catalog into the local store so the API
// can serve from MySQL when the upstream is down.
type MirrorService struct {
	src   domain.HotelSource
	store domain.CatalogWriter
	cache domain.Cache
}

func NewMirrorService(src domain.HotelSource, store domain.CatalogWriter, c domain.Cache) *MirrorService {
	return &MirrorService{src: src, store: store, cache: c}
}

type MirrorReport struct {
	Total  int
	Copied int64
	Missed int64
	Failed int64
}

// MirrorHotel copies one hotel. A hotel the source no longer has is logged
// as a miss and is not an error.
func (s *MirrorService) MirrorHotel(ctx context.Context, id domain.HotelID) (missed bool, err error) {
	h, err := s.src.GetHotel(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if lerr := s.store.LogMiss(ctx, id, http.StatusNotFound, "not found"); lerr != nil {
				log.Warn().Err(lerr).Str("id", id.String()).Msg("log miss failed")
			}
			s.invalidate(ctx, hotelKey(id))
			return true, nil
		}
		return false, err
	}

	if err := s.store.UpsertHotel(ctx, h); err != nil {
		return false, fmt.Errorf("upsert hotel %s: %w", id, err)
	}
	s.invalidate(ctx, hotelKey(id))
	return false, nil
}

// Run mirrors every hotel in the name index with at most workers in flight.
func (s *MirrorService) Run(ctx context.Context, workers int) (MirrorReport, error) {
	idx, err := s.src.ListHotelNames(ctx)
	if err != nil {
		return MirrorReport{}, fmt.Errorf("list hotel names: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	var copied, missed, failed atomic.Int64
	report := func() MirrorReport {
		return MirrorReport{Total: len(idx), Copied: copied.Load(), Missed: missed.Load(), Failed: failed.Load()}
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, e := range idx {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return report(), err
		}

		wg.Add(1)
		go func(id domain.HotelID) {
			defer wg.Done()
			defer sem.Release(1)

			miss, err := s.MirrorHotel(ctx, id)
			switch {
			case err != nil:
				failed.Add(1)
				log.Warn().Str("id", id.String()).Err(err).Msg("mirror failed")
			case miss:
				missed.Add(1)
				log.Info().Str("id", id.String()).Msg("mirror miss")
			default:
				copied.Add(1)
				log.Debug().Str("id", id.String()).Msg("mirror ok")
			}
		}(e.ID)
	}
	wg.Wait()

	s.invalidate(ctx, "hotels:names")
	s.invalidate(ctx, "hotels:all")
	return report(), nil
}

func (s *MirrorService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}
