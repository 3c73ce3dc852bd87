// internal/adapters/hotelapi/client.go
package hotelapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

type Options struct {
	RPS        int
	MaxRetries int
	Timeout    time.Duration
}

type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	retries int
}

func New(base string, opt Options) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("hotels base URL %q is not absolute", base)
	}
	if opt.RPS <= 0 {
		opt.RPS = 5
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 20 * time.Second
	}
	if opt.MaxRetries < 0 {
		opt.MaxRetries = 0
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: opt.Timeout},
		rl:      rate.NewLimiter(rate.Limit(opt.RPS), opt.RPS),
		retries: opt.MaxRetries,
	}, nil
}

// ---- Public API ----

type hotelsEnvelope struct {
	Hotels []domain.Hotel `json:"hotels"`
}

type hotelEnvelope struct {
	Hotel *domain.HotelDetail `json:"hotel"`
}

func (c *Client) ListHotels(ctx context.Context, page, size int) ([]domain.Hotel, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: page and size must be positive (page=%d size=%d)", domain.ErrInvalidInput, page, size)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out hotelsEnvelope
	if err := c.get(ctx, "hotels", c.base+"/hotels?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Hotels, nil
}

// ListAllHotels calls the listing without paging parameters; the server
// decides how many hotels come back.
func (c *Client) ListAllHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out hotelsEnvelope
	if err := c.get(ctx, "hotels", c.base+"/hotels", &out); err != nil {
		return nil, err
	}
	return out.Hotels, nil
}

func (c *Client) GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
	if id == "" {
		return domain.HotelDetail{}, fmt.Errorf("%w: empty hotel id", domain.ErrInvalidInput)
	}
	var out hotelEnvelope
	if err := c.get(ctx, "hotel", c.base+"/hotels/"+url.PathEscape(id.String()), &out); err != nil {
		return domain.HotelDetail{}, err
	}
	if out.Hotel == nil {
		return domain.HotelDetail{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return *out.Hotel, nil
}

func (c *Client) ListHotelNames(ctx context.Context) ([]domain.SearchIndexEntry, error) {
	var out []domain.SearchIndexEntry
	if err := c.get(ctx, "hotels-name", c.base+"/hotels-name", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Internals ----

// get performs a rate-limited GET and decodes the JSON body into out.
// 429 and transient 5xx are retried up to c.retries times, honoring
// Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i <= c.retries; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-browser/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("hotels_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %s: %v", domain.ErrUpstream, endpoint, err)
			if i < c.retries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("hotels_api", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %s: decode: %v", domain.ErrUpstream, endpoint, err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)

		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: %s: remote %d", domain.ErrUpstream, endpoint, resp.StatusCode)
			if i < c.retries && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: %s: bad status %d: %s", domain.ErrUpstream, endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
