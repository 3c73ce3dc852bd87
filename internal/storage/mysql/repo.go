package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hotel_browser/internal/domain"
)

// DefaultListSize is how many hotels ListAllHotels returns, matching the
// upstream's default page.
const DefaultListSize = 10

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.HotelDetail) error {
	rooms := h.Rooms
	if rooms == nil {
		rooms = []domain.RoomOffer{}
	}
	roomsJSON, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("marshal rooms of %s: %w", h.ID, err)
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID.String(),
		h.Name,
		h.City,
		valF64(h.Rating),
		h.ImageURL,
		valStr(h.Description),
		string(roomsJSON),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, id domain.HotelID, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id.String(), status, reason)
	return err
}

// ListHotels pages through the mirror in id order.
func (r *Repo) ListHotels(ctx context.Context, page, size int) ([]domain.Hotel, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: page and size must be positive", domain.ErrInvalidInput)
	}
	return r.list(ctx, size, (page-1)*size)
}

func (r *Repo) ListAllHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.list(ctx, DefaultListSize, 0)
}

func (r *Repo) list(ctx context.Context, limit, offset int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var h domain.Hotel
		var rating sql.NullFloat64
		var roomsJSON []byte
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &rating, &h.ImageURL, &roomsJSON); err != nil {
			return nil, err
		}
		if err := fill(&h, rating, roomsJSON); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetHotel(ctx context.Context, id domain.HotelID) (domain.HotelDetail, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id.String())

	var hd domain.HotelDetail
	var rating sql.NullFloat64
	var roomsJSON []byte
	var desc sql.NullString
	if err := row.Scan(&hd.ID, &hd.Name, &hd.City, &rating, &hd.ImageURL, &roomsJSON, &desc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelDetail{}, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
		}
		return domain.HotelDetail{}, err
	}
	if err := fill(&hd.Hotel, rating, roomsJSON); err != nil {
		return domain.HotelDetail{}, err
	}
	hd.Description = desc.String
	return hd, nil
}

func (r *Repo) ListHotelNames(ctx context.Context) ([]domain.SearchIndexEntry, error) {
	rows, err := r.db.QueryContext(ctx, listNamesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SearchIndexEntry{}
	for rows.Next() {
		var e domain.SearchIndexEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.City); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func fill(h *domain.Hotel, rating sql.NullFloat64, roomsJSON []byte) error {
	if rating.Valid {
		f := rating.Float64
		h.Rating = &f
	}
	if len(roomsJSON) > 0 {
		if err := json.Unmarshal(roomsJSON, &h.Rooms); err != nil {
			return fmt.Errorf("decode rooms of %s: %w", h.ID, err)
		}
	}
	return nil
}
