package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

type Handlers struct{ B *app.Browser }

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// user-facing messages per resource
const (
	msgList    = "Failed to fetch hotels list"
	msgDetail  = "Failed to fetch hotel details"
	msgNames   = "Failed to fetch hotel names"
	msgSession = "session not found"
)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/filters", h.filters)
		r.Get("/hotels", h.home)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/explore", h.explore)
		r.Get("/search", h.search)
		r.Post("/bookings/validate", h.validateBooking)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/filters", h.sessionFilter)
			r.Post("/page", h.sessionPage)
			r.Post("/query", h.sessionQuery)
			r.Post("/select", h.sessionSelect)
			r.Post("/submit", h.sessionSubmit)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps a service error onto a problem response. detail is the
// message shown for failures of the resource that was requested.
func writeError(w http.ResponseWriter, r *http.Request, err error, detail string) {
	var fe *app.FormError
	switch {
	case errors.As(err, &fe):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Unprocessable Entity",
			Status: http.StatusUnprocessableEntity, Detail: fe.Message, Errors: fe.Fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", detail)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", detail)
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers GETs with a weak ETag and honours If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if r.Method == http.MethodGet {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Body too large",
				fmt.Sprintf("request body must not exceed %d bytes", tooBig.Limit))
			return false
		}
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	ps := r.URL.Query().Get("page")
	if ps == "" {
		return 1, true
	}
	p, err := strconv.Atoi(ps)
	if err != nil || p < 1 {
		writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return 0, false
	}
	return p, true
}

func (h *Handlers) filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.B.Filters())
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := domain.FilterState{
		Rating:     domain.Selection(q["rating"]),
		PriceRange: domain.Selection(q["price"]),
		City:       domain.Selection(q["city"]),
	}
	out, err := h.B.Home(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err, msgList)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) explore(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	out, err := h.B.Explore(r.Context(), page)
	if err != nil {
		writeError(w, r, err, msgList)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id := domain.HotelID(chi.URLParam(r, "id"))
	out, err := h.B.Hotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err, msgDetail)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	out, err := h.B.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, msgNames)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) validateBooking(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.B.ValidateBooking(req)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// ---- sessions ----

type sessionResponse struct {
	ID   string       `json:"id"`
	View app.HomeView `json:"view"`
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	id, view := h.B.StartSession(r.Context())
	w.Header().Set("Location", "/v1/sessions/"+id)
	writeJSON(w, r, http.StatusCreated, sessionResponse{ID: id, View: view})
}

// session resolves {sid} or answers 404.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*app.HomePage, bool) {
	p, err := h.B.Session(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, r, err, msgSession)
		return nil, false
	}
	return p, true
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.session(w, r); ok {
		writeJSON(w, r, http.StatusOK, p.View())
	}
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.B.EndSession(chi.URLParam(r, "sid")); err != nil {
		writeError(w, r, err, msgSession)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) sessionFilter(w http.ResponseWriter, r *http.Request) {
	p, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Dimension string `json:"dimension"`
		Value     string `json:"value"`
		Checked   bool   `json:"checked"`
	}
	if !decode(w, r, &body) {
		return
	}
	dim, err := domain.ParseDimension(body.Dimension)
	if err == nil {
		err = p.ToggleFilter(dim, body.Value, body.Checked)
	}
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, p.View())
}

func (h *Handlers) sessionPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Page int `json:"page"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := p.GoToPage(body.Page); err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, p.View())
}

func (h *Handlers) sessionQuery(w http.ResponseWriter, r *http.Request) {
	p, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Query string `json:"query"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := p.SetQuery(r.Context(), body.Query); err != nil {
		writeError(w, r, err, msgNames)
		return
	}
	writeJSON(w, r, http.StatusOK, p.View())
}

func (h *Handlers) sessionSelect(w http.ResponseWriter, r *http.Request) {
	p, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		ID domain.HotelID `json:"id"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := p.SelectResult(body.ID); err != nil {
		writeError(w, r, err, "hotel is not among the search results")
		return
	}
	writeJSON(w, r, http.StatusOK, p.View())
}

func (h *Handlers) sessionSubmit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.session(w, r)
	if !ok {
		return
	}
	var body struct {
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
		Persons  int    `json:"persons"`
	}
	if !decode(w, r, &body) {
		return
	}
	p.SetForm(body.CheckIn, body.CheckOut, body.Persons)
	id, err := p.Submit()
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]domain.HotelID{"hotelId": id})
}
