// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_site/internal/adapters/observability"
	"hotel_site/internal/app"
	"hotel_site/internal/domain"
)

// persistent cookies live as long as browsers allow
const cookieMaxAge = 400 * 24 * 60 * 60

type Handlers struct {
	Catalog  *app.CatalogService
	Bookings *app.BookingService
	Auth     *app.AuthService
	Admin    *app.AdminService
	Media    *app.MediaService

	ExportContentType string
	SecureCookies     bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
	Step   string `json:"step,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/home", h.home)
	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{id}", h.getRoom)
	s.mux.Get("/v1/rooms/{id}/quote", h.quote)
	s.mux.Get("/v1/services", h.listServices)
	s.mux.Get("/v1/gallery", h.listGallery)
	s.mux.Post("/v1/lang", h.setLang)
	s.mux.Post("/v1/bookings", h.createBooking)

	s.mux.Route("/v1/admin", func(r chi.Router) {
		h.mountAdmin(r)
	})
}

// selectLang prefers ?lang=, then the lang cookie, then Accept-Language.
func selectLang(r *http.Request) domain.Lang {
	if q := r.URL.Query().Get("lang"); q != "" {
		return domain.ParseLang(q)
	}
	if c, err := r.Cookie(langCookie); err == nil && c.Value != "" {
		return domain.ParseLang(c.Value)
	}
	return domain.ParseLang(r.Header.Get("Accept-Language"))
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

// writeError maps domain errors onto problem responses; step names the booking step when relevant.
func writeError(w http.ResponseWriter, err error, step string) {
	p := problem{Type: "about:blank", Detail: err.Error(), Step: step}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		p.Status, p.Title, p.Field, p.Detail = http.StatusBadRequest, "Invalid Input", ve.Field, ve.Msg
	case errors.Is(err, domain.ErrConfirmationRequired):
		p.Status, p.Title = http.StatusPreconditionRequired, "Confirmation Required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		p.Status, p.Title = http.StatusUnauthorized, "Invalid Credentials"
	case errors.Is(err, domain.ErrNotFound):
		p.Status, p.Title = http.StatusNotFound, "Not Found"
	case errors.Is(err, domain.ErrGateway):
		log.Warn().Err(err).Msg("gateway failure")
		p.Status, p.Title = http.StatusBadGateway, "Bad Gateway"
	default:
		log.Error().Err(err).Msg("unhandled error")
		p.Status, p.Title, p.Detail = http.StatusInternalServerError, "Internal Server Error", ""
	}
	writeProblemBody(w, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
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

// writeCached writes a localized public payload with ETag and If-None-Match support.
func writeCached(w http.ResponseWriter, r *http.Request, lang domain.Lang, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", string(lang))
	w.Header().Set("Vary", "Accept-Language, Cookie")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

/********** localized views **********/

type roomView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	PriceLabel  string   `json:"price_label"`
	Capacity    string   `json:"capacity"`
	Amenities   []string `json:"amenities"`
	ImageURL    string   `json:"image_url"`
	Media       []string `json:"media,omitempty"`
	Videos      []string `json:"videos,omitempty"`
	Fallback    bool     `json:"fallback,omitempty"`
}

func toRoomView(r domain.Room, lang domain.Lang) roomView {
	return roomView{
		ID:          r.ID,
		Title:       r.Title.In(lang),
		Description: r.Description.In(lang),
		Price:       r.Price,
		PriceLabel:  app.FormatPrice(r.Price),
		Capacity:    r.Capacity.In(lang),
		Amenities:   r.Amenities.In(lang),
		ImageURL:    r.ImageURL,
		Media:       r.Media,
		Videos:      r.Videos,
		Fallback:    r.Fallback,
	}
}

type serviceView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Price       *float64 `json:"price,omitempty"`
	PriceLabel  string   `json:"price_label,omitempty"`
	Media       []string `json:"media,omitempty"`
	Videos      []string `json:"videos,omitempty"`
}

func toServiceView(s domain.Service, lang domain.Lang) serviceView {
	v := serviceView{
		ID:          s.ID,
		Title:       s.Title.In(lang),
		Description: s.Description.In(lang),
		Icon:        string(s.Icon),
		Price:       s.Price,
		Media:       s.Media,
		Videos:      s.Videos,
	}
	if s.Price != nil {
		v.PriceLabel = app.FormatPrice(*s.Price)
	}
	return v
}

type galleryView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

func toGalleryView(g domain.GalleryImage, lang domain.Lang) galleryView {
	return galleryView{ID: g.ID, Title: g.Title.In(lang), Category: string(g.Category), ImageURL: g.ImageURL}
}

func mapViews[T, V any](in []T, lang domain.Lang, f func(T, domain.Lang) V) []V {
	out := make([]V, 0, len(in))
	for _, x := range in {
		out = append(out, f(x, lang))
	}
	return out
}

/********** public handlers **********/

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	lang := selectLang(r)
	hp, err := h.Catalog.Home(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeCached(w, r, lang, map[string]any{
		"language": lang,
		"rooms":    mapViews(hp.Rooms, lang, toRoomView),
		"services": mapViews(hp.Services, lang, toServiceView),
		"gallery":  mapViews(hp.Gallery, lang, toGalleryView),
	})
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	lang := selectLang(r)
	rooms, err := h.Catalog.ListRooms(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeCached(w, r, lang, mapViews(rooms, lang, toRoomView))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	lang := selectLang(r)
	room, err := h.Catalog.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeCached(w, r, lang, toRoomView(room, lang))
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Catalog.Quote(r.Context(), chi.URLParam(r, "id"), q.Get("check_in"), q.Get("check_out"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quote":       out,
		"total_label": app.FormatPrice(out.Total),
	})
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	lang := selectLang(r)
	ss, err := h.Catalog.ListServices(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeCached(w, r, lang, mapViews(ss, lang, toServiceView))
}

func (h *Handlers) listGallery(w http.ResponseWriter, r *http.Request) {
	lang := selectLang(r)
	cat := domain.GalleryCategory(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))))
	if cat == "all" {
		cat = ""
	}
	if cat != "" && !cat.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid category", "category must be one of rooms, dining, meeting, pool, misc")
		return
	}
	gs, err := h.Catalog.ListGallery(r.Context(), cat)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeCached(w, r, lang, mapViews(gs, lang, toGalleryView))
}

func (h *Handlers) setLang(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Lang string `json:"lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {\"lang\": \"en\"|\"pt\"}")
		return
	}
	lang := domain.ParseLang(in.Lang)
	http.SetCookie(w, &http.Cookie{
		Name: langCookie, Value: string(lang), Path: "/",
		MaxAge: cookieMaxAge, SameSite: http.SameSiteLaxMode, Secure: h.SecureCookies,
	})
	writeJSON(w, http.StatusOK, map[string]string{"lang": string(lang)})
}

type bookingRequest struct {
	app.StayDetails
	app.ContactDetails
	RoomID string `json:"room_id,omitempty"`
}

// createBooking drives the booking flow through both steps in one request.
func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected a JSON booking request")
		return
	}
	f := h.Bookings.NewFlow()
	f.SetStay(in.StayDetails)
	if err := f.Next(); err != nil {
		writeError(w, err, app.StepStay.String())
		return
	}
	f.SetContact(in.ContactDetails)
	if err := f.Submit(r.Context()); err != nil {
		writeError(w, err, app.StepContact.String())
		return
	}
	observability.BookingsCreated.Inc()

	resp := map[string]any{"booking": f.Booking(), "step": f.Step().String()}
	if in.RoomID != "" {
		if q, err := h.Catalog.Quote(r.Context(), in.RoomID, in.CheckIn, in.CheckOut); err == nil {
			resp["estimated_total"] = q.Total
			resp["estimated_total_label"] = app.FormatPrice(q.Total)
		} else {
			log.Debug().Err(err).Str("room_id", in.RoomID).Msg("no estimate for booking")
		}
	}
	w.Header().Set("Location", "/v1/admin/bookings/"+f.Booking().ID)
	writeJSON(w, http.StatusCreated, resp)
}

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	c := &http.Cookie{
		Name: sessionCookie, Value: token, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteLaxMode, Secure: secure,
	}
	if token == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.MaxAge = cookieMaxAge
	}
	http.SetCookie(w, c)
}
