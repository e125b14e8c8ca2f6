package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_site/internal/adapters/observability"
	"hotel_site/internal/app"
	"hotel_site/internal/domain"
)

func (h *Handlers) mountAdmin(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))

		r.Get("/rooms", h.adminListRooms)
		r.Post("/rooms", h.adminCreateRoom)
		r.Get("/rooms/{id}", h.adminGetRoom)
		r.Put("/rooms/{id}", h.adminUpdateRoom)
		r.Delete("/rooms/{id}", h.adminDeleteRoom)
		r.Post("/rooms/{id}/media", h.addMedia(entityRoom))
		r.Post("/rooms/{id}/media/url", h.addMediaURL(entityRoom))
		r.Delete("/rooms/{id}/media", h.removeMedia(entityRoom))

		r.Get("/services", h.adminListServices)
		r.Get("/services/icons", h.serviceIcons)
		r.Post("/services", h.adminCreateService)
		r.Get("/services/{id}", h.adminGetService)
		r.Put("/services/{id}", h.adminUpdateService)
		r.Delete("/services/{id}", h.adminDeleteService)
		r.Post("/services/{id}/media", h.addMedia(entityService))
		r.Post("/services/{id}/media/url", h.addMediaURL(entityService))
		r.Delete("/services/{id}/media", h.removeMedia(entityService))

		r.Get("/gallery", h.adminListGallery)
		r.Post("/gallery", h.adminCreateGallery)
		r.Put("/gallery/{id}", h.adminUpdateGallery)
		r.Delete("/gallery/{id}", h.adminDeleteGallery)

		r.Get("/bookings", h.adminListBookings)
		r.Get("/bookings/export", h.exportBookings)
		r.Patch("/bookings/{id}", h.adminUpdateBooking)
		r.Delete("/bookings/{id}", h.adminDeleteBooking)

		r.Post("/uploads/{bucket}", h.upload)
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

// audit records who removed what.
func audit(r *http.Request, kind, id string) {
	sess, _ := SessionFrom(r.Context())
	log.Info().Str("admin", sess.Email).Str("kind", kind).Str("id", id).Msg("admin delete")
}

// confirmed reads ?confirm=true; deletes are refused without it.
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

/********** session **********/

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}
	sess, token, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	observability.ObserveLogin(err == nil)
	if err != nil {
		writeError(w, err, "")
		return
	}
	setSessionCookie(w, token, h.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]any{"session": sess, "token": token})
}

// logout always succeeds, with or without a session.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	setSessionCookie(w, "", h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Auth.CheckSession(sessionToken(r)))
}

/********** rooms **********/

type roomDetail struct {
	Room domain.Room  `json:"room"`
	Form app.RoomForm `json:"form"`
}

func (h *Handlers) adminListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Admin.ListRooms(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) adminGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.Admin.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, roomDetail{Room: room, Form: app.RoomFormFrom(room)})
}

func (h *Handlers) adminCreateRoom(w http.ResponseWriter, r *http.Request) {
	var f app.RoomForm
	if !decode(w, r, &f) {
		return
	}
	room, err := h.Admin.CreateRoom(r.Context(), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) adminUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var f app.RoomForm
	if !decode(w, r, &f) {
		return
	}
	room, err := h.Admin.UpdateRoom(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) adminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admin.DeleteRoom(r.Context(), id, confirmed(r)); err != nil {
		writeError(w, err, "")
		return
	}
	audit(r, "room", id)
	w.WriteHeader(http.StatusNoContent)
}

/********** services **********/

type serviceDetail struct {
	Service domain.Service  `json:"service"`
	Form    app.ServiceForm `json:"form"`
}

func (h *Handlers) adminListServices(w http.ResponseWriter, r *http.Request) {
	ss, err := h.Admin.ListServices(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *Handlers) serviceIcons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ServiceIcons())
}

func (h *Handlers) adminGetService(w http.ResponseWriter, r *http.Request) {
	s, err := h.Admin.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, serviceDetail{Service: s, Form: app.ServiceFormFrom(s)})
}

func (h *Handlers) adminCreateService(w http.ResponseWriter, r *http.Request) {
	var f app.ServiceForm
	if !decode(w, r, &f) {
		return
	}
	s, err := h.Admin.CreateService(r.Context(), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handlers) adminUpdateService(w http.ResponseWriter, r *http.Request) {
	var f app.ServiceForm
	if !decode(w, r, &f) {
		return
	}
	s, err := h.Admin.UpdateService(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) adminDeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admin.DeleteService(r.Context(), id, confirmed(r)); err != nil {
		writeError(w, err, "")
		return
	}
	audit(r, "service", id)
	w.WriteHeader(http.StatusNoContent)
}

/********** gallery **********/

func (h *Handlers) adminListGallery(w http.ResponseWriter, r *http.Request) {
	gs, err := h.Admin.ListGallery(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (h *Handlers) adminCreateGallery(w http.ResponseWriter, r *http.Request) {
	var f app.GalleryForm
	if !decode(w, r, &f) {
		return
	}
	g, err := h.Admin.CreateGalleryImage(r.Context(), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *Handlers) adminUpdateGallery(w http.ResponseWriter, r *http.Request) {
	var f app.GalleryForm
	if !decode(w, r, &f) {
		return
	}
	g, err := h.Admin.UpdateGalleryImage(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) adminDeleteGallery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admin.DeleteGalleryImage(r.Context(), id, confirmed(r)); err != nil {
		writeError(w, err, "")
		return
	}
	audit(r, "gallery", id)
	w.WriteHeader(http.StatusNoContent)
}

/********** bookings **********/

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Admin.ListBookings(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) adminUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Admin.UpdateBookingStatus(r.Context(), id, domain.BookingStatus(strings.ToLower(strings.TrimSpace(in.Status)))); err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": in.Status})
}

func (h *Handlers) adminDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admin.DeleteBooking(r.Context(), id, confirmed(r)); err != nil {
		writeError(w, err, "")
		return
	}
	audit(r, "booking", id)
	w.WriteHeader(http.StatusNoContent)
}

// exportBookings renders into memory first so a failure still yields a problem response.
func (h *Handlers) exportBookings(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Admin.ExportBookings(r.Context(), &buf); err != nil {
		writeError(w, err, "")
		return
	}
	ct := h.ExportContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	name := "bookings-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("write bookings export failed")
	}
}

/********** media **********/

type entity int

const (
	entityRoom entity = iota
	entityService
)

func mediaKind(s string) domain.MediaKind {
	if strings.EqualFold(strings.TrimSpace(s), string(domain.MediaVideo)) {
		return domain.MediaVideo
	}
	return domain.MediaImage
}

// readFiles turns the multipart "files" field into upload files; the caller closes them.
func (h *Handlers) readFiles(w http.ResponseWriter, r *http.Request) ([]domain.UploadFile, func(), bool) {
	lim := h.Media.Limits()
	r.Body = http.MaxBytesReader(w, r.Body, int64(lim.MaxFiles)*lim.MaxVideoBytes+app.MB)
	if err := r.ParseMultipartForm(32 * app.MB); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return nil, nil, false
	}
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		_ = r.MultipartForm.RemoveAll()
	}
	var files []domain.UploadFile
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			writeProblem(w, http.StatusBadRequest, "Invalid upload", err.Error())
			return nil, nil, false
		}
		opened = append(opened, f)
		files = append(files, domain.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, true
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "rejected"
	}
	return "failed"
}

func (h *Handlers) addMedia(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := mediaKind(r.URL.Query().Get("kind"))
		files, done, ok := h.readFiles(w, r)
		if !ok {
			return
		}
		defer done()

		id := chi.URLParam(r, "id")
		var (
			out    any
			err    error
			bucket = domain.BucketRoomMedia
		)
		if e == entityRoom {
			out, err = h.Admin.AddRoomMedia(r.Context(), id, kind, files)
		} else {
			bucket = domain.BucketServiceMedia
			out, err = h.Admin.AddServiceMedia(r.Context(), id, kind, files)
		}
		observability.ObserveUpload(string(bucket), string(kind), uploadOutcome(err))
		if err != nil {
			writeError(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Handlers) addMediaURL(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			URL  string `json:"url"`
			Kind string `json:"kind"`
		}
		if !decode(w, r, &in) {
			return
		}
		id, kind := chi.URLParam(r, "id"), mediaKind(in.Kind)
		var (
			out any
			err error
		)
		if e == entityRoom {
			out, err = h.Admin.AddRoomMediaURL(r.Context(), id, kind, in.URL)
		} else {
			out, err = h.Admin.AddServiceMediaURL(r.Context(), id, kind, in.URL)
		}
		if err != nil {
			writeError(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *Handlers) removeMedia(e entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, u := chi.URLParam(r, "id"), r.URL.Query().Get("url")
		if u == "" {
			writeProblem(w, http.StatusBadRequest, "Invalid request", "url is required")
			return
		}
		var (
			out any
			err error
		)
		if e == entityRoom {
			out, err = h.Admin.RemoveRoomMedia(r.Context(), id, u)
		} else {
			out, err = h.Admin.RemoveServiceMedia(r.Context(), id, u)
		}
		if err != nil {
			writeError(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// upload stores files in a bucket and returns their public URLs, for primary and gallery images.
func (h *Handlers) upload(w http.ResponseWriter, r *http.Request) {
	bucket := domain.Bucket(chi.URLParam(r, "bucket"))
	if !bucket.Valid() {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown bucket")
		return
	}
	kind := mediaKind(r.URL.Query().Get("kind"))
	files, done, ok := h.readFiles(w, r)
	if !ok {
		return
	}
	defer done()

	urls, err := h.Media.Upload(r.Context(), bucket, r.URL.Query().Get("folder"), kind, nil, files)
	observability.ObserveUpload(string(bucket), string(kind), uploadOutcome(err))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"urls": urls})
}
