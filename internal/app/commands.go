package app

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_site/internal/domain"
)

// AdminService holds the admin console's write paths.
type AdminService struct {
	rooms    domain.RoomRepository
	services domain.ServiceRepository
	gallery  domain.GalleryRepository
	bookings domain.BookingRepository
	media    *MediaService
	cache    domain.Cache
	exporter domain.BookingExporter
}

type AdminDeps struct {
	Rooms    domain.RoomRepository
	Services domain.ServiceRepository
	Gallery  domain.GalleryRepository
	Bookings domain.BookingRepository
	Media    *MediaService
	Cache    domain.Cache
	Exporter domain.BookingExporter
}

func NewAdminService(d AdminDeps) *AdminService {
	return &AdminService{
		rooms: d.Rooms, services: d.Services, gallery: d.Gallery, bookings: d.Bookings,
		media: d.Media, cache: d.Cache, exporter: d.Exporter,
	}
}

func (s *AdminService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}

func requireConfirm(confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("id", "id is required")
	}
	return nil
}

/********** rooms **********/

// ListRooms reads straight from the store so the console never shows a stale cache.
func (s *AdminService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rs, err := s.rooms.ListRooms(ctx)
	return rs, domain.Gateway("list rooms", err)
}

func (s *AdminService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	return r, domain.Gateway("get room", err)
}

func (s *AdminService) CreateRoom(ctx context.Context, f RoomForm) (domain.Room, error) {
	r := f.ToRoom()
	if err := validateRoom(r); err != nil {
		return domain.Room{}, err
	}
	out, err := s.rooms.CreateRoom(ctx, r)
	if err != nil {
		return domain.Room{}, domain.Gateway("create room", err)
	}
	s.invalidate(ctx, keyRooms)
	return out, nil
}

func (s *AdminService) UpdateRoom(ctx context.Context, id string, f RoomForm) (domain.Room, error) {
	if err := requireID(id); err != nil {
		return domain.Room{}, err
	}
	r := f.ToRoom()
	r.ID = id
	if err := validateRoom(r); err != nil {
		return domain.Room{}, err
	}
	cur, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, domain.Gateway("get room", err)
	}
	r.CreatedAt = cur.CreatedAt
	if err := s.rooms.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, domain.Gateway("update room", err)
	}
	s.invalidate(ctx, keyRooms)
	return r, nil
}

// DeleteRoom leaves bookings alone; they only hold a room label.
func (s *AdminService) DeleteRoom(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirm(confirmed); err != nil {
		return err
	}
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return domain.Gateway("delete room", err)
	}
	s.invalidate(ctx, keyRooms)
	return nil
}

/********** services **********/

func (s *AdminService) ListServices(ctx context.Context) ([]domain.Service, error) {
	ss, err := s.services.ListServices(ctx)
	return ss, domain.Gateway("list services", err)
}

func (s *AdminService) GetService(ctx context.Context, id string) (domain.Service, error) {
	sv, err := s.services.GetService(ctx, id)
	return sv, domain.Gateway("get service", err)
}

func (s *AdminService) CreateService(ctx context.Context, f ServiceForm) (domain.Service, error) {
	sv := f.ToService()
	if err := validateService(sv); err != nil {
		return domain.Service{}, err
	}
	out, err := s.services.CreateService(ctx, sv)
	if err != nil {
		return domain.Service{}, domain.Gateway("create service", err)
	}
	s.invalidate(ctx, keyServices)
	return out, nil
}

func (s *AdminService) UpdateService(ctx context.Context, id string, f ServiceForm) (domain.Service, error) {
	if err := requireID(id); err != nil {
		return domain.Service{}, err
	}
	sv := f.ToService()
	sv.ID = id
	if err := validateService(sv); err != nil {
		return domain.Service{}, err
	}
	cur, err := s.services.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, domain.Gateway("get service", err)
	}
	sv.CreatedAt = cur.CreatedAt
	if err := s.services.UpdateService(ctx, sv); err != nil {
		return domain.Service{}, domain.Gateway("update service", err)
	}
	s.invalidate(ctx, keyServices)
	return sv, nil
}

func (s *AdminService) DeleteService(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirm(confirmed); err != nil {
		return err
	}
	if err := s.services.DeleteService(ctx, id); err != nil {
		return domain.Gateway("delete service", err)
	}
	s.invalidate(ctx, keyServices)
	return nil
}

/********** gallery **********/

func (s *AdminService) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	gs, err := s.gallery.ListGallery(ctx)
	return gs, domain.Gateway("list gallery", err)
}

func (s *AdminService) CreateGalleryImage(ctx context.Context, f GalleryForm) (domain.GalleryImage, error) {
	g := f.ToGalleryImage()
	if err := validateGallery(g); err != nil {
		return domain.GalleryImage{}, err
	}
	out, err := s.gallery.CreateGalleryImage(ctx, g)
	if err != nil {
		return domain.GalleryImage{}, domain.Gateway("create gallery image", err)
	}
	s.invalidate(ctx, keyGallery)
	return out, nil
}

func (s *AdminService) UpdateGalleryImage(ctx context.Context, id string, f GalleryForm) (domain.GalleryImage, error) {
	if err := requireID(id); err != nil {
		return domain.GalleryImage{}, err
	}
	g := f.ToGalleryImage()
	g.ID = id
	if err := validateGallery(g); err != nil {
		return domain.GalleryImage{}, err
	}
	cur, err := s.gallery.GetGalleryImage(ctx, id)
	if err != nil {
		return domain.GalleryImage{}, domain.Gateway("get gallery image", err)
	}
	g.CreatedAt = cur.CreatedAt
	if err := s.gallery.UpdateGalleryImage(ctx, g); err != nil {
		return domain.GalleryImage{}, domain.Gateway("update gallery image", err)
	}
	s.invalidate(ctx, keyGallery)
	return g, nil
}

// DeleteGalleryImage removes the row, then the stored image when it lives in the gallery bucket.
// Linked images from elsewhere are left untouched.
func (s *AdminService) DeleteGalleryImage(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirm(confirmed); err != nil {
		return err
	}
	g, err := s.gallery.GetGalleryImage(ctx, id)
	if err != nil {
		return domain.Gateway("get gallery image", err)
	}
	if err := s.gallery.DeleteGalleryImage(ctx, id); err != nil {
		return domain.Gateway("delete gallery image", err)
	}
	s.invalidate(ctx, keyGallery)

	if s.media != nil {
		if _, err := s.media.RemoveObject(ctx, domain.BucketGalleryMedia, g.ImageURL); err != nil {
			log.Warn().Err(err).Str("id", id).Str("url", g.ImageURL).Msg("gallery object not removed")
		}
	}
	return nil
}

/********** entity media **********/

// AddRoomMedia uploads files into the room's folder and appends their URLs to the room.
func (s *AdminService) AddRoomMedia(ctx context.Context, id string, kind domain.MediaKind, files []domain.UploadFile) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, domain.Gateway("get room", err)
	}
	list := roomList(&r, kind)
	added := len(*list)
	next, err := s.media.Upload(ctx, domain.BucketRoomMedia, "rooms/"+id, kind, *list, files)
	if err != nil {
		return domain.Room{}, err
	}
	*list = next
	if err := s.saveRoom(ctx, r); err != nil {
		s.media.Discard(ctx, domain.BucketRoomMedia, next[added:])
		return domain.Room{}, err
	}
	return r, nil
}

func (s *AdminService) AddRoomMediaURL(ctx context.Context, id string, kind domain.MediaKind, raw string) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, domain.Gateway("get room", err)
	}
	list := roomList(&r, kind)
	next, err := s.media.AddURL(*list, raw)
	if err != nil {
		return domain.Room{}, err
	}
	*list = next
	return r, s.saveRoom(ctx, r)
}

func (s *AdminService) RemoveRoomMedia(ctx context.Context, id, rawURL string) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, domain.Gateway("get room", err)
	}
	if err := s.detach(ctx, domain.BucketRoomMedia, &r.Media, &r.Videos, rawURL); err != nil {
		return domain.Room{}, err
	}
	return r, s.saveRoom(ctx, r)
}

// detach removes rawURL from whichever list holds it.
func (s *AdminService) detach(ctx context.Context, bucket domain.Bucket, media, videos *[]string, rawURL string) error {
	list := media
	if !slices.Contains(*media, rawURL) {
		if !slices.Contains(*videos, rawURL) {
			return domain.ErrNotFound
		}
		list = videos
	}
	next, err := s.media.Remove(ctx, bucket, *list, rawURL)
	if err != nil {
		return err
	}
	*list = next
	return nil
}

func roomList(r *domain.Room, kind domain.MediaKind) *[]string {
	if kind == domain.MediaVideo {
		return &r.Videos
	}
	return &r.Media
}

func (s *AdminService) saveRoom(ctx context.Context, r domain.Room) error {
	if err := s.rooms.UpdateRoom(ctx, r); err != nil {
		return domain.Gateway("update room", err)
	}
	s.invalidate(ctx, keyRooms)
	return nil
}

func (s *AdminService) AddServiceMedia(ctx context.Context, id string, kind domain.MediaKind, files []domain.UploadFile) (domain.Service, error) {
	sv, err := s.services.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, domain.Gateway("get service", err)
	}
	list := serviceList(&sv, kind)
	added := len(*list)
	next, err := s.media.Upload(ctx, domain.BucketServiceMedia, "services/"+id, kind, *list, files)
	if err != nil {
		return domain.Service{}, err
	}
	*list = next
	if err := s.saveService(ctx, sv); err != nil {
		s.media.Discard(ctx, domain.BucketServiceMedia, next[added:])
		return domain.Service{}, err
	}
	return sv, nil
}

func (s *AdminService) AddServiceMediaURL(ctx context.Context, id string, kind domain.MediaKind, raw string) (domain.Service, error) {
	sv, err := s.services.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, domain.Gateway("get service", err)
	}
	list := serviceList(&sv, kind)
	next, err := s.media.AddURL(*list, raw)
	if err != nil {
		return domain.Service{}, err
	}
	*list = next
	return sv, s.saveService(ctx, sv)
}

func (s *AdminService) RemoveServiceMedia(ctx context.Context, id, rawURL string) (domain.Service, error) {
	sv, err := s.services.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, domain.Gateway("get service", err)
	}
	if err := s.detach(ctx, domain.BucketServiceMedia, &sv.Media, &sv.Videos, rawURL); err != nil {
		return domain.Service{}, err
	}
	return sv, s.saveService(ctx, sv)
}

func serviceList(sv *domain.Service, kind domain.MediaKind) *[]string {
	if kind == domain.MediaVideo {
		return &sv.Videos
	}
	return &sv.Media
}

func (s *AdminService) saveService(ctx context.Context, sv domain.Service) error {
	if err := s.services.UpdateService(ctx, sv); err != nil {
		return domain.Gateway("update service", err)
	}
	s.invalidate(ctx, keyServices)
	return nil
}

/********** bookings **********/

func (s *AdminService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bs, err := s.bookings.ListBookings(ctx)
	return bs, domain.Gateway("list bookings", err)
}

// UpdateBookingStatus allows any move between pending, confirmed and cancelled; the last write wins.
func (s *AdminService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if err := requireID(id); err != nil {
		return err
	}
	if !status.Valid() {
		return domain.Invalid("status", "status must be pending, confirmed or cancelled")
	}
	return domain.Gateway("update booking", s.bookings.UpdateBookingStatus(ctx, id, status))
}

func (s *AdminService) DeleteBooking(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirm(confirmed); err != nil {
		return err
	}
	return domain.Gateway("delete booking", s.bookings.DeleteBooking(ctx, id))
}

func (s *AdminService) ExportBookings(ctx context.Context, w io.Writer) error {
	bs, err := s.ListBookings(ctx)
	if err != nil {
		return err
	}
	return s.exporter.WriteBookings(w, bs)
}
