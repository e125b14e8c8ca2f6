package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_site/internal/domain"
)

const (
	keyRooms    = "rooms:all"
	keyServices = "services:all"
	keyGallery  = "gallery:all"
)

// CatalogService serves the public pages.
type CatalogService struct {
	rooms    domain.RoomRepository
	services domain.ServiceRepository
	gallery  domain.GalleryRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.RoomRepository, s domain.ServiceRepository, g domain.GalleryRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{rooms: r, services: s, gallery: g, cache: c, cacheTTL: ttl}
}

// cached reads key from the cache and falls back to load, storing the result.
// Cache failures never fail the read.
func cached[T any](ctx context.Context, c domain.Cache, ttl time.Duration, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c != nil {
		if ok, _ := c.Get(ctx, key, &v); ok {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		_ = c.Set(ctx, key, v, int(ttl.Seconds()))
	}
	return v, nil
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rs, err := cached(ctx, s.cache, s.cacheTTL, keyRooms, s.rooms.ListRooms)
	return rs, domain.Gateway("list rooms", err)
}

// GetRoom never fails on a missing or unreadable row: the page renders the fallback room instead.
func (s *CatalogService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Str("room_id", id).Msg("room lookup failed, serving fallback")
	}
	return FallbackRoom(id), nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	ss, err := cached(ctx, s.cache, s.cacheTTL, keyServices, s.services.ListServices)
	return ss, domain.Gateway("list services", err)
}

// ListGallery filters by category when one is given.
func (s *CatalogService) ListGallery(ctx context.Context, category domain.GalleryCategory) ([]domain.GalleryImage, error) {
	all, err := cached(ctx, s.cache, s.cacheTTL, keyGallery, s.gallery.ListGallery)
	if err != nil {
		return nil, domain.Gateway("list gallery", err)
	}
	if category == "" {
		return all, nil
	}
	out := make([]domain.GalleryImage, 0, len(all))
	for _, g := range all {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out, nil
}

type HomePage struct {
	Rooms    []domain.Room
	Services []domain.Service
	Gallery  []domain.GalleryImage
}

// Home builds the landing page: three rooms, every service and six gallery images.
func (s *CatalogService) Home(ctx context.Context) (HomePage, error) {
	var hp HomePage
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return hp, err
	}
	services, err := s.ListServices(ctx)
	if err != nil {
		return hp, err
	}
	gallery, err := s.ListGallery(ctx, "")
	if err != nil {
		return hp, err
	}
	hp.Rooms = head(rooms, 3)
	hp.Services = services
	hp.Gallery = head(gallery, 6)
	return hp, nil
}

func head[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}

// Quote prices a stay in the given room.
func (s *CatalogService) Quote(ctx context.Context, roomID, checkIn, checkOut string) (Quote, error) {
	r, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Quote{}, domain.Gateway("get room", err)
	}
	return Quote{
		RoomID:   r.ID,
		Nights:   Nights(checkIn, checkOut),
		Nightly:  r.Price,
		Total:    CalculateTotal(checkIn, checkOut, strconv.FormatFloat(r.Price, 'f', -1, 64)),
		Currency: "MZN",
	}, nil
}

type Quote struct {
	RoomID   string  `json:"room_id"`
	Nights   int     `json:"nights"`
	Nightly  float64 `json:"nightly"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// FallbackRoom is rendered when a room cannot be loaded.
func FallbackRoom(id string) domain.Room {
	return domain.Room{
		ID:          id,
		Title:       domain.LocalizedText{EN: "Standard Room", PT: "Quarto Standard"},
		Description: domain.LocalizedText{EN: "A comfortable room with everything you need for a relaxing stay.", PT: "Um quarto confortável com tudo o que precisa para uma estadia tranquila."},
		Price:       2500,
		Capacity:    domain.LocalizedText{EN: "2 Adults", PT: "2 Adultos"},
		Amenities: domain.LocalizedList{
			EN: []string{"Wi-Fi", "Air conditioning", "TV"},
			PT: []string{"Wi-Fi", "Ar condicionado", "TV"},
		},
		ImageURL: "/static/img/room-fallback.jpg",
		Fallback: true,
	}
}
