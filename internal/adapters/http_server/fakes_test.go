package httpserver_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"hotel_site/internal/domain"
)

// memRepo is an in-memory stand-in for the MySQL repo.
type memRepo struct {
	mu       sync.Mutex
	seq      int
	rooms    []domain.Room
	services []domain.Service
	gallery  []domain.GalleryImage
	bookings []domain.Booking
	admins   []domain.Admin
}

func (m *memRepo) id(prefix string) (string, time.Time) {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq), time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func find[T any](list []T, match func(T) bool) int {
	return slices.IndexFunc(list, match)
}

func (m *memRepo) ListRooms(context.Context) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rooms), nil
}

func (m *memRepo) GetRoom(_ context.Context, id string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := find(m.rooms, func(r domain.Room) bool { return r.ID == id }); i >= 0 {
		return m.rooms[i], nil
	}
	return domain.Room{}, domain.ErrNotFound
}

func (m *memRepo) CreateRoom(_ context.Context, r domain.Room) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID, r.CreatedAt = m.id("room")
	m.rooms = append(m.rooms, r)
	return r, nil
}

func (m *memRepo) UpdateRoom(_ context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.rooms, func(x domain.Room) bool { return x.ID == r.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.rooms[i] = r
	return nil
}

func (m *memRepo) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.rooms, func(x domain.Room) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.rooms = slices.Delete(m.rooms, i, i+1)
	return nil
}

func (m *memRepo) ListServices(context.Context) ([]domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.services)
	slices.Reverse(out)
	return out, nil
}

func (m *memRepo) GetService(_ context.Context, id string) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := find(m.services, func(s domain.Service) bool { return s.ID == id }); i >= 0 {
		return m.services[i], nil
	}
	return domain.Service{}, domain.ErrNotFound
}

func (m *memRepo) CreateService(_ context.Context, s domain.Service) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID, s.CreatedAt = m.id("svc")
	m.services = append(m.services, s)
	return s, nil
}

func (m *memRepo) UpdateService(_ context.Context, s domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.services, func(x domain.Service) bool { return x.ID == s.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.services[i] = s
	return nil
}

func (m *memRepo) DeleteService(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.services, func(x domain.Service) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.services = slices.Delete(m.services, i, i+1)
	return nil
}

func (m *memRepo) ListGallery(context.Context) ([]domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.gallery)
	slices.Reverse(out)
	return out, nil
}

func (m *memRepo) GetGalleryImage(_ context.Context, id string) (domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := find(m.gallery, func(g domain.GalleryImage) bool { return g.ID == id }); i >= 0 {
		return m.gallery[i], nil
	}
	return domain.GalleryImage{}, domain.ErrNotFound
}

func (m *memRepo) CreateGalleryImage(_ context.Context, g domain.GalleryImage) (domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID, g.CreatedAt = m.id("img")
	m.gallery = append(m.gallery, g)
	return g, nil
}

func (m *memRepo) UpdateGalleryImage(_ context.Context, g domain.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.gallery, func(x domain.GalleryImage) bool { return x.ID == g.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.gallery[i] = g
	return nil
}

func (m *memRepo) DeleteGalleryImage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.gallery, func(x domain.GalleryImage) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.gallery = slices.Delete(m.gallery, i, i+1)
	return nil
}

func (m *memRepo) InsertBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID, _ = m.id("bk")
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *memRepo) ListBookings(context.Context) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.bookings)
	slices.Reverse(out)
	return out, nil
}

func (m *memRepo) UpdateBookingStatus(_ context.Context, id string, s domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.bookings, func(x domain.Booking) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.bookings[i].Status = s
	return nil
}

func (m *memRepo) DeleteBooking(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.bookings, func(x domain.Booking) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.bookings = slices.Delete(m.bookings, i, i+1)
	return nil
}

func (m *memRepo) FindAdminByEmail(_ context.Context, email string) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := find(m.admins, func(a domain.Admin) bool { return a.Email == email }); i >= 0 {
		return m.admins[i], nil
	}
	return domain.Admin{}, domain.ErrNotFound
}

type recEvents struct {
	mu  sync.Mutex
	got []domain.BookingCreatedEvent
}

func (e *recEvents) PublishBookingCreated(_ context.Context, ev domain.BookingCreatedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, ev)
	return nil
}
