package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel_site/internal/domain"
)

// ---- in-memory store ----

type memStore struct {
	mu       sync.Mutex
	seq      int
	rooms    []domain.Room
	services []domain.Service
	gallery  []domain.GalleryImage
	bookings []domain.Booking
	admins   []domain.Admin
	failNext error
	// failUpdate fails the next UpdateRoom or UpdateService only.
	failUpdate error
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) stamp() time.Time {
	return time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func (m *memStore) updateFail() error {
	err := m.failUpdate
	m.failUpdate = nil
	return err
}

func (m *memStore) fail() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	return append([]domain.Room(nil), m.rooms...), nil
}

func (m *memStore) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return domain.Room{}, err
	}
	for _, r := range m.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (m *memStore) CreateRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return domain.Room{}, err
	}
	r.ID = m.nextID("room")
	r.CreatedAt = m.stamp()
	m.rooms = append(m.rooms, r)
	return r, nil
}

func (m *memStore) UpdateRoom(ctx context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if err := m.updateFail(); err != nil {
		return err
	}
	for i := range m.rooms {
		if m.rooms[i].ID == r.ID {
			r.CreatedAt = m.rooms[i].CreatedAt
			m.rooms[i] = r
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) DeleteRoom(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := append([]domain.Service(nil), m.services...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetService(ctx context.Context, id string) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.services {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Service{}, domain.ErrNotFound
}

func (m *memStore) CreateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return domain.Service{}, err
	}
	s.ID = m.nextID("svc")
	s.CreatedAt = m.stamp()
	m.services = append(m.services, s)
	return s, nil
}

func (m *memStore) UpdateService(ctx context.Context, s domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateFail(); err != nil {
		return err
	}
	for i := range m.services {
		if m.services[i].ID == s.ID {
			s.CreatedAt = m.services[i].CreatedAt
			m.services[i] = s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) DeleteService(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := append([]domain.GalleryImage(nil), m.gallery...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetGalleryImage(ctx context.Context, id string) (domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.gallery {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.GalleryImage{}, domain.ErrNotFound
}

func (m *memStore) CreateGalleryImage(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = m.nextID("img")
	g.CreatedAt = m.stamp()
	m.gallery = append(m.gallery, g)
	return g, nil
}

func (m *memStore) UpdateGalleryImage(ctx context.Context, g domain.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.gallery {
		if m.gallery[i].ID == g.ID {
			g.CreatedAt = m.gallery[i].CreatedAt
			m.gallery[i] = g
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) DeleteGalleryImage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.gallery {
		if m.gallery[i].ID == id {
			m.gallery = append(m.gallery[:i], m.gallery[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return domain.Booking{}, err
	}
	b.ID = m.nextID("bk")
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *memStore) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Booking(nil), m.bookings...), nil
}

func (m *memStore) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) DeleteBooking(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) FindAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Admin{}, domain.ErrNotFound
}

// ---- object store ----

type fakeObjects struct {
	mu       sync.Mutex
	objects  map[string][]byte
	uploads  int
	removed  []string
	failName string
}

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (f *fakeObjects) Upload(ctx context.Context, bucket domain.Bucket, path, ct string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failName != "" && strings.Contains(path, f.failName) {
		return "", errors.New("storage unavailable")
	}
	b, _ := io.ReadAll(body)
	f.objects[string(bucket)+"/"+path] = b
	return path, nil
}

func (f *fakeObjects) PublicURL(bucket domain.Bucket, path string) string {
	return "https://store.test/storage/v1/object/public/" + string(bucket) + "/" + path
}

func (f *fakeObjects) Remove(ctx context.Context, bucket domain.Bucket, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		delete(f.objects, string(bucket)+"/"+p)
		f.removed = append(f.removed, p)
	}
	return nil
}

// ---- cache ----

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Room:
		*d = v.([]domain.Room)
	case *[]domain.Service:
		*d = v.([]domain.Service)
	case *[]domain.GalleryImage:
		*d = v.([]domain.GalleryImage)
	default:
		return false, nil
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- events ----

type fakeEvents struct {
	got      []domain.BookingCreatedEvent
	err      error
	deadline time.Time
	block    bool // wait for ctx to end, like an unreachable broker
}

func (e *fakeEvents) PublishBookingCreated(ctx context.Context, ev domain.BookingCreatedEvent) error {
	e.got = append(e.got, ev)
	e.deadline, _ = ctx.Deadline()
	if e.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return e.err
}

// ---- session codec ----

type plainCodec struct{}

func (plainCodec) Encode(s domain.AdminSession) (string, error) {
	return "tok|" + s.ID + "|" + s.Email, nil
}

func (plainCodec) Decode(tok string) (domain.AdminSession, error) {
	parts := strings.Split(tok, "|")
	if len(parts) != 3 || parts[0] != "tok" {
		return domain.AdminSession{}, errors.New("malformed")
	}
	return domain.AdminSession{IsAdmin: true, ID: parts[1], Email: parts[2]}, nil
}
