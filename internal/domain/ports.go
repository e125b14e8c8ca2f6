package domain

import (
	"context"
	"io"
)

type RoomRepository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	CreateRoom(ctx context.Context, r Room) (Room, error)
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error
}

type ServiceRepository interface {
	ListServices(ctx context.Context) ([]Service, error) // newest first
	GetService(ctx context.Context, id string) (Service, error)
	CreateService(ctx context.Context, s Service) (Service, error)
	UpdateService(ctx context.Context, s Service) error
	DeleteService(ctx context.Context, id string) error
}

type GalleryRepository interface {
	ListGallery(ctx context.Context) ([]GalleryImage, error) // newest first
	GetGalleryImage(ctx context.Context, id string) (GalleryImage, error)
	CreateGalleryImage(ctx context.Context, g GalleryImage) (GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, g GalleryImage) error
	DeleteGalleryImage(ctx context.Context, id string) error
}

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error) // newest first
	UpdateBookingStatus(ctx context.Context, id string, s BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error
}

type AdminRepository interface {
	// FindAdminByEmail returns at most one admin with an exact email match.
	FindAdminByEmail(ctx context.Context, email string) (Admin, error)
}

// ObjectStore is the hosted bucket storage.
type ObjectStore interface {
	Upload(ctx context.Context, bucket Bucket, path, contentType string, body io.Reader) (string, error)
	PublicURL(bucket Bucket, path string) string
	Remove(ctx context.Context, bucket Bucket, paths []string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionCodec turns an AdminSession into an opaque token and back.
type SessionCodec interface {
	Encode(s AdminSession) (string, error)
	Decode(token string) (AdminSession, error)
}

type BookingEvents interface {
	PublishBookingCreated(ctx context.Context, ev BookingCreatedEvent) error
}

// BookingExporter writes bookings as a downloadable document.
type BookingExporter interface {
	WriteBookings(w io.Writer, bs []Booking) error
}
