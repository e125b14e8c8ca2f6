package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"hotel_site/internal/app"
	"hotel_site/internal/domain"
)

type csvExporter struct{}

func (csvExporter) WriteBookings(w io.Writer, bs []domain.Booking) error {
	for _, b := range bs {
		if _, err := io.WriteString(w, b.ID+","+b.Name+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func newAdmin(store *memStore, objects *fakeObjects, cache *fakeCache) *app.AdminService {
	return app.NewAdminService(app.AdminDeps{
		Rooms: store, Services: store, Gallery: store, Bookings: store,
		Media:    app.NewMediaService(objects, app.DefaultMediaLimits(), 2),
		Cache:    cache,
		Exporter: csvExporter{},
	})
}

func roomForm() app.RoomForm {
	return app.RoomForm{
		TitleEN: "Deluxe Room", TitlePT: "Quarto Deluxe",
		DescriptionEN: "Ocean view", DescriptionPT: "Vista para o mar",
		Price: "3500", CapacityEN: "2 Adults", CapacityPT: "2 Adultos",
		AmenitiesEN: "Wi-Fi, Minibar", AmenitiesPT: "Wi-Fi, Frigobar",
		ImageURL: "https://cdn.example.com/deluxe.jpg",
	}
}

func TestCreateRoom_RequiresBilingualFields(t *testing.T) {
	store := &memStore{}
	admin := newAdmin(store, newFakeObjects(), &fakeCache{})
	f := roomForm()
	f.DescriptionPT = "  "
	if _, err := admin.CreateRoom(context.Background(), f); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	f = roomForm()
	f.Price = "free"
	if _, err := admin.CreateRoom(context.Background(), f); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected price validation error, got %v", err)
	}
	if len(store.rooms) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestRoomCRUD_InvalidatesCache(t *testing.T) {
	store := &memStore{}
	cache := &fakeCache{}
	admin := newAdmin(store, newFakeObjects(), cache)
	ctx := context.Background()

	r, err := admin.CreateRoom(ctx, roomForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f := roomForm()
	f.Price = "4,000"
	if _, err := admin.UpdateRoom(ctx, r.ID, f); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := admin.GetRoom(ctx, r.ID)
	if got.Price != 4000 {
		t.Fatalf("price not updated: %v", got.Price)
	}
	if err := admin.DeleteRoom(ctx, r.ID, false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := admin.DeleteRoom(ctx, r.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cache.dels) != 3 {
		t.Fatalf("want 3 invalidations, got %v", cache.dels)
	}
}

func TestCreateService_RejectsUnknownIcon(t *testing.T) {
	admin := newAdmin(&memStore{}, newFakeObjects(), &fakeCache{})
	_, err := admin.CreateService(context.Background(), app.ServiceForm{
		TitleEN: "Spa", TitlePT: "Spa", DescriptionEN: "Massage", DescriptionPT: "Massagem", Icon: "rocket",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListServices_NewestFirst(t *testing.T) {
	admin := newAdmin(&memStore{}, newFakeObjects(), &fakeCache{})
	ctx := context.Background()
	for _, title := range []string{"Airport transfer", "Laundry"} {
		if _, err := admin.CreateService(ctx, app.ServiceForm{
			TitleEN: title, TitlePT: title, DescriptionEN: "d", DescriptionPT: "d", Icon: "car",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	ss, _ := admin.ListServices(ctx)
	if len(ss) != 2 || ss[0].Title.EN != "Laundry" {
		t.Fatalf("unexpected order: %+v", ss)
	}
}

func TestDeleteGalleryImage_SkipsForeignURL(t *testing.T) {
	store := &memStore{}
	objects := newFakeObjects()
	admin := newAdmin(store, objects, &fakeCache{})
	ctx := context.Background()

	foreign, err := admin.CreateGalleryImage(ctx, app.GalleryForm{
		TitleEN: "Pool", TitlePT: "Piscina", Category: "pool", ImageURL: "https://images.example.org/pool.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	own, err := admin.CreateGalleryImage(ctx, app.GalleryForm{
		TitleEN: "Dining", TitlePT: "Restaurante", Category: "dining",
		ImageURL: objects.PublicURL(domain.BucketGalleryMedia, "gallery/1-abc.jpg"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := admin.DeleteGalleryImage(ctx, foreign.ID, true); err != nil {
		t.Fatalf("delete foreign: %v", err)
	}
	list, _ := admin.ListGallery(ctx)
	if len(list) != 1 || list[0].ID != own.ID {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
	if len(objects.removed) != 0 {
		t.Fatalf("foreign url must not reach storage: %v", objects.removed)
	}

	if err := admin.DeleteGalleryImage(ctx, own.ID, true); err != nil {
		t.Fatalf("delete own: %v", err)
	}
	if len(objects.removed) != 1 || objects.removed[0] != "gallery/1-abc.jpg" {
		t.Fatalf("unexpected removed: %v", objects.removed)
	}
}

func TestGalleryRejectsUnknownCategory(t *testing.T) {
	admin := newAdmin(&memStore{}, newFakeObjects(), &fakeCache{})
	_, err := admin.CreateGalleryImage(context.Background(), app.GalleryForm{
		TitleEN: "Spa", TitlePT: "Spa", Category: "spa", ImageURL: "https://x.example/a.jpg",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddRoomMedia_UploadsAndSaves(t *testing.T) {
	store := &memStore{}
	objects := newFakeObjects()
	admin := newAdmin(store, objects, &fakeCache{})
	ctx := context.Background()
	r, _ := admin.CreateRoom(ctx, roomForm())

	r, err := admin.AddRoomMedia(ctx, r.ID, domain.MediaImage, images(2, 100))
	if err != nil {
		t.Fatalf("add media: %v", err)
	}
	if len(r.Media) != 2 {
		t.Fatalf("want 2 media, got %v", r.Media)
	}
	r, err = admin.AddRoomMediaURL(ctx, r.ID, domain.MediaVideo, "https://youtube.com/watch?v=tour")
	if err != nil || len(r.Videos) != 1 {
		t.Fatalf("add url: %v %v", r.Videos, err)
	}
	r, err = admin.RemoveRoomMedia(ctx, r.ID, r.Media[0])
	if err != nil || len(r.Media) != 1 || len(objects.removed) != 1 {
		t.Fatalf("remove: media=%v removed=%v err=%v", r.Media, objects.removed, err)
	}
	stored, _ := admin.GetRoom(ctx, r.ID)
	if len(stored.Media) != 1 || len(stored.Videos) != 1 {
		t.Fatalf("stored room not updated: %+v", stored)
	}
}

func TestAddMedia_SaveFailureDiscardsUploads(t *testing.T) {
	store := &memStore{}
	objects := newFakeObjects()
	admin := newAdmin(store, objects, &fakeCache{})
	ctx := context.Background()
	r, _ := admin.CreateRoom(ctx, roomForm())
	sv, err := admin.CreateService(ctx, app.ServiceForm{
		TitleEN: "Spa", TitlePT: "Spa", DescriptionEN: "Massages", DescriptionPT: "Massagens", Icon: "sparkles",
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	store.failUpdate = errors.New("deadlock")
	if _, err := admin.AddRoomMedia(ctx, r.ID, domain.MediaImage, images(2, 100)); !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	store.failUpdate = errors.New("deadlock")
	if _, err := admin.AddServiceMedia(ctx, sv.ID, domain.MediaImage, images(1, 100)); !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	if objects.uploads != 3 || len(objects.removed) != 3 || len(objects.objects) != 0 {
		t.Fatalf("uploads=%d removed=%v left=%v", objects.uploads, objects.removed, objects.objects)
	}
	stored, _ := admin.GetRoom(ctx, r.ID)
	if len(stored.Media) != 0 {
		t.Fatalf("room media should be unchanged, got %v", stored.Media)
	}
}

func TestUpdate_KeepsCreatedAt(t *testing.T) {
	store := &memStore{}
	admin := newAdmin(store, newFakeObjects(), &fakeCache{})
	ctx := context.Background()

	r, _ := admin.CreateRoom(ctx, roomForm())
	ur, err := admin.UpdateRoom(ctx, r.ID, roomForm())
	if err != nil || ur.CreatedAt.IsZero() || !ur.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("room created_at %v -> %v (err %v)", r.CreatedAt, ur.CreatedAt, err)
	}

	sf := app.ServiceForm{TitleEN: "Spa", TitlePT: "Spa", DescriptionEN: "Massages", DescriptionPT: "Massagens", Icon: "sparkles"}
	sv, _ := admin.CreateService(ctx, sf)
	usv, err := admin.UpdateService(ctx, sv.ID, sf)
	if err != nil || usv.CreatedAt.IsZero() || !usv.CreatedAt.Equal(sv.CreatedAt) {
		t.Fatalf("service created_at %v -> %v (err %v)", sv.CreatedAt, usv.CreatedAt, err)
	}

	gf := app.GalleryForm{TitleEN: "Pool", TitlePT: "Piscina", Category: "pool", ImageURL: "https://cdn.example.com/pool.jpg"}
	g, _ := admin.CreateGalleryImage(ctx, gf)
	ug, err := admin.UpdateGalleryImage(ctx, g.ID, gf)
	if err != nil || ug.CreatedAt.IsZero() || !ug.CreatedAt.Equal(g.CreatedAt) {
		t.Fatalf("gallery created_at %v -> %v (err %v)", g.CreatedAt, ug.CreatedAt, err)
	}

	if _, err := admin.UpdateRoom(ctx, "room-missing", roomForm()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingAdmin_StatusDeleteExport(t *testing.T) {
	store := &memStore{bookings: []domain.Booking{{ID: "bk-1", Name: "Ana", Status: domain.StatusPending}}}
	admin := newAdmin(store, newFakeObjects(), &fakeCache{})
	ctx := context.Background()

	if err := admin.UpdateBookingStatus(ctx, "bk-1", "archived"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := admin.UpdateBookingStatus(ctx, "bk-1", domain.StatusConfirmed); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.bookings[0].Status != domain.StatusConfirmed {
		t.Fatalf("status not updated")
	}

	var buf bytes.Buffer
	if err := admin.ExportBookings(ctx, &buf); err != nil || buf.String() != "bk-1,Ana\n" {
		t.Fatalf("export: %q %v", buf.String(), err)
	}

	if err := admin.DeleteBooking(ctx, "bk-1", false); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := admin.DeleteBooking(ctx, "bk-1", true); err != nil || len(store.bookings) != 0 {
		t.Fatalf("delete: %v", err)
	}
	if err := admin.DeleteBooking(ctx, "bk-1", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
