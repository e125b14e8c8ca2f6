package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// Catalog is the seed file shape: the same forms the admin console submits.
type Catalog struct {
	Rooms    []RoomForm    `json:"rooms"`
	Services []ServiceForm `json:"services"`
	Gallery  []GalleryForm `json:"gallery"`
}

func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// SeedTask fills one table. Tables that already hold rows are left alone,
// and rows go in file order so list ordering matches the file.
type SeedTask struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// SeedTasks returns one task per table in c.
func (s *AdminService) SeedTasks(c Catalog) []SeedTask {
	return []SeedTask{
		{Name: "rooms", Run: func(ctx context.Context) (int, error) {
			return seedAll(ctx, "rooms", c.Rooms, s.ListRooms, s.CreateRoom)
		}},
		{Name: "services", Run: func(ctx context.Context) (int, error) {
			return seedAll(ctx, "services", c.Services, s.ListServices, s.CreateService)
		}},
		{Name: "gallery", Run: func(ctx context.Context) (int, error) {
			return seedAll(ctx, "gallery", c.Gallery, s.ListGallery, s.CreateGalleryImage)
		}},
	}
}

func seedAll[F, E any](ctx context.Context, table string, forms []F,
	list func(context.Context) ([]E, error), create func(context.Context, F) (E, error)) (int, error) {
	if len(forms) == 0 {
		return 0, nil
	}
	existing, err := list(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Info().Str("table", table).Int("rows", len(existing)).Msg("seed skipped, table not empty")
		return 0, nil
	}
	for i, f := range forms {
		if _, err := create(ctx, f); err != nil {
			return i, fmt.Errorf("%s[%d]: %w", table, i, err)
		}
	}
	return len(forms), nil
}
