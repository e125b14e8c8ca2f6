package domain

import "time"

type GalleryCategory string

const (
	CategoryRooms   GalleryCategory = "rooms"
	CategoryDining  GalleryCategory = "dining"
	CategoryMeeting GalleryCategory = "meeting"
	CategoryPool    GalleryCategory = "pool"
	CategoryMisc    GalleryCategory = "misc"
)

func (c GalleryCategory) Valid() bool {
	switch c {
	case CategoryRooms, CategoryDining, CategoryMeeting, CategoryPool, CategoryMisc:
		return true
	}
	return false
}

type GalleryImage struct {
	ID        string          `json:"id"`
	Title     LocalizedText   `json:"title"`
	Category  GalleryCategory `json:"category"`
	ImageURL  string          `json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
}
