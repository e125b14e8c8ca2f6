package domain

import "time"

type Room struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Price       float64       `json:"price"` // nightly, MZN
	Capacity    LocalizedText `json:"capacity"`
	Amenities   LocalizedList `json:"amenities"`
	ImageURL    string        `json:"image_url"`
	Media       []string      `json:"media,omitempty"`
	Videos      []string      `json:"videos,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`

	// Fallback marks the hardcoded record served when the real row is missing.
	Fallback bool `json:"fallback,omitempty"`
}

// ServiceIcon names one of the icons the site knows how to draw.
type ServiceIcon string

var serviceIcons = []ServiceIcon{
	"wifi", "utensils", "car", "waves", "dumbbell",
	"coffee", "briefcase", "sparkles", "shirt", "plane",
}

func ServiceIcons() []ServiceIcon { return append([]ServiceIcon(nil), serviceIcons...) }

func (i ServiceIcon) Valid() bool {
	for _, v := range serviceIcons {
		if v == i {
			return true
		}
	}
	return false
}

type Service struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Icon        ServiceIcon   `json:"icon"`
	Price       *float64      `json:"price,omitempty"`
	Media       []string      `json:"media,omitempty"`
	Videos      []string      `json:"videos,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
