package app

import (
	"strconv"
	"strings"

	"hotel_site/internal/domain"
)

/********** list <-> text **********/

// SplitList splits comma separated form text, trims each segment and drops the empty ones,
// so "a, b,," becomes [a b].
func SplitList(text string) []string {
	out := []string{}
	for _, p := range strings.Split(text, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func JoinList(list []string) string { return strings.Join(list, ", ") }

func cleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if t := strings.TrimSpace(u); t != "" {
			out = append(out, t)
		}
	}
	return out
}

/********** admin form shapes **********/

// RoomForm is what the admin room dialog submits.
type RoomForm struct {
	TitleEN       string   `json:"title"`
	TitlePT       string   `json:"title_pt"`
	DescriptionEN string   `json:"description"`
	DescriptionPT string   `json:"description_pt"`
	Price         string   `json:"price"`
	CapacityEN    string   `json:"capacity"`
	CapacityPT    string   `json:"capacity_pt"`
	AmenitiesEN   string   `json:"amenities"`
	AmenitiesPT   string   `json:"amenities_pt"`
	ImageURL      string   `json:"image_url"`
	Media         []string `json:"media,omitempty"`
	Videos        []string `json:"videos,omitempty"`
}

func (f RoomForm) ToRoom() domain.Room {
	return domain.Room{
		Title:       domain.LocalizedText{EN: strings.TrimSpace(f.TitleEN), PT: strings.TrimSpace(f.TitlePT)},
		Description: domain.LocalizedText{EN: strings.TrimSpace(f.DescriptionEN), PT: strings.TrimSpace(f.DescriptionPT)},
		Price:       ParsePrice(f.Price),
		Capacity:    domain.LocalizedText{EN: strings.TrimSpace(f.CapacityEN), PT: strings.TrimSpace(f.CapacityPT)},
		Amenities:   domain.LocalizedList{EN: SplitList(f.AmenitiesEN), PT: SplitList(f.AmenitiesPT)},
		ImageURL:    strings.TrimSpace(f.ImageURL),
		Media:       cleanURLs(f.Media),
		Videos:      cleanURLs(f.Videos),
	}
}

func RoomFormFrom(r domain.Room) RoomForm {
	return RoomForm{
		TitleEN:       r.Title.EN,
		TitlePT:       r.Title.PT,
		DescriptionEN: r.Description.EN,
		DescriptionPT: r.Description.PT,
		Price:         strconv.FormatFloat(r.Price, 'f', -1, 64),
		CapacityEN:    r.Capacity.EN,
		CapacityPT:    r.Capacity.PT,
		AmenitiesEN:   JoinList(r.Amenities.EN),
		AmenitiesPT:   JoinList(r.Amenities.PT),
		ImageURL:      r.ImageURL,
		Media:         r.Media,
		Videos:        r.Videos,
	}
}

type ServiceForm struct {
	TitleEN       string   `json:"title"`
	TitlePT       string   `json:"title_pt"`
	DescriptionEN string   `json:"description"`
	DescriptionPT string   `json:"description_pt"`
	Icon          string   `json:"icon"`
	Price         string   `json:"price,omitempty"` // optional
	Media         []string `json:"media,omitempty"`
	Videos        []string `json:"videos,omitempty"`
}

func (f ServiceForm) ToService() domain.Service {
	s := domain.Service{
		Title:       domain.LocalizedText{EN: strings.TrimSpace(f.TitleEN), PT: strings.TrimSpace(f.TitlePT)},
		Description: domain.LocalizedText{EN: strings.TrimSpace(f.DescriptionEN), PT: strings.TrimSpace(f.DescriptionPT)},
		Icon:        domain.ServiceIcon(strings.TrimSpace(f.Icon)),
		Media:       cleanURLs(f.Media),
		Videos:      cleanURLs(f.Videos),
	}
	if strings.TrimSpace(f.Price) != "" {
		p := ParsePrice(f.Price)
		s.Price = &p
	}
	return s
}

func ServiceFormFrom(s domain.Service) ServiceForm {
	f := ServiceForm{
		TitleEN:       s.Title.EN,
		TitlePT:       s.Title.PT,
		DescriptionEN: s.Description.EN,
		DescriptionPT: s.Description.PT,
		Icon:          string(s.Icon),
		Media:         s.Media,
		Videos:        s.Videos,
	}
	if s.Price != nil {
		f.Price = strconv.FormatFloat(*s.Price, 'f', -1, 64)
	}
	return f
}

type GalleryForm struct {
	TitleEN  string `json:"title"`
	TitlePT  string `json:"title_pt"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

func (f GalleryForm) ToGalleryImage() domain.GalleryImage {
	return domain.GalleryImage{
		Title:    domain.LocalizedText{EN: strings.TrimSpace(f.TitleEN), PT: strings.TrimSpace(f.TitlePT)},
		Category: domain.GalleryCategory(strings.TrimSpace(f.Category)),
		ImageURL: strings.TrimSpace(f.ImageURL),
	}
}

/********** validation **********/

func validateRoom(r domain.Room) error {
	if !r.Title.Complete() {
		return domain.Invalid("title", "title is required in both languages")
	}
	if !r.Description.Complete() {
		return domain.Invalid("description", "description is required in both languages")
	}
	if r.Price <= 0 {
		return domain.Invalid("price", "price must be a positive number")
	}
	return nil
}

func validateService(s domain.Service) error {
	if !s.Title.Complete() {
		return domain.Invalid("title", "title is required in both languages")
	}
	if !s.Description.Complete() {
		return domain.Invalid("description", "description is required in both languages")
	}
	if !s.Icon.Valid() {
		return domain.Invalid("icon", "unknown icon "+strconv.Quote(string(s.Icon)))
	}
	if s.Price != nil && *s.Price < 0 {
		return domain.Invalid("price", "price cannot be negative")
	}
	return nil
}

func validateGallery(g domain.GalleryImage) error {
	if !g.Title.Complete() {
		return domain.Invalid("title", "title is required in both languages")
	}
	if !g.Category.Valid() {
		return domain.Invalid("category", "unknown category "+strconv.Quote(string(g.Category)))
	}
	if g.ImageURL == "" {
		return domain.Invalid("image_url", "image is required")
	}
	return nil
}
