package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_site/internal/domain"
)

// Step is a state of the booking flow.
type Step int

const (
	StepStay Step = iota + 1
	StepContact
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepStay:
		return "stay"
	case StepContact:
		return "contact"
	case StepSuccess:
		return "success"
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

type StayDetails struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   string `json:"guests"`
	RoomType string `json:"room_type"`
}

type ContactDetails struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`
}

// BookingFlow is the two-step booking form: stay, then contact, then success.
// It holds no lock; a second Submit from the same state inserts a second row.
type BookingFlow struct {
	svc     *BookingService
	step    Step
	stay    StayDetails
	contact ContactDetails
	booking domain.Booking
}

func (s *BookingService) NewFlow() *BookingFlow {
	return &BookingFlow{svc: s, step: StepStay}
}

func (f *BookingFlow) Step() Step              { return f.step }
func (f *BookingFlow) Booking() domain.Booking { return f.booking }

// SetStay records stay fields; only meaningful in StepStay.
func (f *BookingFlow) SetStay(d StayDetails) {
	if f.step == StepStay {
		f.stay = d
	}
}

// Next moves from stay to contact when check-in, check-out and guests are filled in.
func (f *BookingFlow) Next() error {
	if f.step != StepStay {
		return domain.Invalid("step", "already past stay selection")
	}
	switch {
	case strings.TrimSpace(f.stay.CheckIn) == "":
		return domain.Invalid("check_in", "check-in date is required")
	case strings.TrimSpace(f.stay.CheckOut) == "":
		return domain.Invalid("check_out", "check-out date is required")
	case strings.TrimSpace(f.stay.Guests) == "":
		return domain.Invalid("guests", "number of guests is required")
	}
	f.step = StepContact
	return nil
}

func (f *BookingFlow) SetContact(c ContactDetails) {
	if f.step == StepContact {
		f.contact = c
	}
}

// Submit inserts one pending booking. On failure the flow stays on the contact step
// with every field kept so the guest can retry.
func (f *BookingFlow) Submit(ctx context.Context) error {
	if f.step != StepContact {
		return domain.Invalid("step", "stay details must be completed first")
	}
	if strings.TrimSpace(f.contact.Name) == "" {
		return domain.Invalid("name", "name is required")
	}
	if strings.TrimSpace(f.contact.Email) == "" {
		return domain.Invalid("email", "email is required")
	}
	b, err := f.svc.create(ctx, f.stay, f.contact)
	if err != nil {
		return err
	}
	f.booking = b
	f.step = StepSuccess
	return nil
}

// Reset clears every field and returns to the stay step.
func (f *BookingFlow) Reset() {
	*f = BookingFlow{svc: f.svc, step: StepStay}
}

// Cancel abandons the form from any step.
func (f *BookingFlow) Cancel() { f.Reset() }

// BookingService stores bookings made through the public flow.
type BookingService struct {
	repo   domain.BookingRepository
	events domain.BookingEvents
	now    func() time.Time
}

func NewBookingService(r domain.BookingRepository, ev domain.BookingEvents) *BookingService {
	return &BookingService{repo: r, events: ev, now: time.Now}
}

func (s *BookingService) create(ctx context.Context, stay StayDetails, c ContactDetails) (domain.Booking, error) {
	b := domain.Booking{
		Name:            strings.TrimSpace(c.Name),
		Email:           strings.TrimSpace(c.Email),
		Phone:           strings.TrimSpace(c.Phone),
		CheckIn:         strings.TrimSpace(stay.CheckIn),
		CheckOut:        strings.TrimSpace(stay.CheckOut),
		Guests:          strings.TrimSpace(stay.Guests),
		RoomType:        strings.TrimSpace(stay.RoomType),
		SpecialRequests: strings.TrimSpace(c.SpecialRequests),
		Status:          domain.StatusPending,
		CreatedAt:       s.now().UTC(),
	}
	out, err := s.repo.InsertBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, domain.Gateway("insert booking", err)
	}
	s.publish(ctx, out)
	return out, nil
}

// publishTimeout caps how long a stored booking waits on the broker.
const publishTimeout = 3 * time.Second

// publish is best effort; the booking already exists.
func (s *BookingService) publish(ctx context.Context, b domain.Booking) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	ev := domain.BookingCreatedEvent{
		BookingID: b.ID,
		Name:      b.Name,
		Email:     b.Email,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Guests:    b.Guests,
		RoomType:  b.RoomType,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingCreated(ctx, ev); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking event not published")
	}
}
