package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"hotel_site/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// valJSON always stores a JSON array, never NULL.
func valJSON(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func jsonList(b []byte) []string {
	out := []string{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC()
}

type scanner interface{ Scan(dest ...any) error }

// Repo is the system of record for every table the site uses.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// affected maps a zero-row write to ErrNotFound. MySQL reports changed rather than matched
// rows, so an update that rewrites identical values is confirmed with a lookup.
func (r *Repo) affected(ctx context.Context, res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	var one int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *Repo) deleted(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

/********** rooms **********/

func scanRoom(s scanner) (domain.Room, error) {
	var rm domain.Room
	var capEN, capPT sql.NullString
	var amenEN, amenPT, media, videos []byte
	if err := s.Scan(
		&rm.ID,
		&rm.Title.EN, &rm.Title.PT,
		&rm.Description.EN, &rm.Description.PT,
		&rm.Price,
		&capEN, &capPT,
		&amenEN, &amenPT,
		&rm.ImageURL,
		&media, &videos,
		&rm.CreatedAt,
	); err != nil {
		return domain.Room{}, err
	}
	rm.Capacity = domain.LocalizedText{EN: capEN.String, PT: capPT.String}
	rm.Amenities = domain.LocalizedList{EN: jsonList(amenEN), PT: jsonList(amenPT)}
	rm.Media = jsonList(media)
	rm.Videos = jsonList(videos)
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	rm.ID = uuid.NewString()
	rm.CreatedAt = stamp(rm.CreatedAt)
	_, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.ID,
		rm.Title.EN, rm.Title.PT,
		rm.Description.EN, rm.Description.PT,
		rm.Price,
		rm.Capacity.EN, rm.Capacity.PT,
		valJSON(rm.Amenities.EN), valJSON(rm.Amenities.PT),
		rm.ImageURL,
		valJSON(rm.Media), valJSON(rm.Videos),
		rm.CreatedAt,
	)
	if err != nil {
		return domain.Room{}, err
	}
	return rm, nil
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.Title.EN, rm.Title.PT,
		rm.Description.EN, rm.Description.PT,
		rm.Price,
		rm.Capacity.EN, rm.Capacity.PT,
		valJSON(rm.Amenities.EN), valJSON(rm.Amenities.PT),
		rm.ImageURL,
		valJSON(rm.Media), valJSON(rm.Videos),
		rm.ID,
	)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "rooms", rm.ID)
}

func (r *Repo) DeleteRoom(ctx context.Context, id string) error {
	return r.deleted(r.db.ExecContext(ctx, deleteRoomSQL, id))
}

/********** services **********/

func scanService(s scanner) (domain.Service, error) {
	var sv domain.Service
	var icon string
	var price sql.NullFloat64
	var media, videos []byte
	if err := s.Scan(
		&sv.ID,
		&sv.Title.EN, &sv.Title.PT,
		&sv.Description.EN, &sv.Description.PT,
		&icon, &price,
		&media, &videos,
		&sv.CreatedAt,
	); err != nil {
		return domain.Service{}, err
	}
	sv.Icon = domain.ServiceIcon(icon)
	if price.Valid {
		p := price.Float64
		sv.Price = &p
	}
	sv.Media = jsonList(media)
	sv.Videos = jsonList(videos)
	return sv, nil
}

func (r *Repo) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Service{}
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (r *Repo) GetService(ctx context.Context, id string) (domain.Service, error) {
	sv, err := scanService(r.db.QueryRowContext(ctx, getServiceSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Service{}, domain.ErrNotFound
	}
	return sv, err
}

func (r *Repo) CreateService(ctx context.Context, sv domain.Service) (domain.Service, error) {
	sv.ID = uuid.NewString()
	sv.CreatedAt = stamp(sv.CreatedAt)
	_, err := r.db.ExecContext(ctx, insertServiceSQL,
		sv.ID,
		sv.Title.EN, sv.Title.PT,
		sv.Description.EN, sv.Description.PT,
		string(sv.Icon), valF64(sv.Price),
		valJSON(sv.Media), valJSON(sv.Videos),
		sv.CreatedAt,
	)
	if err != nil {
		return domain.Service{}, err
	}
	return sv, nil
}

func (r *Repo) UpdateService(ctx context.Context, sv domain.Service) error {
	res, err := r.db.ExecContext(ctx, updateServiceSQL,
		sv.Title.EN, sv.Title.PT,
		sv.Description.EN, sv.Description.PT,
		string(sv.Icon), valF64(sv.Price),
		valJSON(sv.Media), valJSON(sv.Videos),
		sv.ID,
	)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "services", sv.ID)
}

func (r *Repo) DeleteService(ctx context.Context, id string) error {
	return r.deleted(r.db.ExecContext(ctx, deleteServiceSQL, id))
}

/********** gallery **********/

func scanGallery(s scanner) (domain.GalleryImage, error) {
	var g domain.GalleryImage
	var cat string
	if err := s.Scan(&g.ID, &g.Title.EN, &g.Title.PT, &cat, &g.ImageURL, &g.CreatedAt); err != nil {
		return domain.GalleryImage{}, err
	}
	g.Category = domain.GalleryCategory(cat)
	return g, nil
}

func (r *Repo) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx, listGallerySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.GalleryImage{}
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) GetGalleryImage(ctx context.Context, id string) (domain.GalleryImage, error) {
	g, err := scanGallery(r.db.QueryRowContext(ctx, getGallerySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GalleryImage{}, domain.ErrNotFound
	}
	return g, err
}

func (r *Repo) CreateGalleryImage(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = stamp(g.CreatedAt)
	_, err := r.db.ExecContext(ctx, insertGallerySQL, g.ID, g.Title.EN, g.Title.PT, string(g.Category), g.ImageURL, g.CreatedAt)
	if err != nil {
		return domain.GalleryImage{}, err
	}
	return g, nil
}

func (r *Repo) UpdateGalleryImage(ctx context.Context, g domain.GalleryImage) error {
	res, err := r.db.ExecContext(ctx, updateGallerySQL, g.Title.EN, g.Title.PT, string(g.Category), g.ImageURL, g.ID)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "gallery", g.ID)
}

func (r *Repo) DeleteGalleryImage(ctx context.Context, id string) error {
	return r.deleted(r.db.ExecContext(ctx, deleteGallerySQL, id))
}

/********** bookings **********/

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = stamp(b.CreatedAt)
	if b.Status == "" {
		b.Status = domain.StatusPending
	}
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.Name,
		b.Email,
		valStr(b.Phone),
		b.CheckIn,
		b.CheckOut,
		b.Guests,
		b.RoomType,
		valStr(b.SpecialRequests),
		string(b.Status),
		b.CreatedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var phone, requests sql.NullString
		var status string
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Email, &phone,
			&b.CheckIn, &b.CheckOut,
			&b.Guests, &b.RoomType, &requests, &status, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		b.Phone = phone.String
		b.SpecialRequests = requests.String
		b.Status = domain.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(s), id)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "bookings", id)
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	return r.deleted(r.db.ExecContext(ctx, deleteBookingSQL, id))
}

/********** admins **********/

func (r *Repo) FindAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRowContext(ctx, findAdminSQL, email).Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, err
}

// CreateAdmin provisions an admin account. The site itself never writes admins;
// this exists for operators and tests.
func (r *Repo) CreateAdmin(ctx context.Context, email, password string) (domain.Admin, error) {
	a := domain.Admin{ID: uuid.NewString(), Email: email, Password: password}
	if _, err := r.db.ExecContext(ctx, insertAdminSQL, a.ID, a.Email, a.Password); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}
