package mysql

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const roomColumns = `id, title, title_pt, description, description_pt, price, capacity, capacity_pt,
  amenities, amenities_pt, image_url, media, videos, created_at`

// Rooms keep insertion order.
const listRoomsSQL = `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at ASC, id ASC`

const getRoomSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ? LIMIT 1`

const insertRoomSQL = `
INSERT INTO rooms
  (id, title, title_pt, description, description_pt, price, capacity, capacity_pt,
   amenities, amenities_pt, image_url, media, videos, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET
  title          = ?,
  title_pt       = ?,
  description    = ?,
  description_pt = ?,
  price          = ?,
  capacity       = ?,
  capacity_pt    = ?,
  amenities      = ?,
  amenities_pt   = ?,
  image_url      = ?,
  media          = ?,
  videos         = ?
WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

// -----------------------------------------------------------------------------
// SERVICES
// -----------------------------------------------------------------------------

const serviceColumns = `id, title, title_pt, description, description_pt, icon, price, media, videos, created_at`

const listServicesSQL = `SELECT ` + serviceColumns + ` FROM services ORDER BY created_at DESC, id DESC`

const getServiceSQL = `SELECT ` + serviceColumns + ` FROM services WHERE id = ? LIMIT 1`

const insertServiceSQL = `
INSERT INTO services
  (id, title, title_pt, description, description_pt, icon, price, media, videos, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateServiceSQL = `
UPDATE services SET
  title          = ?,
  title_pt       = ?,
  description    = ?,
  description_pt = ?,
  icon           = ?,
  price          = ?,
  media          = ?,
  videos         = ?
WHERE id = ?
`

const deleteServiceSQL = `DELETE FROM services WHERE id = ?`

// -----------------------------------------------------------------------------
// GALLERY
// -----------------------------------------------------------------------------

const galleryColumns = `id, title, title_pt, category, image_url, created_at`

const listGallerySQL = `SELECT ` + galleryColumns + ` FROM gallery ORDER BY created_at DESC, id DESC`

const getGallerySQL = `SELECT ` + galleryColumns + ` FROM gallery WHERE id = ? LIMIT 1`

const insertGallerySQL = `
INSERT INTO gallery (id, title, title_pt, category, image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateGallerySQL = `
UPDATE gallery SET title = ?, title_pt = ?, category = ?, image_url = ?
WHERE id = ?
`

const deleteGallerySQL = `DELETE FROM gallery WHERE id = ?`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings
  (id, name, email, phone, check_in, check_out, guests, room_type, special_requests, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// DATE columns are formatted back to YYYY-MM-DD so they round-trip as the strings guests typed.
const listBookingsSQL = `
SELECT id, name, email, phone,
  DATE_FORMAT(check_in, '%Y-%m-%d'), DATE_FORMAT(check_out, '%Y-%m-%d'),
  guests, room_type, special_requests, status, created_at
FROM bookings
ORDER BY created_at DESC, id DESC
`

const updateBookingStatusSQL = `UPDATE bookings SET status = ? WHERE id = ?`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

// -----------------------------------------------------------------------------
// ADMINS
// -----------------------------------------------------------------------------

const findAdminSQL = `SELECT id, email, password, created_at FROM admins WHERE email = ? COLLATE utf8mb4_bin LIMIT 1`

const insertAdminSQL = `INSERT INTO admins (id, email, password) VALUES (?, ?, ?)`
