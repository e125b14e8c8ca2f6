// Package export renders bookings for download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hotel_site/internal/domain"
)

const bookingsSheet = "Bookings"

var bookingHeader = []any{
	"ID", "Name", "Email", "Phone", "Check-in", "Check-out", "Guests", "Room type", "Special requests", "Status", "Created at",
}

// XLSX writes one header row and one row per booking, in the order given.
type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) WriteBookings(w io.Writer, bs []domain.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(bookingsSheet, "A1", &bookingHeader); err != nil {
		return err
	}
	for i, b := range bs {
		row := []any{
			b.ID, b.Name, b.Email, b.Phone, b.CheckIn, b.CheckOut, b.Guests, b.RoomType,
			b.SpecialRequests, string(b.Status), b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(bookingsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
