// Package export renders the reservation schedule as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"meetmate/internal/models"
)

// ExcelWriter builds a workbook sheet by sheet.
type ExcelWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{
		file: excelize.NewFile(),
	}
}

// AddSheet starts a new sheet with the given name. The first call renames
// the workbook's default sheet.
func (w *ExcelWriter) AddSheet(name string) error {
	// Excel caps sheet names at 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

// WriteHeader writes a bold header row to the current sheet.
func (w *ExcelWriter) WriteHeader(columns []string) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

// WriteRow appends a data row to the current sheet.
func (w *ExcelWriter) WriteRow(row []any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}

	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *ExcelWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

func (w *ExcelWriter) Close() error {
	return w.file.Close()
}

// WriteSchedule renders a Rooms sheet and a Bookings sheet for the given
// data set.
func WriteSchedule(wr io.Writer, rooms []models.Room, bookings []models.Booking) error {
	w := NewExcelWriter()
	defer w.Close()

	roomNames := make(map[int64]string, len(rooms))

	if err := w.AddSheet("Rooms"); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"ID", "Name", "Location", "Capacity", "Type"}); err != nil {
		return err
	}
	for _, room := range rooms {
		roomNames[room.ID] = room.Name
		if err := w.WriteRow([]any{room.ID, room.Name, room.Location, room.Capacity, room.RoomType}); err != nil {
			return err
		}
	}

	if err := w.AddSheet("Bookings"); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"ID", "Date", "Start", "End", "Room", "User ID", "Admin ID", "Notes"}); err != nil {
		return err
	}
	for _, b := range bookings {
		roomName := roomNames[b.RoomID]
		if roomName == "" {
			roomName = fmt.Sprintf("room %d", b.RoomID)
		}
		var adminID any
		if b.BookingAdminID != nil {
			adminID = *b.BookingAdminID
		}
		err := w.WriteRow([]any{
			b.ID,
			b.Date.Format(models.DateLayout),
			b.TimeStart.String(),
			b.TimeEnd.String(),
			roomName,
			b.UserID,
			adminID,
			b.Notes,
		})
		if err != nil {
			return err
		}
	}

	return w.Save(wr)
}
