// Package export renders the appointment history to an Excel workbook
// and hands it to the guardian chat.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/tg"
)

// BuildAppointmentsExcel writes one sheet per school, rows ordered as
// given (callers pass most-recent-first).
func BuildAppointmentsExcel(requests []models.AppointmentRequest, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	_ = f.DeleteSheet("Sheet1")

	if len(requests) == 0 {
		if _, err := f.NewSheet("Appointments"); err != nil {
			return nil, err
		}
		_ = f.SetCellValue("Appointments", "A1", "No appointment requests")
		return f, nil
	}

	rowBySheet := map[string]int{}
	for _, req := range requests {
		sheet := req.SchoolName
		if sheet == "" {
			sheet = "Appointments"
		}
		if _, seen := rowBySheet[sheet]; !seen {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
			header := []string{"Date", "Time", "Student", "Representative", "Category", "Duration", "Status", "Submitted", "Purpose"}
			for i, h := range header {
				cell, _ := excelize.CoordinatesToCellName(i+1, 1)
				_ = f.SetCellValue(sheet, cell, h)
			}
			rowBySheet[sheet] = 2
		}

		row := rowBySheet[sheet]
		values := []any{
			req.Date.In(loc).Format("02.01.2006"),
			req.Time.String(),
			req.StudentName,
			fmt.Sprintf("%s (%s)", req.RepresentativeName, req.RepresentativeTitle.DisplayName()),
			req.Category.DisplayName(),
			fmt.Sprintf("%d min", req.Duration.Minutes()),
			req.Status.DisplayName(),
			req.CreatedAt.In(loc).Format("02.01.2006 15:04"),
			req.Purpose,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		rowBySheet[sheet] = row + 1
	}
	return f, nil
}

// SendAppointmentsExcel builds the workbook and uploads it as a
// document.
func SendAppointmentsExcel(ctx context.Context, bot *tgbotapi.BotAPI, requests []models.AppointmentRequest, loc *time.Location, chatID int64) error {
	f, err := BuildAppointmentsExcel(requests, loc)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "appointments.xlsx",
		Bytes: buf.Bytes(),
	})
	doc.Caption = "Appointment history"
	_, err = tg.Send(bot, doc)
	return err
}
