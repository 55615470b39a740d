package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"jobboard-api/internal/domain"
	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/validation"

	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportXLSX = "xlsx"
	ExportCSV  = "csv"
)

var applicationColumns = []string{
	"APPLIED AT", "NAME", "EMAIL", "PHONE", "OCCUPATION", "POSITION", "COMPANY", "CV",
}

type adminUsecase struct {
	users   domain.UserRepository
	jobs    domain.JobRepository
	applied domain.AppliedJobRepository
}

// AdminService adds format selection to the admin export.
type AdminService interface {
	domain.AdminUsecase
	ExportApplicationsAs(ctx context.Context, jobID, format string) ([]byte, string, error)
}

func NewAdminUsecase(users domain.UserRepository, jobs domain.JobRepository, applied domain.AppliedJobRepository) AdminService {
	return &adminUsecase{users: users, jobs: jobs, applied: applied}
}

func (u *adminUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return u.users.List(ctx)
}

func (u *adminUsecase) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, apperror.InvalidInput("Invalid input", []validation.FieldError{
			{Field: "role", Message: "must be one of: user, admin"},
		})
	}
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, userID string) error {
	if caller, ok := domain.IdentityFromContext(ctx); ok && caller.UserID == userID {
		return apperror.BadRequest("Admins cannot delete their own account here")
	}
	return u.users.Delete(ctx, userID)
}

// ListApplications joins every application to a job with its applicant, if still present.
func (u *adminUsecase) ListApplications(ctx context.Context, jobID string) ([]domain.ApplicantRow, error) {
	if _, err := u.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	applied, err := u.applied.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ApplicantRow, 0, len(applied))
	for _, a := range applied {
		row := domain.ApplicantRow{AppliedJob: a}
		user, err := u.users.GetByID(ctx, a.UserID)
		switch {
		case err == nil:
			row.Applicant = user
		case !apperror.IsNotFound(err):
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (u *adminUsecase) ExportApplications(ctx context.Context, jobID string) ([]byte, string, error) {
	return u.ExportApplicationsAs(ctx, jobID, ExportXLSX)
}

func (u *adminUsecase) ExportApplicationsAs(ctx context.Context, jobID, format string) ([]byte, string, error) {
	if format != ExportXLSX && format != ExportCSV {
		return nil, "", apperror.InvalidInput("Invalid input", []validation.FieldError{
			{Field: "format", Message: "must be one of: xlsx, csv"},
		})
	}
	rows, err := u.ListApplications(ctx, jobID)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	if format == ExportCSV {
		data, err = exportApplicationsCSV(rows)
	} else {
		data, err = exportApplicationsExcel(rows)
	}
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	filename := fmt.Sprintf("applications_%s_%s.%s", jobID, time.Now().UTC().Format("20060102_150405"), format)
	return data, filename, nil
}

func applicationRecord(row domain.ApplicantRow) []string {
	var name, email, phone, occupation string
	if row.Applicant != nil {
		name, email, phone, occupation = row.Applicant.Name, row.Applicant.Email, row.Applicant.Phone, row.Applicant.Occupation
	}
	return []string{
		row.AppliedJob.AppliedAt.Format(time.RFC3339),
		spreadsheetText(name),
		spreadsheetText(email),
		spreadsheetText(phone),
		spreadsheetText(occupation),
		spreadsheetText(row.AppliedJob.Position),
		spreadsheetText(row.AppliedJob.Company),
		spreadsheetText(row.AppliedJob.CV),
	}
}

// spreadsheetText stops user-supplied values from being read as formulas.
func spreadsheetText(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func exportApplicationsExcel(rows []domain.ApplicantRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range applicationColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(applicationColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range applicationRecord(row) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range applicationColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportApplicationsCSV(rows []domain.ApplicantRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(applicationColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(applicationRecord(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
