package service

import (
	"context"
	"fmt"

	"tea-registry/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DashboardStats are the counters shown on the dashboard.
type DashboardStats struct {
	Registrants int `json:"cadastros"`
	VisitNotes  int `json:"consultas"`
	Staff       int `json:"usuarios"`
}

// ReportService builds the registration and consultation reports and their
// spreadsheet export.
type ReportService struct {
	registrants repository.RegistrantsRepository
	visits      repository.VisitNotesRepository
	staff       repository.StaffRepository
	logger      *zap.Logger
}

func NewReportService(registrants repository.RegistrantsRepository, visits repository.VisitNotesRepository,
	staff repository.StaffRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		registrants: registrants,
		visits:      visits,
		staff:       staff,
		logger:      logger,
	}
}

// RegistrantReport lists registrations joined with their creating staff
// account, filtered server-side.
func (s *ReportService) RegistrantReport(ctx context.Context, filters repository.RegistrantFilters) ([]*repository.RegistrantReport, error) {
	return s.registrants.ListRegistrantReport(ctx, filters)
}

// VisitReport lists every consultation joined with registrant and author.
func (s *ReportService) VisitReport(ctx context.Context) ([]*repository.VisitReport, error) {
	return s.visits.ListVisitReport(ctx)
}

// Stats returns the dashboard counters.
func (s *ReportService) Stats(ctx context.Context) (*DashboardStats, error) {
	registrants, err := s.registrants.CountRegistrants(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.CountVisitNotes(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.staff.CountStaff(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Registrants: registrants, VisitNotes: visits, Staff: staff}, nil
}

var registrantReportHeader = []string{
	"ID", "Nome", "Cadastrado em", "Atualizado em", "Cadastrado por", "Email do operador",
}

var visitReportHeader = []string{
	"ID", "Data", "Paciente", "CPF", "Título", "Resumo", "Observações", "Operador", "Email do operador",
}

const timeLayout = "02/01/2006 15:04"

// ExportExcel renders both reports into one workbook, a sheet each.
func (s *ReportService) ExportExcel(ctx context.Context, filters repository.RegistrantFilters) ([]byte, error) {
	registrations, err := s.RegistrantReport(ctx, filters)
	if err != nil {
		return nil, err
	}
	visits, err := s.VisitReport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	// WriteToBuffer needs the file open, so no deferred Close on success.

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	regSheet := "Cadastros"
	index, err := f.NewSheet(regSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	writeHeader(f, regSheet, registrantReportHeader, headerStyle)
	for i, rep := range registrations {
		updated := ""
		if rep.UpdatedAt != nil {
			updated = rep.UpdatedAt.Format(timeLayout)
		}
		row := []any{
			rep.ID, rep.Name, rep.CreatedAt.Format(timeLayout), updated,
			rep.CreatedByName, rep.CreatedByEmail,
		}
		writeRow(f, regSheet, i+2, row)
	}

	visitSheet := "Consultas"
	if _, err := f.NewSheet(visitSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	writeHeader(f, visitSheet, visitReportHeader, headerStyle)
	for i, rep := range visits {
		row := []any{
			rep.ID, rep.VisitedAt.Format(timeLayout), rep.Registrant, rep.RegistrantCPF,
			rep.Title, rep.Summary, rep.Notes, rep.AuthorName, rep.AuthorEmail,
		}
		writeRow(f, visitSheet, i+2, row)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	f.Close()

	s.logger.Info("report exported",
		zap.Int("registrations", len(registrations)), zap.Int("visits", len(visits)))
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) {
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
