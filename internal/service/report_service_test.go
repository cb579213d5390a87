package service_test

import (
	"bytes"
	"context"
	"testing"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/service"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func seedReportData(t *testing.T) (*fakeRegistrantsRepo, *fakeVisitsRepo, *fakeStaffRepo) {
	t.Helper()
	registrants := newFakeRegistrantsRepo()
	require.NoError(t, registrants.CreateRegistrant(context.Background(),
		&domain.Registrant{Name: "Ana Silva", CPF: "111.222.333-44"}))
	require.NoError(t, registrants.CreateRegistrant(context.Background(),
		&domain.Registrant{Name: "Bruno Costa"}))

	visits := newFakeVisitsRepo()
	visits.validRegistrants[1] = true
	require.NoError(t, visits.CreateVisitNote(context.Background(), &domain.VisitNote{
		RegistrantID: 1, Title: "Avaliação inicial", Summary: "Primeira consulta",
	}))

	staff := newFakeStaffRepo()
	require.NoError(t, staff.CreateStaff(context.Background(), &domain.StaffAccount{
		ID: "identity-1", Name: "João", Email: "joao@exemplo.org", Role: domain.RoleStandard, IsActive: true,
	}))
	return registrants, visits, staff
}

func TestReportService_Stats(t *testing.T) {
	registrants, visits, staff := seedReportData(t)
	svc := service.NewReportService(registrants, visits, staff, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.Registrants)
	require.Equal(t, 1, stats.VisitNotes)
	require.Equal(t, 1, stats.Staff)
}

func TestReportService_RegistrantReport_NewestFirst(t *testing.T) {
	registrants, visits, staff := seedReportData(t)
	svc := service.NewReportService(registrants, visits, staff, zap.NewNop())

	rows, err := svc.RegistrantReport(context.Background(), repository.RegistrantFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Bruno Costa", rows[0].Name)
	require.Equal(t, "Ana Silva", rows[1].Name)
}

func TestReportService_ExportExcel(t *testing.T) {
	registrants, visits, staff := seedReportData(t)
	svc := service.NewReportService(registrants, visits, staff, zap.NewNop())

	data, err := svc.ExportExcel(context.Background(), repository.RegistrantFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Contains(t, sheets, "Cadastros")
	require.Contains(t, sheets, "Consultas")
	require.NotContains(t, sheets, "Sheet1")

	// Header row plus one data row per record.
	name, err := f.GetCellValue("Cadastros", "B1")
	require.NoError(t, err)
	require.Equal(t, "Nome", name)
	first, err := f.GetCellValue("Cadastros", "B2")
	require.NoError(t, err)
	require.Equal(t, "Bruno Costa", first)

	visitTitle, err := f.GetCellValue("Consultas", "E2")
	require.NoError(t, err)
	require.Equal(t, "Avaliação inicial", visitTitle)
}
