package service_test

import (
	"context"
	"testing"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVisitService_Create(t *testing.T) {
	visits := newFakeVisitsRepo()
	visits.validRegistrants[7] = true
	svc := service.NewVisitService(visits, newFakeRegistrantsRepo(), zap.NewNop())

	note, err := svc.Create(context.Background(), 7, "identity-1",
		"  Avaliação inicial ", "Primeira consulta", "")
	require.NoError(t, err)
	require.NotZero(t, note.ID)
	require.Equal(t, "Avaliação inicial", note.Title)
	require.Equal(t, "identity-1", note.AuthorID)
	require.Equal(t, int64(7), note.RegistrantID)

	list, err := svc.ListForRegistrant(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestVisitService_Create_RequiresRegistrant(t *testing.T) {
	svc := service.NewVisitService(newFakeVisitsRepo(), newFakeRegistrantsRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), 0, "identity-1", "Título", "", "")
	var verr *service.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestVisitService_Create_RejectsEmptyNote(t *testing.T) {
	visits := newFakeVisitsRepo()
	visits.validRegistrants[7] = true
	svc := service.NewVisitService(visits, newFakeRegistrantsRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), 7, "identity-1", "  ", "", "  ")
	var verr *service.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestVisitService_Create_UnknownRegistrant(t *testing.T) {
	svc := service.NewVisitService(newFakeVisitsRepo(), newFakeRegistrantsRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), 99, "identity-1", "Título", "", "")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVisitService_ListForRegistrant_NewestFirst(t *testing.T) {
	visits := newFakeVisitsRepo()
	visits.validRegistrants[7] = true
	visits.validRegistrants[8] = true
	svc := service.NewVisitService(visits, newFakeRegistrantsRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), 7, "identity-1", "Primeira", "", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 8, "identity-1", "Outro paciente", "", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 7, "identity-1", "Segunda", "", "")
	require.NoError(t, err)

	list, err := svc.ListForRegistrant(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Segunda", list[0].Title)
	require.Equal(t, "Primeira", list[1].Title)
}

func TestVisitService_Picker(t *testing.T) {
	registrants := newFakeRegistrantsRepo()
	require.NoError(t, registrants.CreateRegistrant(context.Background(),
		&domain.Registrant{Name: "Ana Silva"}))
	svc := service.NewVisitService(newFakeVisitsRepo(), registrants, zap.NewNop())

	list, err := svc.Picker(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ana Silva", list[0].Name)
}
