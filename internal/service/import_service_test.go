package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/excel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func workbook(t *testing.T, headers []string, rows ...[]any) *bytes.Reader {
	t.Helper()
	cols := make([]excel.Column, len(headers))
	for i, h := range headers {
		cols[i] = excel.Column{Header: h}
	}
	data, err := excel.Write(excel.Sheet{Name: "Import", Columns: cols, Rows: rows})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func newTestImportService(t *testing.T) (*ImportService, *memState) {
	t.Helper()
	state := newMemState()
	state.seedFleet()
	return NewImportService(state, state.repos(), nil, zap.NewNop()), state
}

func TestImportService_Engins(t *testing.T) {
	svc, state := newTestImportService(t)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindEngins,
		File: workbook(t, []string{"Code engin", "Site", "Parc", "Heures châssis", "Actif"},
			[]any{"E-02", "site a", "Parc A", 1200, "oui"},
			[]any{"E-03", "Site A", "Parc A", "", "non"},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Empty(t, res.Errors)
	assert.Len(t, state.engins, 3)

	var inactive int
	for _, e := range state.engins {
		if e.Name == "E-02" {
			assert.Equal(t, 1200.0, e.InitialHeureChassis)
			assert.Equal(t, "site-a", e.SiteID)
		}
		if !e.Active {
			inactive++
		}
	}
	assert.Equal(t, 1, inactive)
}

func TestImportService_InvalidRowsWriteNothing(t *testing.T) {
	svc, state := newTestImportService(t)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindEngins,
		File: workbook(t, []string{"Engin", "Site", "Parc"},
			[]any{"E-02", "Site A", "Parc A"},
			[]any{"E-03", "Nowhere", "Parc A"},
			[]any{"E-02", "Site A", "Parc A"},
		),
	})
	require.Error(t, err)
	assert.Same(t, ErrImportRejected, err)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Errors, "site")
	assert.Equal(t, 4, res.Errors[1].Line)
	assert.Contains(t, res.Errors[1].Errors["name"], "ligne 2")
	assert.Len(t, state.engins, 1)
}

func TestImportService_ConflictRollsBack(t *testing.T) {
	svc, state := newTestImportService(t)

	// E-01 already exists; the first row must be rolled back with it
	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindEngins,
		File: workbook(t, []string{"Engin", "Site", "Parc"},
			[]any{"E-09", "Site A", "Parc A"},
			[]any{"E-01", "Site A", "Parc A"},
		),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Len(t, state.engins, 1)
}

func TestImportService_SaisiesHRM(t *testing.T) {
	svc, state := newTestImportService(t)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindSaisiesHRM,
		File: workbook(t, []string{"Date", "Engin", "HRM"},
			[]any{"2024-03-14", "E-01", "18,5"},
			[]any{"15/03/2024", "E-01", 20},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	rows, err := state.repos().Saisies.ListHRMTree(context.Background(), "ent-1",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 18.5, rows[0].HRM)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rows[1].Du)
}

func TestImportService_SaisiesHRMDateCells(t *testing.T) {
	svc, state := newTestImportService(t)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Date", "Engin", "HRM"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "E-01", 20}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), "E-01", 18.5}))
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A3", dateStyle))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindSaisiesHRM,
		File:         bytes.NewReader(buf.Bytes()),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	rows, err := state.repos().Saisies.ListHRMTree(context.Background(), "ent-1",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rows[0].Du)
	assert.Equal(t, 20.0, rows[0].HRM)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), rows[1].Du)
	assert.Equal(t, 18.5, rows[1].HRM)
}

func TestImportService_SaisiesHRMDuplicateDay(t *testing.T) {
	svc, state := newTestImportService(t)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindSaisiesHRM,
		File: workbook(t, []string{"Date", "Engin", "HRM"},
			[]any{"2024-03-15", "E-01", 10},
			[]any{"15/03/2024", "e-01", 12},
			[]any{"2024-03-16", "E-01", 30},
		),
	})
	require.Error(t, err)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Errors, "du")
	assert.Contains(t, res.Errors[1].Errors, "hrm")
	assert.Empty(t, state.hrms)
}

func TestImportService_UnknownKind(t *testing.T) {
	svc, _ := newTestImportService(t)

	_, err := svc.Import(context.Background(), ImportRequest{EntrepriseID: "ent-1", Kind: "pannes", File: bytes.NewReader(nil)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestImportService_Sites(t *testing.T) {
	svc, state := newTestImportService(t)

	res, err := svc.Import(context.Background(), ImportRequest{
		EntrepriseID: "ent-1",
		Kind:         excel.KindSites,
		File:         workbook(t, []string{"Nom du site", "Statut"}, []any{"Site B", "actif"}, []any{"Site C", "peut-être"}),
	})
	require.Error(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Len(t, state.sites, 1)
}
