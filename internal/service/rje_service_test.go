package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestRJEService(t *testing.T) (*RJEService, *memState) {
	t.Helper()
	state := newMemState()
	state.seedFleet()
	return NewRJEService(state.repos(), nil, time.UTC, zap.NewNop()), state
}

func TestRJEService_DateRequired(t *testing.T) {
	svc, _ := newTestRJEService(t)

	_, err := svc.Build(context.Background(), "ent-1", " ")
	assert.Same(t, ErrDateRequired, err)

	_, err = svc.Build(context.Background(), "ent-1", "15/03/2024")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRJEService_SingleEntry(t *testing.T) {
	svc, state := newTestRJEService(t)
	state.hrms["h1"] = domain.Saisiehrm{
		ID: "h1", EnginID: "engin-1", SiteID: "site-a",
		Du:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		HRM: 20,
		HIMs: []domain.Saisiehim{{ID: "m1", SaisiehrmID: "h1", PanneID: "panne-1", HIM: 4, NI: 1}},
	}

	rep, err := svc.Build(context.Background(), "ent-1", "2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", rep.Date)
	assert.Equal(t, 1, rep.TotalEngins)
	require.Len(t, rep.Sites, 1)
	require.Len(t, rep.Sites[0].Parcs, 1)
	require.Len(t, rep.Sites[0].Parcs[0].Engins, 1)

	row := rep.Sites[0].Parcs[0].Engins[0]
	assert.Equal(t, "E-01", row.Engin.Name)
	assert.Equal(t, 24.0, row.Day.NHO)
	assert.Equal(t, 83.33, row.Day.Disp)
	assert.Equal(t, 83.33, row.Day.TDM)
	assert.Equal(t, 20.0, row.Day.MTBF)
	assert.Equal(t, 20.0, row.Month.HRM)
	assert.Equal(t, 4.0, row.Year.HIM)
	assert.Equal(t, 1, row.Year.NI)

	// no objectif for 2024
	assert.Equal(t, 0.0, rep.Objectifs.Dispo)
	assert.Nil(t, rep.Sites[0].Parcs[0].Objectif)
}

func TestRJEService_OutsideWindowIgnored(t *testing.T) {
	svc, state := newTestRJEService(t)
	state.hrms["h1"] = domain.Saisiehrm{ID: "h1", EnginID: "engin-1", Du: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), HRM: 10}
	state.hrms["h2"] = domain.Saisiehrm{ID: "h2", EnginID: "engin-1", Du: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), HRM: 10}

	rep, err := svc.Build(context.Background(), "ent-1", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 0, rep.TotalEngins)
	assert.Empty(t, rep.Sites)
}

func TestRJEService_QueryFailureFailsReport(t *testing.T) {
	svc, state := newTestRJEService(t)
	state.enginsErr = errors.New("connection reset")

	_, err := svc.Build(context.Background(), "ent-1", "2024-03-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load engins")
}

func TestRJEService_Export(t *testing.T) {
	svc, state := newTestRJEService(t)
	state.hrms["h1"] = domain.Saisiehrm{ID: "h1", EnginID: "engin-1", Du: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), HRM: 12}

	data, name, err := svc.Export(context.Background(), "ent-1", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "rje_2024-03-15.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "RJE 2024-03-15")
}
