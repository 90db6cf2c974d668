package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObjectifService_CreateRejectsDuplicate(t *testing.T) {
	state := newMemState()
	state.seedFleet()
	svc := NewObjectifService(state.repos(), zap.NewNop())
	ctx := context.Background()

	req := SaveObjectifRequest{EntrepriseID: "ent-1", Annee: 2024, SiteID: "site-a", ParcID: "parc-a", Dispo: float(90)}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, created.MTBF)

	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, objectifDuplicateMsg, err.Error())

	// updating the same row keeps its key
	req.ID = created.ID
	req.TDM = float(70)
	updated, err := svc.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 70.0, *updated.TDM)
}

func TestObjectifService_UnknownReferences(t *testing.T) {
	state := newMemState()
	state.seedFleet()
	svc := NewObjectifService(state.repos(), zap.NewNop())

	_, err := svc.Create(context.Background(), SaveObjectifRequest{EntrepriseID: "ent-1", Annee: 2024, SiteID: "site-x", ParcID: "parc-a"})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "site_id")
}
