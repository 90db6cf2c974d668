package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func float(v float64) *float64 { return &v }

func newTestSaisieService(t *testing.T) (*SaisieService, *memState, *recordingPublisher) {
	t.Helper()
	state := newMemState()
	state.seedFleet()
	pub := &recordingPublisher{}
	svc := NewSaisieService(state, state.repos(), pub, nil, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, state, pub
}

func TestSaisieService_SaveHRMCreatesThenUpdates(t *testing.T) {
	svc, state, pub := newTestSaisieService(t)
	ctx := context.Background()

	created, err := svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(18)})
	require.NoError(t, err)
	assert.Equal(t, "site-a", created.SiteID)

	updated, err := svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(20)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Len(t, state.hrms, 1)
	assert.Equal(t, 20.0, state.hrms[created.ID].HRM)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeHRMSaved, pub.events[1].Type)
	assert.Equal(t, "2024-03-15", pub.events[1].Du)
}

func TestSaisieService_SaveHRMValidation(t *testing.T) {
	svc, _, _ := newTestSaisieService(t)

	_, err := svc.SaveHRM(context.Background(), SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(25)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.SaveHRM(context.Background(), SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "unknown", Du: "2024-03-15", HRM: float(5)})
	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "engin_id")
}

func TestSaisieService_HoursPerDayInvariant(t *testing.T) {
	svc, state, _ := newTestSaisieService(t)
	ctx := context.Background()

	hrm, err := svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(20)})
	require.NoError(t, err)

	_, err = svc.CreateHIM(ctx, CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: hrm.ID, PanneID: "panne-1", HIM: float(4), NI: float(1)})
	require.NoError(t, err)

	// 20 + 4 + 0.5 > 24
	_, err = svc.CreateHIM(ctx, CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: hrm.ID, PanneID: "panne-1", HIM: float(0.5)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Len(t, state.hrms[hrm.ID].HIMs, 1)

	// raising hrm above 24 - Σhim is refused as well
	_, err = svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(21)})
	require.Error(t, err)
	assert.Equal(t, 20.0, state.hrms[hrm.ID].HRM)
}

func TestSaisieService_WritersLockParentHRM(t *testing.T) {
	svc, state, _ := newTestSaisieService(t)
	ctx := context.Background()

	hrm, err := svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(10)})
	require.NoError(t, err)
	assert.Empty(t, state.hrmLocks, "a new row is guarded by the unique (engin, day) key")

	_, err = svc.CreateHIM(ctx, CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: hrm.ID, PanneID: "panne-1", HIM: float(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{hrm.ID}, state.hrmLocks)

	// the update path locks and then sees the HIM committed above
	_, err = svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(23)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []string{hrm.ID, hrm.ID}, state.hrmLocks)

	_, err = svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(22)})
	require.NoError(t, err)
	assert.Equal(t, 22.0, state.hrms[hrm.ID].HRM)
}

func TestSaisieService_CreateHIMUnknownParent(t *testing.T) {
	svc, state, _ := newTestSaisieService(t)

	_, err := svc.CreateHIM(context.Background(), CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: "missing", PanneID: "panne-1", HIM: float(1)})

	require.Error(t, err)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Saisie HRM introuvable", verr.Fields["saisiehrm_id"])
	assert.Empty(t, state.hrmLocks)
}

func TestSaisieService_CreateHIMRejectsHugeNI(t *testing.T) {
	svc, state, _ := newTestSaisieService(t)
	ctx := context.Background()
	hrm, err := svc.SaveHRM(ctx, SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(10)})
	require.NoError(t, err)

	_, err = svc.CreateHIM(ctx, CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: hrm.ID, PanneID: "panne-1", HIM: float(1), NI: float(1e20)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields["ni"], "2147483647")
	assert.Empty(t, state.hrms[hrm.ID].HIMs)

	_, err = svc.CreateHIM(ctx, CreateHIMRequest{EntrepriseID: "ent-1", SaisiehrmID: hrm.ID, PanneID: "panne-1", HIM: float(1), NI: float(2147483647)})
	require.NoError(t, err)
}

func TestSaisieService_PublishFailureKeepsWrite(t *testing.T) {
	svc, state, pub := newTestSaisieService(t)
	pub.err = errors.New("broker down")

	_, err := svc.SaveHRM(context.Background(), SaveHRMRequest{EntrepriseID: "ent-1", EnginID: "engin-1", Du: "2024-03-15", HRM: float(8)})
	require.NoError(t, err)
	assert.Len(t, state.hrms, 1)
}

func TestSaisieService_ListHRMDefaultsToToday(t *testing.T) {
	svc, state, _ := newTestSaisieService(t)
	state.hrms["h1"] = domain.Saisiehrm{ID: "h1", EnginID: "engin-1", Du: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), HRM: 10}
	state.hrms["h2"] = domain.Saisiehrm{ID: "h2", EnginID: "engin-1", Du: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), HRM: 12}

	rows, err := svc.ListHRM(context.Background(), ListHRMRequest{EntrepriseID: "ent-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "h1", rows[0].ID)
}
