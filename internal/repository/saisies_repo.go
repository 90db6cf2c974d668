package repository

import (
	"context"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// SaisiesRepository daily HRM/HIM entries and lubricant consumption.
// Saisie tables carry no entreprise_id; tenant scoping goes through engins.
type SaisiesRepository interface {
	// ListHRMTree returns HRM rows with du in [from, to] and their HIM children.
	// enginID is optional.
	ListHRMTree(ctx context.Context, entrepriseID string, from, to time.Time, enginID string) ([]domain.Saisiehrm, error)
	GetHRM(ctx context.Context, entrepriseID, id string) (*domain.Saisiehrm, error)
	GetHRMByEnginDay(ctx context.Context, entrepriseID, enginID string, du time.Time) (*domain.Saisiehrm, error)
	// LockHRM takes a row lock on the HRM entry until the surrounding transaction ends.
	// Writers lock before reading the day's totals so hrm + Σhim is checked against committed children.
	LockHRM(ctx context.Context, entrepriseID, id string) error
	CreateHRM(ctx context.Context, hrm *domain.Saisiehrm) error
	UpdateHRM(ctx context.Context, hrm *domain.Saisiehrm) error
	DeleteHRM(ctx context.Context, entrepriseID, id string) error

	GetHIM(ctx context.Context, entrepriseID, id string) (*domain.Saisiehim, error)
	CreateHIM(ctx context.Context, him *domain.Saisiehim) error
	DeleteHIM(ctx context.Context, entrepriseID, id string) error

	CreateSaisieLubrifiant(ctx context.Context, sl *domain.SaisieLubrifiant) error
	ListLubrifiantConsumption(ctx context.Context, entrepriseID string, from, to time.Time) ([]domain.LubrifiantConsumption, error)
}
