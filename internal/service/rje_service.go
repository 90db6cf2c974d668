package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/excel"
	"github.com/ghalass/gmao-pro-sub001/internal/metrics"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/rje"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrDateRequired is returned when the report date parameter is missing.
var ErrDateRequired = domain.NewValidationError("Le paramètre date est requis", nil)

// RJEService fetches one tenant snapshot and hands it to the rje engine.
type RJEService struct {
	saisies   repository.SaisiesRepository
	engins    repository.EnginsRepository
	objectifs repository.ObjectifsRepository
	metrics   *metrics.Metrics
	loc       *time.Location
	logger    *zap.Logger
}

func NewRJEService(repos *repository.Repositories, m *metrics.Metrics, loc *time.Location, logger *zap.Logger) *RJEService {
	if loc == nil {
		loc = time.UTC
	}
	return &RJEService{
		saisies:   repos.Saisies,
		engins:    repos.Engins,
		objectifs: repos.Objectifs,
		metrics:   m,
		loc:       loc,
		logger:    logger,
	}
}

// Build computes the report of date (YYYY-MM-DD) for the tenant.
// The three queries run concurrently; any failure fails the whole report.
func (s *RJEService) Build(ctx context.Context, entrepriseID, date string) (*rje.Report, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrDateRequired
	}
	ref, err := rje.ParseDate(date, s.loc)
	if err != nil {
		return nil, domain.NewValidationError("Date invalide", domain.FieldErrors{"date": err.Error()})
	}

	start := time.Now()
	rep, err := s.build(ctx, entrepriseID, ref)
	engins := 0
	if rep != nil {
		engins = rep.TotalEngins
	}
	s.metrics.RJEBuilt(time.Since(start), engins, err)
	if err != nil {
		s.logger.Error("Failed to build RJE report",
			zap.String("entreprise_id", entrepriseID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, err
	}
	return rep, nil
}

func (s *RJEService) build(ctx context.Context, entrepriseID string, ref time.Time) (*rje.Report, error) {
	y, m, d := ref.Date()
	// DATE bounds of the year window
	from := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var (
		saisies   []domain.Saisiehrm
		engins    []domain.Engin
		objectifs []domain.Objectif
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		saisies, err = s.saisies.ListHRMTree(gctx, entrepriseID, from, to, "")
		if err != nil {
			return fmt.Errorf("failed to load saisies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		engins, err = s.engins.ListAllEngins(gctx, entrepriseID)
		if err != nil {
			return fmt.Errorf("failed to load engins: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		objectifs, err = s.objectifs.ListObjectifsByYear(gctx, entrepriseID, y)
		if err != nil {
			return fmt.Errorf("failed to load objectifs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rebaseDays(saisies, s.loc)
	return rje.Build(rje.Input{Date: ref, Saisies: saisies, Engins: engins, Objectifs: objectifs}), nil
}

// rebaseDays moves DATE values (UTC midnight from the driver) to midnight in loc,
// keeping the calendar date, so they compare with windows built in loc.
func rebaseDays(rows []domain.Saisiehrm, loc *time.Location) {
	for i := range rows {
		y, m, d := rows[i].Du.Date()
		rows[i].Du = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Export builds the report and renders it as an .xlsx workbook.
func (s *RJEService) Export(ctx context.Context, entrepriseID, date string) ([]byte, string, error) {
	rep, err := s.Build(ctx, entrepriseID, date)
	if err != nil {
		return nil, "", err
	}
	data, err := excel.RJEWorkbook(rep)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render RJE workbook: %w", err)
	}
	return data, fmt.Sprintf("rje_%s.xlsx", rep.Date), nil
}
