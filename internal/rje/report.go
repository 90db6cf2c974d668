package rje

import (
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// Input is the data snapshot of one report request.
type Input struct {
	Date time.Time
	// HRM rows (with HIM children) from year start to the end of Date.
	Saisies []domain.Saisiehrm
	// Engins ordered by site name, parc name, engin name.
	Engins []domain.Engin
	// Objectifs of Date's year.
	Objectifs []domain.Objectif
}

// Report is the JSON body of the RJE endpoint.
type Report struct {
	Date        string          `json:"date"`
	Sites       []SiteGroup     `json:"sites"`
	Objectifs   ObjectifSummary `json:"objectifs"`
	TotalEngins int             `json:"totalEngins"`
}

// Build computes the report. Engins without any HRM row in the year are left out.
func Build(in Input) *Report {
	w := NewWindows(in.Date)
	activity := IndexActivity(in.Saisies)
	objectifs := indexObjectifs(in.Objectifs)
	annee := in.Date.Year()

	dayNHO, monthNHO, yearNHO := w.Day.NHO(), w.Month.NHO(), w.Year.NHO()

	items := make([]EnginIndicators, 0, len(in.Engins))
	for _, e := range in.Engins {
		if !activity.HasActivity(e.ID, w.Year) {
			continue
		}
		items = append(items, EnginIndicators{
			Engin:    Ref{ID: e.ID, Name: e.Name},
			Site:     Ref{ID: e.SiteID, Name: e.SiteName},
			Parc:     Ref{ID: e.ParcID, Name: e.ParcName},
			Day:      Compute(activity.Totals(e.ID, w.Day), dayNHO),
			Month:    Compute(activity.Totals(e.ID, w.Month), monthNHO),
			Year:     Compute(activity.Totals(e.ID, w.Year), yearNHO),
			Objectif: objectifs.lookup(annee, e.ParcID, e.SiteID),
		})
	}

	return &Report{
		Date:        FormatDate(in.Date),
		Sites:       Group(items),
		Objectifs:   Summarize(in.Objectifs),
		TotalEngins: len(items),
	}
}
