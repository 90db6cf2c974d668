package rje

import "github.com/ghalass/gmao-pro-sub001/internal/domain"

// ObjectifSummary is the tenant-wide "global objective" row.
type ObjectifSummary struct {
	Dispo float64 `json:"dispo"`
	TDM   float64 `json:"tdm"`
	MTBF  float64 `json:"mtbf"`
}

// Summarize averages dispo, tdm and mtbf over every objectif of the year. A null field
// counts as 0 in the sum but the row still counts in the divisor; no rows gives zeros.
func Summarize(objectifs []domain.Objectif) ObjectifSummary {
	if len(objectifs) == 0 {
		return ObjectifSummary{}
	}
	var s ObjectifSummary
	for _, o := range objectifs {
		s.Dispo += valueOrZero(o.Dispo)
		s.TDM += valueOrZero(o.TDM)
		s.MTBF += valueOrZero(o.MTBF)
	}
	n := float64(len(objectifs))
	s.Dispo /= n
	s.TDM /= n
	s.MTBF /= n
	return s
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

type objectifKey struct {
	annee  int
	parcID string
	siteID string
}

// objectifIndex finds the objectif configured for (annee, parc, site).
type objectifIndex map[objectifKey]*domain.Objectif

func indexObjectifs(objectifs []domain.Objectif) objectifIndex {
	idx := make(objectifIndex, len(objectifs))
	for i := range objectifs {
		o := &objectifs[i]
		k := objectifKey{annee: o.Annee, parcID: o.ParcID, siteID: o.SiteID}
		if _, dup := idx[k]; !dup {
			idx[k] = o
		}
	}
	return idx
}

func (idx objectifIndex) lookup(annee int, parcID, siteID string) *domain.Objectif {
	return idx[objectifKey{annee: annee, parcID: parcID, siteID: siteID}]
}
