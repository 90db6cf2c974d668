package rje

import (
	"sort"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// Ref is the id/name pair rendered for sites, parcs and engins.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EnginIndicators is one flat row before grouping.
type EnginIndicators struct {
	Engin    Ref
	Site     Ref
	Parc     Ref
	Day      Indicators
	Month    Indicators
	Year     Indicators
	Objectif *domain.Objectif
}

// EnginRow is an engin line of the grouped report.
type EnginRow struct {
	Engin Ref        `json:"engin"`
	Day   Indicators `json:"day"`
	Month Indicators `json:"month"`
	Year  Indicators `json:"year"`
}

// ParcGroup lists the engins of one parc inside a site.
type ParcGroup struct {
	Parc     Ref              `json:"parc"`
	Engins   []EnginRow       `json:"engins"`
	Objectif *domain.Objectif `json:"objectif"`
}

// SiteGroup lists the parcs of one site.
type SiteGroup struct {
	Site  Ref         `json:"site"`
	Parcs []ParcGroup `json:"parcs"`
}

// Group folds the flat rows into site → parc → engin.
//
// A parc's objectif is the first non-nil objectif met among its engins, in input order.
// Sites, parcs and engins are sorted by name; equal names keep input order.
func Group(items []EnginIndicators) []SiteGroup {
	sites := make([]*SiteGroup, 0)
	siteIdx := make(map[string]int)
	parcIdx := make(map[string]map[string]int)

	for _, it := range items {
		si, ok := siteIdx[it.Site.ID]
		if !ok {
			si = len(sites)
			siteIdx[it.Site.ID] = si
			parcIdx[it.Site.ID] = make(map[string]int)
			sites = append(sites, &SiteGroup{Site: it.Site, Parcs: make([]ParcGroup, 0)})
		}
		sg := sites[si]

		pi, ok := parcIdx[it.Site.ID][it.Parc.ID]
		if !ok {
			pi = len(sg.Parcs)
			parcIdx[it.Site.ID][it.Parc.ID] = pi
			sg.Parcs = append(sg.Parcs, ParcGroup{Parc: it.Parc, Engins: make([]EnginRow, 0)})
		}
		pg := &sg.Parcs[pi]

		pg.Engins = append(pg.Engins, EnginRow{Engin: it.Engin, Day: it.Day, Month: it.Month, Year: it.Year})
		if pg.Objectif == nil && it.Objectif != nil {
			pg.Objectif = it.Objectif
		}
	}

	out := make([]SiteGroup, 0, len(sites))
	for _, sg := range sites {
		sort.SliceStable(sg.Parcs, func(i, j int) bool { return sg.Parcs[i].Parc.Name < sg.Parcs[j].Parc.Name })
		for k := range sg.Parcs {
			engins := sg.Parcs[k].Engins
			sort.SliceStable(engins, func(i, j int) bool { return engins[i].Engin.Name < engins[j].Engin.Name })
		}
		out = append(out, *sg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Site.Name < out[j].Site.Name })
	return out
}
