package excel

import (
	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/rje"
)

// EnginsWorkbook exports the engins list.
func EnginsWorkbook(engins []domain.Engin) ([]byte, error) {
	sh := Sheet{
		Name: "Engins",
		Columns: []Column{
			{Header: "Engin", Width: 20},
			{Header: "Parc", Width: 20},
			{Header: "Site", Width: 20},
			{Header: "Heures châssis", Width: 16},
			{Header: "Actif", Width: 8},
		},
		Rows: make([][]any, 0, len(engins)),
	}
	for _, e := range engins {
		active := "Non"
		if e.Active {
			active = "Oui"
		}
		sh.Rows = append(sh.Rows, []any{e.Name, e.ParcName, e.SiteName, e.InitialHeureChassis, active})
	}
	return Write(sh)
}

var indicatorHeaders = []string{"NHO", "HRM", "HIM", "NI", "DISP", "TDM", "MTBF", "MTTR", "HRD", "UTIL"}

func indicatorCells(in rje.Indicators) []any {
	return []any{in.NHO, in.HRM, in.HIM, in.NI, in.Disp, in.TDM, in.MTBF, in.MTTR, in.HRD, in.Util}
}

// RJEWorkbook renders a report: one line per engin with the day (J), month (M)
// and year (A) indicators, then the objectives summary on a second sheet.
func RJEWorkbook(rep *rje.Report) ([]byte, error) {
	cols := []Column{{Header: "Site", Width: 18}, {Header: "Parc", Width: 18}, {Header: "Engin", Width: 18}}
	for _, period := range []string{"J", "M", "A"} {
		for _, h := range indicatorHeaders {
			cols = append(cols, Column{Header: h + " " + period, Width: 9})
		}
	}
	cols = append(cols, Column{Header: "Obj. DISP", Width: 10}, Column{Header: "Obj. MTBF", Width: 10}, Column{Header: "Obj. TDM", Width: 10})

	report := Sheet{Name: "RJE " + rep.Date, Columns: cols}
	for _, site := range rep.Sites {
		for _, parc := range site.Parcs {
			for _, e := range parc.Engins {
				row := []any{site.Site.Name, parc.Parc.Name, e.Engin.Name}
				row = append(row, indicatorCells(e.Day)...)
				row = append(row, indicatorCells(e.Month)...)
				row = append(row, indicatorCells(e.Year)...)
				row = append(row, objectifCell(parc.Objectif, func(o *domain.Objectif) *float64 { return o.Dispo }),
					objectifCell(parc.Objectif, func(o *domain.Objectif) *float64 { return o.MTBF }),
					objectifCell(parc.Objectif, func(o *domain.Objectif) *float64 { return o.TDM }))
				report.Rows = append(report.Rows, row)
			}
		}
	}

	summary := Sheet{
		Name:    "Objectifs",
		Columns: []Column{{Header: "Date", Width: 12}, {Header: "Engins", Width: 10}, {Header: "DISP", Width: 10}, {Header: "TDM", Width: 10}, {Header: "MTBF", Width: 10}},
		Rows:    [][]any{{rep.Date, rep.TotalEngins, rep.Objectifs.Dispo, rep.Objectifs.TDM, rep.Objectifs.MTBF}},
	}
	return Write(report, summary)
}

func objectifCell(o *domain.Objectif, get func(*domain.Objectif) *float64) any {
	if o == nil {
		return ""
	}
	if v := get(o); v != nil {
		return *v
	}
	return ""
}
