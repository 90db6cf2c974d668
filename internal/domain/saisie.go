package domain

import "time"

// MaxHoursPerDay bounds hrm + Σhim for one engin on one day (checked at write time).
const MaxHoursPerDay = 24.0

// Saisiehrm is a daily operating-hours entry for one engin (saisiehrm table).
type Saisiehrm struct {
	ID      string      `db:"id" json:"id"`
	EnginID string      `db:"engin_id" json:"engin_id"`
	SiteID  string      `db:"site_id" json:"site_id"`
	Du      time.Time   `db:"du" json:"du"`
	HRM     float64     `db:"hrm" json:"hrm"`
	HIMs    []Saisiehim `db:"-" json:"saisiehim"`
}

// TotalHIM sums the downtime hours of the nested entries.
func (s *Saisiehrm) TotalHIM() float64 {
	var total float64
	for _, h := range s.HIMs {
		total += h.HIM
	}
	return total
}

// Saisiehim is a downtime entry against one panne (saisiehim table).
type Saisiehim struct {
	ID          string  `db:"id" json:"id"`
	SaisiehrmID string  `db:"saisiehrm_id" json:"saisiehrm_id"`
	PanneID     string  `db:"panne_id" json:"panne_id"`
	HIM         float64 `db:"him" json:"him"`
	NI          int     `db:"ni" json:"ni"`
	Obs         string  `db:"obs" json:"obs,omitempty"`

	PanneName string `db:"-" json:"panne_name,omitempty"`
}

// SaisieLubrifiant records a lubricant quantity consumed during a downtime entry.
type SaisieLubrifiant struct {
	ID           string  `db:"id" json:"id"`
	SaisiehimID  string  `db:"saisiehim_id" json:"saisiehim_id"`
	LubrifiantID string  `db:"lubrifiant_id" json:"lubrifiant_id"`
	Qte          float64 `db:"qte" json:"qte"`
	Obs          string  `db:"obs" json:"obs,omitempty"`
}

// LubrifiantConsumption is one aggregated line of the consumption report.
type LubrifiantConsumption struct {
	LubrifiantID   string  `json:"lubrifiant_id"`
	LubrifiantName string  `json:"lubrifiant_name"`
	Type           string  `json:"type"`
	Qte            float64 `json:"qte"`
}
