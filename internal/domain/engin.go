package domain

// Engin is a vehicle / piece of equipment (engins table).
// It belongs to exactly one site and one parc.
type Engin struct {
	ID                  string  `db:"id" json:"id"`
	EntrepriseID        string  `db:"entreprise_id" json:"entreprise_id"`
	SiteID              string  `db:"site_id" json:"site_id"`
	ParcID              string  `db:"parc_id" json:"parc_id"`
	Name                string  `db:"name" json:"name"`
	Active              bool    `db:"active" json:"active"`
	InitialHeureChassis float64 `db:"initial_heure_chassis" json:"initial_heure_chassis"`

	// read-only, filled by joins
	SiteName string `db:"-" json:"site_name,omitempty"`
	ParcName string `db:"-" json:"parc_name,omitempty"`
}
