package domain

// Objectif is a yearly target, unique per (annee, parc_id, site_id).
// Every KPI is nullable: an admin may configure only some of them.
type Objectif struct {
	ID           string   `db:"id" json:"id"`
	EntrepriseID string   `db:"entreprise_id" json:"entreprise_id"`
	Annee        int      `db:"annee" json:"annee"`
	SiteID       string   `db:"site_id" json:"site_id"`
	ParcID       string   `db:"parc_id" json:"parc_id"`
	Dispo        *float64 `db:"dispo" json:"dispo"`
	MTBF         *float64 `db:"mtbf" json:"mtbf"`
	TDM          *float64 `db:"tdm" json:"tdm"`
	SpeHuile     *float64 `db:"spe_huile" json:"spe_huile"`
	SpeGO        *float64 `db:"spe_go" json:"spe_go"`
	SpeGraisse   *float64 `db:"spe_graisse" json:"spe_graisse"`
}
