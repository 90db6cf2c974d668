package domain

// Site (sites table)
type Site struct {
	ID           string `db:"id" json:"id"`
	EntrepriseID string `db:"entreprise_id" json:"entreprise_id"`
	Name         string `db:"name" json:"name"`
	Active       bool   `db:"active" json:"active"`
}
