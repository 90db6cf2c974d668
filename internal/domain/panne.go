package domain

// Panne is a failure type referenced by downtime entries (pannes table).
type Panne struct {
	ID           string `db:"id" json:"id"`
	EntrepriseID string `db:"entreprise_id" json:"entreprise_id"`
	Name         string `db:"name" json:"name"`
	Type         string `db:"type" json:"type"` // mecanique, electrique, pneumatique, ...
}
