package domain

// Lubricant types
const (
	LubrifiantHuile   = "huile"
	LubrifiantGO      = "go"
	LubrifiantGraisse = "graisse"
)

// Lubrifiant (lubrifiants table)
type Lubrifiant struct {
	ID           string `db:"id" json:"id"`
	EntrepriseID string `db:"entreprise_id" json:"entreprise_id"`
	Name         string `db:"name" json:"name"`
	Type         string `db:"type" json:"type"`
}
