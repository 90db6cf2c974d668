package domain

import "time"

// Entreprise is the tenant (entreprises table). Every fleet row is scoped by entreprise_id.
type Entreprise struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Lang      string    `db:"lang" json:"lang"` // fr / en
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
