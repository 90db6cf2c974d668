package domain

// TypeParc groups parcs by equipment category (typeparcs table).
type TypeParc struct {
	ID           string `db:"id" json:"id"`
	EntrepriseID string `db:"entreprise_id" json:"entreprise_id"`
	Name         string `db:"name" json:"name"`
}

// Parc is a fleet subdivision (parcs table).
type Parc struct {
	ID           string  `db:"id" json:"id"`
	EntrepriseID string  `db:"entreprise_id" json:"entreprise_id"`
	TypeParcID   *string `db:"typeparc_id" json:"typeparc_id"`
	Name         string  `db:"name" json:"name"`

	// read-only, filled by joins
	TypeParcName string `db:"-" json:"typeparc_name,omitempty"`
}
