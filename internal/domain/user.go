package domain

// User (users table). RoleCodes come from user_roles.
type User struct {
	ID           string   `db:"id" json:"id"`
	EntrepriseID string   `db:"entreprise_id" json:"entreprise_id"`
	Email        string   `db:"email" json:"email"`
	Name         string   `db:"name" json:"name"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Lang         string   `db:"lang" json:"lang"`
	Active       bool     `db:"active" json:"active"`
	RoleCodes    []string `db:"-" json:"role_codes"`
}
