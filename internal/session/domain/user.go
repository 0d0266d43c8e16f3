package domain

import "time"

// User is the account record backing a session. The session core only ever
// reads users; provisioning and profile updates happen elsewhere.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string // argon2id, PHC encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Projection is the public view of a user returned by whoami. It must never
// include the password hash.
type Projection struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Project maps a user to its public projection.
func (u User) Project() Projection {
	return Projection{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
