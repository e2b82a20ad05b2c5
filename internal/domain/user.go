package domain

import "time"

const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
