// Package account covers user registration and login.
package account

import "time"

const (
	RolePatient = "patient"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
