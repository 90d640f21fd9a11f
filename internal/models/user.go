// Package models defines the domain records and form validation for
// ChargeKeeper: users and their charging schedules.
package models

import "time"

// User is a registered account owning up to a fixed number of schedules.
// Users are created at registration and never change afterwards.
type User struct {
	// ID is the storage-assigned identifier.
	ID int64

	// UserName is unique across all users.
	UserName string

	// Email is unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the password. The plaintext is
	// never persisted.
	PasswordHash string

	// CreatedAt is the registration time in UTC.
	CreatedAt time.Time
}
