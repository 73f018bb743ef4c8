// Package models holds the persistent entities of the password manager.
package models

import "time"

// User is an account. Both hashes are bcrypt; MasterPasswordHash is only
// used to verify a candidate master password and never to decrypt.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	MasterPasswordHash string
	CreatedAt          time.Time
}
