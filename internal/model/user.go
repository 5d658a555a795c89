package model

import "github.com/carsharing/carsharing/internal/auth"

// User is an account record. Only the password hash is ever stored.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// SetPassword hashes password and stores the result in PasswordHash.
func (u *User) SetPassword(password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// VerifyPassword reports whether password matches the stored hash.
// A user without a hash never verifies.
func (u *User) VerifyPassword(password string) (bool, error) {
	if u.PasswordHash == "" {
		return false, nil
	}
	return auth.VerifyPassword(password, u.PasswordHash)
}
