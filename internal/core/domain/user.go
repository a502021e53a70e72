package domain

import "time"

// User is a web shop account. PasswordHash is never serialised.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Locked       bool      `json:"locked"`
	Activated    bool      `json:"activated"`
	Addresses    []string  `json:"addresses"`
	PhoneNumbers []string  `json:"phone_numbers"`
	RoleID       string    `json:"-"`
	Role         *Role     `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher is the one-way adaptive hash applied on every password write.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Compare(hash, raw string) error
}

// SetPassword hashes raw and stores only the digest.
func (u *User) SetPassword(h PasswordHasher, raw string) error {
	hash, err := h.Hash(raw)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}
