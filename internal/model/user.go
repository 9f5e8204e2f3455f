package model

import (
	"errors"
	"strings"
	"time"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 6
)

// User is a locally registered account. PasswordHash is a demo-grade digest,
// not a credential-protection primitive.
type User struct {
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < MinUsernameLen {
		return errors.New("model: username must be at least 3 characters")
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		return errors.New("model: display name is required")
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return errors.New("model: password hash is required")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("model: user created_at is required")
	}
	return nil
}
