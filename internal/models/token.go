package models

import "time"

// APIToken is a personal access token for the JSON API. Only the
// sha256 digest of the secret is stored; the plaintext is shown
// exactly once at creation.
type APIToken struct {
	ID         string
	UserID     string
	Name       string
	Digest     string
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
