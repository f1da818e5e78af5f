package models

import "time"

// BlacklistedToken marks a revoked bearer token. Entries carry an explicit
// validity horizon instead of relying on background deletion: lookups check
// expires_at themselves and a scheduled job sweeps expired rows.
type BlacklistedToken struct {
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
