package model

import "time"

// Session models a row in the `tokens` table. Each user holds at most
// one session: issuing a new token deletes the previous row. Only the
// SHA-256 hash of the bearer credential is stored; the raw token never
// touches the database.
//
// Fields:
//  ID         – primary key (tokens.id).
//  UserID     – owner of the session (tokens.userid).
//  TokenHash  – SHA-256 hex digest of the credential (tokens.token).
//  ExpiresAt  – hard expiry instant.
//  LastUsedAt – best-effort marker refreshed on successful resolution.
//  CreatedAt  – issuing timestamp.
type Session struct {
	ID         uint64     // tokens.id
	UserID     uint64     // tokens.userid
	TokenHash  string     // tokens.token
	ExpiresAt  time.Time  // tokens.expires_at
	LastUsedAt *time.Time // tokens.last_used_at (nullable)
	CreatedAt  time.Time  // tokens.created_at
}
