package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// SessionStore is the persistence surface the resolver needs. Lookup
// must only return a user for a token hash whose session has not
// expired; Replace must atomically drop any prior session for the user
// so at most one credential is ever valid.
type SessionStore interface {
	LookupUser(ctx context.Context, tokenHash string) (model.User, error)
	TouchLastUsed(ctx context.Context, tokenHash string, at time.Time) error
	Replace(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	DeleteByHash(ctx context.Context, tokenHash string) error
}

// Sessions issues and resolves bearer credentials. The credential is a
// signed token whose SHA-256 hash is the stored session row, so the
// database stays authoritative: signature-valid tokens die the moment
// their row is replaced or expires.
type Sessions struct {
	store  SessionStore
	secret string
	ttl    time.Duration
}

// NewSessions constructs a Sessions resolver. ttl is the session
// lifetime applied at issue time.
func NewSessions(store SessionStore, secret string, ttl time.Duration) *Sessions {
	if store == nil {
		panic("nil store passed to NewSessions")
	}
	return &Sessions{store: store, secret: secret, ttl: ttl}
}

// Issue signs a fresh credential for the user and replaces any prior
// session row. The raw token goes back to the client; only its hash is
// stored.
func (s *Sessions) Issue(ctx context.Context, user model.User) (string, time.Time, error) {
	tok, err := utils.NewSessionToken(s.secret, user.ID, user.UserType, s.ttl)
	if err != nil {
		return "", time.Time{}, storageErr("issue session", err)
	}
	if err := s.store.Replace(ctx, user.ID, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return "", time.Time{}, storageErr("store session", err)
	}
	return tok.Raw, tok.Exp, nil
}

// Resolve maps a bearer credential onto an Identity. Any failure
// (missing header, bad signature, expired or superseded session) comes
// back as ErrUnauthenticated without detail. On success the session's
// last_used_at marker is refreshed in a detached goroutine; a failed
// refresh never fails the request.
func (s *Sessions) Resolve(ctx context.Context, credential string) (Identity, error) {
	u, err := s.ResolveUser(ctx, credential)
	if err != nil {
		return Identity{}, err
	}
	role, ok := ParseRole(u.UserType)
	if !ok {
		// Unknown role strings get the least-privileged role.
		role = RoleClient
	}
	return Identity{UserID: u.ID, Role: role}, nil
}

// ResolveUser is Resolve but returns the full user record, for the
// verify/profile endpoints that echo user fields back.
func (s *Sessions) ResolveUser(ctx context.Context, credential string) (model.User, error) {
	if credential == "" {
		return model.User{}, ErrUnauthenticated
	}
	if err := utils.VerifySessionToken(s.secret, credential); err != nil {
		return model.User{}, ErrUnauthenticated
	}
	hash := utils.HashTokenRaw(credential)
	u, err := s.store.LookupUser(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUnauthenticated
		}
		return model.User{}, storageErr("lookup session", err)
	}

	go func() {
		tctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.TouchLastUsed(tctx, hash, time.Now().UTC()); err != nil {
			log.Printf("session: last_used refresh failed: %v", err)
		}
	}()
	return u, nil
}

// Revoke deletes the session bound to the credential. Revoking an
// unknown credential is not an error.
func (s *Sessions) Revoke(ctx context.Context, credential string) error {
	if credential == "" {
		return ErrUnauthenticated
	}
	if err := s.store.DeleteByHash(ctx, utils.HashTokenRaw(credential)); err != nil {
		return storageErr("revoke session", err)
	}
	return nil
}
