package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

type fakeSessionStore struct {
	mu      sync.Mutex
	byHash  map[string]model.User
	byUser  map[uint64]string // userID -> current hash
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byHash: map[string]model.User{}, byUser: map[uint64]string{}}
}

func (f *fakeSessionStore) LookupUser(_ context.Context, hash string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byHash[hash]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeSessionStore) TouchLastUsed(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeSessionStore) Replace(_ context.Context, userID uint64, hash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if old, ok := f.byUser[userID]; ok {
		delete(f.byHash, old)
	}
	f.byUser[userID] = hash
	f.byHash[hash] = model.User{ID: userID, UserType: "Client"}
	return nil
}

func (f *fakeSessionStore) DeleteByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byHash[hash]; ok {
		delete(f.byUser, u.ID)
		delete(f.byHash, hash)
	}
	return nil
}

func TestSessionRoundtrip(t *testing.T) {
	store := newFakeSessionStore()
	sessions := NewSessions(store, "test-secret", time.Hour)

	token, exp, err := sessions.Issue(context.Background(), model.User{ID: 42, UserType: "Client"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	ident, err := sessions.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ident.UserID)
	assert.Equal(t, RoleClient, ident.Role)
}

func TestSessionResolveFailures(t *testing.T) {
	store := newFakeSessionStore()
	sessions := NewSessions(store, "test-secret", time.Hour)

	_, err := sessions.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = sessions.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// A token signed with a different secret never reaches the store.
	other := NewSessions(newFakeSessionStore(), "other-secret", time.Hour)
	tok, _, err := other.Issue(context.Background(), model.User{ID: 1, UserType: "Client"})
	require.NoError(t, err)
	_, err = sessions.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionSingleCredential(t *testing.T) {
	store := newFakeSessionStore()
	sessions := NewSessions(store, "test-secret", time.Hour)

	first, _, err := sessions.Issue(context.Background(), model.User{ID: 42, UserType: "Client"})
	require.NoError(t, err)
	second, _, err := sessions.Issue(context.Background(), model.User{ID: 42, UserType: "Client"})
	require.NoError(t, err)

	// Issuing again kills the first credential.
	_, err = sessions.Resolve(context.Background(), first)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = sessions.Resolve(context.Background(), second)
	assert.NoError(t, err)
}

func TestSessionRevoke(t *testing.T) {
	store := newFakeSessionStore()
	sessions := NewSessions(store, "test-secret", time.Hour)

	token, _, err := sessions.Issue(context.Background(), model.User{ID: 42, UserType: "Client"})
	require.NoError(t, err)

	require.NoError(t, sessions.Revoke(context.Background(), token))
	_, err = sessions.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Revoking twice stays quiet.
	assert.NoError(t, sessions.Revoke(context.Background(), token))
}
