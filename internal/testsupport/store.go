package testsupport

import (
	"context"
	"testing"

	"gymforge/internal/config"
	"gymforge/internal/sessions"
)

// MustOpenStore opens a sessions.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sessions.Store {
	t.Helper()

	store, err := sessions.Open(cfg)
	if err != nil {
		t.Fatalf("sessions.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustAddSession registers a pending session and fails the test on error.
func MustAddSession(t testing.TB, store *sessions.Store, id, title string, kind sessions.Kind) *sessions.Session {
	t.Helper()

	session, err := store.Add(context.Background(), id, title, kind)
	if err != nil {
		t.Fatalf("sessions.Add(%s): %v", id, err)
	}
	return session
}
