package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

func TestLockExcludesConcurrentHolders(t *testing.T) {
	ctx := context.Background()
	lock := NewLock()

	release, ok, err := lock.Acquire(ctx, "a@example.com", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, got ok=%v err=%v", ok, err)
	}
	if _, ok, _ := lock.Acquire(ctx, "a@example.com", time.Minute); ok {
		t.Fatalf("expected second acquire to fail while held")
	}
	if _, ok, _ := lock.Acquire(ctx, "b@example.com", time.Minute); !ok {
		t.Fatalf("expected other keys to be independent")
	}

	release()
	release()
	if _, ok, _ := lock.Acquire(ctx, "a@example.com", time.Minute); !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
}

func TestLockExpiredLeaseIsReplaced(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lock := NewLock()
	lock.now = func() time.Time { return now }

	staleRelease, _, _ := lock.Acquire(context.Background(), "k", time.Second)
	now = now.Add(2 * time.Second)
	if _, ok, _ := lock.Acquire(context.Background(), "k", time.Second); !ok {
		t.Fatalf("expected expired lease to be taken over")
	}

	staleRelease()
	if _, ok, _ := lock.Acquire(context.Background(), "k", time.Second); ok {
		t.Fatalf("stale release must not free the new holder")
	}
}

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	session := domain.Session{ID: "hash", Email: "a@example.com", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	got, err := store.FindActiveSession(ctx, "hash")
	if err != nil {
		t.Fatalf("FindActiveSession returned error: %v", err)
	}
	if got.Email != "a@example.com" {
		t.Fatalf("unexpected session %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.FindActiveSession(ctx, "hash"); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}

	now = now.Add(-2 * time.Hour)
	if err := store.DeactivateSession(ctx, "hash"); err != nil {
		t.Fatalf("DeactivateSession returned error: %v", err)
	}
	if _, err := store.FindActiveSession(ctx, "hash"); !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("expected deactivated session to be gone, got %v", err)
	}
}
