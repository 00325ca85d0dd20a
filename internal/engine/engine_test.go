package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/KemboiK/evolve-bot/internal/storage"
)

func newTestService(t *testing.T, opts ...Option) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db, opts...)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func setProfile(t *testing.T, svc *Service, sessionKey string, xp, level int) {
	t.Helper()
	ctx := context.Background()
	p, err := svc.ProfileRepo().GetOrCreate(ctx, sessionKey, "")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	p.XP = xp
	p.Level = level
	if err := svc.ProfileRepo().Update(ctx, p); err != nil {
		t.Fatalf("update profile: %v", err)
	}
}

// seedActiveDays logs one user message per given day so the streak
// calculator sees those days as active.
func seedActiveDays(t *testing.T, svc *Service, sessionKey string, days ...time.Time) {
	t.Helper()
	ctx := context.Background()
	for _, d := range days {
		at := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
		if err := svc.ActivityRepo().Insert(ctx, sessionKey, storage.RoleUser, "hi", at); err != nil {
			t.Fatalf("seed activity: %v", err)
		}
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
