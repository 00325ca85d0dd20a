package engine

import (
	"context"
	"testing"
	"time"
)

func TestStreakFromDays(t *testing.T) {
	cases := []struct {
		name string
		days []time.Time
		want int
	}{
		{"no activity", nil, 0},
		{"single day", []time.Time{day(2026, 8, 24)}, 1},
		{"three consecutive", []time.Time{day(2026, 8, 24), day(2026, 8, 25), day(2026, 8, 26)}, 3},
		{"gap resets to suffix", []time.Time{
			day(2026, 8, 24), day(2026, 8, 25), day(2026, 8, 26), day(2026, 8, 28),
		}, 1},
		{"suffix after gap", []time.Time{
			day(2026, 8, 20), day(2026, 8, 25), day(2026, 8, 26), day(2026, 8, 27),
		}, 3},
		{"week unbroken", []time.Time{
			day(2026, 8, 20), day(2026, 8, 21), day(2026, 8, 22), day(2026, 8, 23),
			day(2026, 8, 24), day(2026, 8, 25), day(2026, 8, 26),
		}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StreakFromDays(tc.days); got != tc.want {
				t.Fatalf("StreakFromDays = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestServiceStreakDedupesSameDay(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// Three messages on the same day, then one the day after.
	base := day(2026, 8, 25)
	seedActiveDays(t, svc, "s1", base, base, base, base.AddDate(0, 0, 1))

	got, err := svc.Streak(ctx, "s1")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if got != 2 {
		t.Fatalf("streak = %d, want 2", got)
	}
}

func TestServiceStreakIgnoresBotRows(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedActiveDays(t, svc, "s1", day(2026, 8, 25))
	if err := svc.ActivityRepo().Insert(ctx, "s1", "bot", "reply", day(2026, 8, 26).Add(9*time.Hour)); err != nil {
		t.Fatalf("insert bot row: %v", err)
	}

	got, err := svc.Streak(ctx, "s1")
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if got != 1 {
		t.Fatalf("streak = %d, want 1 (bot rows are not activity)", got)
	}
}
