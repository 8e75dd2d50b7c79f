package domain

import (
	"strings"
	"testing"
	"time"
)

func TestShareSummaryOmitsMissingParts(t *testing.T) {
	got := ShareSummary(UserSelection{Location: "Goa", TotalDays: 3})
	if got != "Goa • 3 Day(s)" {
		t.Fatalf("unexpected summary %q", got)
	}
	if strings.Contains(got, "undefined") || strings.HasSuffix(got, "• ") {
		t.Fatalf("summary contains stray parts: %q", got)
	}
}

func TestShareSummaryFull(t *testing.T) {
	got := ShareSummary(UserSelection{Location: "Goa", TotalDays: 3, Budget: "Low", TravelingWith: "Family"})
	want := "Goa • 3 Day(s) • Budget: Low • With: Family"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestShareMessageWithoutSelection(t *testing.T) {
	got := ShareMessage(&Trip{})
	want := "AI Trip Planner\nTrip\n\nOpen the app to view full itinerary."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDailyUsageTransitions(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	today := UsageDate(now, loc)
	if today != "2026-03-02" {
		t.Fatalf("expected local calendar date, got %s", today)
	}

	var none *DailyUsage
	if none.LimitReached(today, 1) {
		t.Fatalf("missing usage must not reach the limit")
	}
	if next := none.Next(today); next.Count != 1 || next.Date != today {
		t.Fatalf("unexpected first usage: %+v", next)
	}

	used := &DailyUsage{Date: today, Count: 1}
	if !used.LimitReached(today, 1) {
		t.Fatalf("expected limit to be reached")
	}
	if next := used.Next(today); next.Count != 2 {
		t.Fatalf("expected same-day increment, got %+v", next)
	}

	stale := &DailyUsage{Date: "2026-03-01", Count: 7}
	if stale.LimitReached(today, 1) {
		t.Fatalf("previous day usage must not count")
	}
	if next := stale.Next(today); next.Count != 1 {
		t.Fatalf("expected reset on a new day, got %+v", next)
	}
}

func TestNewTripIDIsMillis(t *testing.T) {
	id := NewTripID(time.UnixMilli(1700000000123))
	if id != "1700000000123" {
		t.Fatalf("unexpected id %s", id)
	}
}
