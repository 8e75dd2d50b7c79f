package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

func TestExportOneEventPerDay(t *testing.T) {
	trip := &domain.Trip{
		ID:            "1700000000000",
		UserSelection: domain.UserSelection{Location: "Goa", TotalDays: 2},
		TripData: domain.TripPlan{Itinerary: []domain.DayPlan{
			{Day: "Day 1", PlaceName: "Fort Aguada", PlaceDetails: "Sea fort", TicketPricing: "Free"},
			{Day: "Day 2", BestTimeToVisit: "Evening"},
		}},
	}

	out := Export(trip, time.Date(2026, 5, 31, 18, 0, 0, 0, time.UTC))

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 events, got %d\n%s", got, out)
	}
	for _, want := range []string{
		"SUMMARY:Day 1: Fort Aguada",
		"SUMMARY:Day 2: Goa",
		"20260601",
		"20260602",
		"UID:1700000000000-day-1@ai-trip-planner",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in calendar\n%s", want, out)
		}
	}
}

func TestExportEmptyItinerary(t *testing.T) {
	out := Export(&domain.Trip{ID: "1"}, time.Now())
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("expected no events")
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatalf("expected a calendar envelope")
	}
}
