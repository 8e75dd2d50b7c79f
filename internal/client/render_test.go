package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

func TestWriteTripListEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTripList(&buf, nil); err != nil {
		t.Fatalf("WriteTripList: %v", err)
	}
	if strings.TrimSpace(buf.String()) != noTripsMessage {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteTripListRows(t *testing.T) {
	var buf bytes.Buffer
	trips := []domain.Trip{
		{ID: "2", UserSelection: domain.UserSelection{Location: "Goa", TotalDays: 3, Budget: "Low", TravelingWith: "Friends"}},
		{ID: "1"},
	}
	if err := WriteTripList(&buf, trips); err != nil {
		t.Fatalf("WriteTripList: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "3 Days • Low Budget • Friends") {
		t.Fatalf("expected subtitle, got %q", out)
	}
	if !strings.Contains(out, "Trip Destination") {
		t.Fatalf("expected placeholder title, got %q", out)
	}
}

func TestWriteTripDetails(t *testing.T) {
	var buf bytes.Buffer
	trip := domain.Trip{
		UserSelection: domain.UserSelection{Location: "Jaipur", TotalDays: 1},
		TripData: domain.TripPlan{
			HotelOptions: []domain.Hotel{{HotelName: "Palace Inn", PriceRange: "₹3,000", Rating: 4.5}},
			Itinerary:    []domain.DayPlan{{Day: "Day 1", PlaceName: "Amber Fort", TicketPricing: "₹200", BestTimeToVisit: "Morning"}},
		},
	}
	if err := WriteTrip(&buf, trip); err != nil {
		t.Fatalf("WriteTrip: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Jaipur", "Palace Inn", "4.5★", "Day 1: Amber Fort", "Tickets: ₹200 | Best time: Morning"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestDeletePrompt(t *testing.T) {
	if got := DeletePrompt(&domain.Trip{UserSelection: domain.UserSelection{Location: "Goa"}}); got != "Are you sure you want to delete Goa?" {
		t.Fatalf("unexpected prompt %q", got)
	}
	if got := DeletePrompt(nil); got != "Are you sure you want to delete this trip?" {
		t.Fatalf("unexpected prompt %q", got)
	}
}
