package domain

import (
	"strconv"
	"strings"
)

const shareSeparator = " • "

// ShareSummary renders the one-line summary of a trip selection, skipping any
// part that is absent.
func ShareSummary(sel UserSelection) string {
	destination := strings.TrimSpace(sel.Location)
	if destination == "" {
		destination = "Trip"
	}
	parts := []string{destination}
	if sel.TotalDays > 0 {
		parts = append(parts, strconv.Itoa(sel.TotalDays)+" Day(s)")
	}
	if b := strings.TrimSpace(sel.Budget); b != "" {
		parts = append(parts, "Budget: "+b)
	}
	if w := strings.TrimSpace(sel.TravelingWith); w != "" {
		parts = append(parts, "With: "+w)
	}
	return strings.Join(parts, shareSeparator)
}

func ShareMessage(trip *Trip) string {
	var sel UserSelection
	if trip != nil {
		sel = trip.UserSelection
	}
	return "AI Trip Planner\n" + ShareSummary(sel) + "\n\nOpen the app to view full itinerary."
}
