package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

const ContentType = "text/calendar; charset=utf-8"

// Export renders one all-day event per itinerary day. The first day is the
// day after start.
func Export(trip *domain.Trip, start time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//AI Trip Planner//Itinerary//EN")
	cal.SetXWRCalName(domain.ShareSummary(trip.UserSelection))

	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for i, day := range trip.TripData.Itinerary {
		date := first.AddDate(0, 0, i)
		event := cal.AddEvent(fmt.Sprintf("%s-day-%d@ai-trip-planner", trip.ID, i+1))
		event.SetDtStampTime(start.UTC())
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(eventSummary(day, trip.UserSelection.Location))
		if desc := eventDescription(day); desc != "" {
			event.SetDescription(desc)
		}
		if day.GeoCoordinates != "" {
			event.SetLocation(day.GeoCoordinates)
		}
	}
	return cal.Serialize()
}

func eventSummary(day domain.DayPlan, location string) string {
	parts := []string{day.Day}
	switch {
	case day.PlaceName != "":
		parts = append(parts, day.PlaceName)
	case location != "":
		parts = append(parts, location)
	}
	return strings.Join(parts, ": ")
}

func eventDescription(day domain.DayPlan) string {
	var lines []string
	if day.PlaceDetails != "" {
		lines = append(lines, day.PlaceDetails)
	}
	if day.TicketPricing != "" {
		lines = append(lines, "Tickets: "+day.TicketPricing)
	}
	if day.TravelTime != "" {
		lines = append(lines, "Travel time: "+day.TravelTime)
	}
	if day.BestTimeToVisit != "" {
		lines = append(lines, "Best time to visit: "+day.BestTimeToVisit)
	}
	return strings.Join(lines, "\n")
}
