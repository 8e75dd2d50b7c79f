package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

const noTripsMessage = "No trips planned yet"

func tripTitle(t domain.Trip) string {
	if loc := strings.TrimSpace(t.UserSelection.Location); loc != "" {
		return loc
	}
	return "Trip Destination"
}

// tripSubtitle is "3 Days • Medium Budget • A Couple" with absent parts left out.
func tripSubtitle(sel domain.UserSelection) string {
	var parts []string
	if sel.TotalDays > 0 {
		parts = append(parts, strconv.Itoa(sel.TotalDays)+" Days")
	}
	if sel.Budget != "" {
		parts = append(parts, sel.Budget+" Budget")
	}
	if sel.TravelingWith != "" {
		parts = append(parts, sel.TravelingWith)
	}
	return strings.Join(parts, " • ")
}

func WriteTripList(w io.Writer, trips []domain.Trip) error {
	if len(trips) == 0 {
		_, err := fmt.Fprintln(w, noTripsMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESTINATION\tDETAILS")
	for _, t := range trips {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, tripTitle(t), tripSubtitle(t.UserSelection))
	}
	return tw.Flush()
}

func WriteTrip(w io.Writer, t domain.Trip) error {
	fmt.Fprintln(w, tripTitle(t))
	if sub := tripSubtitle(t.UserSelection); sub != "" {
		fmt.Fprintln(w, sub)
	}

	if len(t.TripData.HotelOptions) > 0 {
		fmt.Fprintln(w, "\nHotels")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, h := range t.TripData.HotelOptions {
			rating := ""
			if h.Rating > 0 {
				rating = strconv.FormatFloat(h.Rating, 'f', 1, 64) + "★"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", h.HotelName, h.PriceRange, rating, h.HotelAddress)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(t.TripData.Itinerary) > 0 {
		fmt.Fprintln(w, "\nItinerary")
		for _, d := range t.TripData.Itinerary {
			title := d.Day
			if d.PlaceName != "" {
				title += ": " + d.PlaceName
			}
			fmt.Fprintf(w, "  %s\n", title)
			if d.PlaceDetails != "" {
				fmt.Fprintf(w, "    %s\n", d.PlaceDetails)
			}
			var facts []string
			if d.TicketPricing != "" {
				facts = append(facts, "Tickets: "+d.TicketPricing)
			}
			if d.TravelTime != "" {
				facts = append(facts, "Travel: "+d.TravelTime)
			}
			if d.BestTimeToVisit != "" {
				facts = append(facts, "Best time: "+d.BestTimeToVisit)
			}
			if len(facts) > 0 {
				fmt.Fprintf(w, "    %s\n", strings.Join(facts, " | "))
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// DeletePrompt is the question asked before a trip is deleted.
func DeletePrompt(t *domain.Trip) string {
	label := "this trip"
	if t != nil && strings.TrimSpace(t.UserSelection.Location) != "" {
		label = t.UserSelection.Location
	}
	return fmt.Sprintf("Are you sure you want to delete %s?", label)
}
