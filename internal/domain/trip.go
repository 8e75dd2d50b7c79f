package domain

import (
	"strconv"
	"time"
)

type UserSelection struct {
	Location      string `json:"Location" firestore:"Location"`
	TotalDays     int    `json:"TotalDays" firestore:"TotalDays"`
	Budget        string `json:"budget,omitempty" firestore:"budget,omitempty"`
	TravelingWith string `json:"TravelingWith,omitempty" firestore:"TravelingWith,omitempty"`
}

type Trip struct {
	ID            string        `json:"id" firestore:"id"`
	UserSelection UserSelection `json:"userSelection" firestore:"userSelection"`
	TripData      TripPlan      `json:"tripData" firestore:"tripData"`
	UserEmailID   string        `json:"userEmailID" firestore:"userEmailID"`
	CreatedAt     time.Time     `json:"createdAt" firestore:"createdAt"`
}

// TripPlan is the canonical shape of an AI generated plan. Field names match
// the keys the prompt asks for so stored documents stay readable by older clients.
type TripPlan struct {
	HotelOptions []Hotel   `json:"HotelOptions" firestore:"HotelOptions"`
	Itinerary    []DayPlan `json:"Itinerary" firestore:"Itinerary"`
}

type Hotel struct {
	HotelName      string  `json:"HotelName"`
	HotelAddress   string  `json:"HotelAddress,omitempty"`
	PriceRange     string  `json:"PriceRange,omitempty"`
	HotelImageURL  string  `json:"HotelImageURL,omitempty"`
	GeoCoordinates string  `json:"GeoCoordinates,omitempty"`
	Rating         float64 `json:"Rating,omitempty"`
	Description    string  `json:"Description,omitempty"`
}

type DayPlan struct {
	Day             string `json:"Day"`
	PlaceName       string `json:"PlaceName,omitempty"`
	PlaceDetails    string `json:"PlaceDetails,omitempty"`
	PlaceImageURL   string `json:"PlaceImageURL,omitempty"`
	GeoCoordinates  string `json:"GeoCoordinates,omitempty"`
	TicketPricing   string `json:"TicketPricing,omitempty"`
	TravelTime      string `json:"TravelTime,omitempty"`
	BestTimeToVisit string `json:"BestTimeToVisit,omitempty"`
}

// NewTripID derives the document key from the submission time.
func NewTripID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

func (t *Trip) OwnedBy(email string) bool {
	return t != nil && t.UserEmailID != "" && t.UserEmailID == email
}
