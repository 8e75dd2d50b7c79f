package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type BudgetOption struct {
	Label  string `json:"budget"`
	Amount string `json:"amount"`
	Rule   string `json:"rule"`
}

type TravelerOption struct {
	Label string `json:"people"`
}

var BudgetOptions = []BudgetOption{
	{Label: "Low", Amount: "₹3,000 - ₹5,000", Rule: "Ensure total entire trip recommendations fit under ₹7,000."},
	{Label: "Medium", Amount: "₹5,000 - ₹10,000", Rule: "Ensure total entire trip recommendations fit under ₹15,000."},
	{Label: "High", Amount: "₹10,000 - ₹15,000", Rule: "Allow spending more than ₹25,000 for entire trip."},
}

var TravelerOptions = []TravelerOption{
	{Label: "Just Me"},
	{Label: "A Couple"},
	{Label: "Family"},
	{Label: "Friends"},
}

// Destination is a featured place shown before the user starts planning.
type Destination struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

var PopularDestinations = []Destination{
	{ID: 1, Name: "Bali, Indonesia", ImageURL: "https://images.unsplash.com/photo-1537996194471-e657df975ab4?q=80&w=1000&auto=format&fit=crop"},
	{ID: 2, Name: "Jaipur, India", ImageURL: "https://unsplash.com/photos/brown-concrete-building-during-daytime-y97sM41-g9k"},
	{ID: 3, Name: "Phuket, Thailand", ImageURL: "https://unsplash.com/photos/aerial-photography-of-body-of-water-TejFa7VW5e4"},
	{ID: 4, Name: "Kerala, India", ImageURL: "https://unsplash.com/photos/brown-boat-on-body-of-water-near-green-trees-during-daytime-29ezCWtMtnM"},
}

// TripPrompt is filled by BuildPrompt. Every placeholder may appear more than once.
const TripPrompt = `
Generate a detailed travel itinerary for a trip to "{location}" for "{totalDays}" days, traveling with "{traveler}", with a budget of "{budget}".
{budgetRules}

Return output ONLY as strict JSON with EXACT key names and types as below. Do not include markdown code fences or any extra text.

{
    "tripData": {
        "HotelOptions": [
            {
                "HotelName": "string",
                "HotelAddress": "string",
                "PriceRange": "string",
                "HotelImageURL": "string",
                "GeoCoordinates": "string",
                "Rating": 0,
                "Description": "string"
            }
        ],
        "Itinerary": [
            {
                "Day": "Day 1",
                "PlaceName": "string",
                "PlaceDetails": "string",
                "PlaceImageURL": "string",
                "GeoCoordinates": "string",
                "TicketPricing": "string",
                "TravelTime": "string",
                "BestTimeToVisit": "string"
            }
        ]
    }
}

Rules:
- Provide exactly {totalDays} days in Itinerary (Day 1 .. Day {totalDays}).
- Keep all key names exactly as shown.
- Provide at least 3 entries in HotelOptions, with realistic values.
- Do not include any text outside the JSON object.
`

// TripSystemPrompt is sent as the system message of every generation call.
const TripSystemPrompt = "You are a travel assistant. You must return only strict JSON. Do not use markdown (```json). Do not add any conversational text."

func FindBudget(label string) (BudgetOption, bool) {
	label = strings.TrimSpace(label)
	for _, opt := range BudgetOptions {
		if strings.EqualFold(opt.Label, label) {
			return opt, true
		}
	}
	return BudgetOption{}, false
}

func FindTraveler(label string) (TravelerOption, bool) {
	label = strings.TrimSpace(label)
	for _, opt := range TravelerOptions {
		if strings.EqualFold(opt.Label, label) {
			return opt, true
		}
	}
	return TravelerOption{}, false
}

// MaxBudgetAmount caps custom budgets at ₹1,00,00,00,00,000.
const MaxBudgetAmount = 1e12

var budgetAmountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// ParseBudgetAmount accepts amounts such as "9500", "9,500" or "₹ 9,500.50".
// Only plain decimal digits are allowed, so exponents and hex floats are rejected.
func ParseBudgetAmount(raw string) (float64, error) {
	cleaned := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: budget amount is empty", ErrValidation)
	}
	if !budgetAmountPattern.MatchString(cleaned) {
		return 0, fmt.Errorf("%w: budget amount %q is not a number", ErrValidation, raw)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: budget amount %q is not a number", ErrValidation, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: budget amount must be positive", ErrValidation)
	}
	if v > MaxBudgetAmount {
		return 0, fmt.Errorf("%w: budget amount %q is too large", ErrValidation, raw)
	}
	return v, nil
}

// FormatRupees renders an amount with Indian digit grouping, e.g. 1234567 -> "₹12,34,567".
func FormatRupees(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) <= MaxBudgetAmount {
		return "₹" + rupeePrinter.Sprintf("%d", int64(v))
	}
	return "₹" + rupeePrinter.Sprintf("%.2f", v)
}

func CustomBudgetRule(amount float64) string {
	return "Ensure total entire trip recommendations fit under " + FormatRupees(amount) + "."
}
