package http

import "github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"

// GenerateTripRequest is the body of POST /api/v1/trips/generate. Days falls
// back to the form default when omitted.
type GenerateTripRequest struct {
	Destination  string `json:"destination" example:"Goa, India"`
	Budget       string `json:"budget,omitempty" example:"Medium"`
	CustomBudget string `json:"custom_budget,omitempty" example:"8000"`
	Days         *int   `json:"days,omitempty" example:"3"`
	Traveler     string `json:"traveler" example:"A Couple"`
}

func (r GenerateTripRequest) toDomain() domain.TripRequest {
	req := domain.NewTripRequest()
	req.Destination = r.Destination
	req.Budget = r.Budget
	req.CustomBudget = r.CustomBudget
	req.Traveler = r.Traveler
	if r.Days != nil {
		req.Days = *r.Days
	}
	return req
}

type GenerateTripResponse struct {
	Trip domain.Trip `json:"trip"`
	Next string      `json:"next" example:"/api/v1/trips"`
}

type TripResponse struct {
	Trip domain.Trip `json:"trip"`
}

type TripsListResponse struct {
	Trips []domain.Trip `json:"trips"`
}

type OptionsResponse struct {
	Budgets             []domain.BudgetOption   `json:"budgets"`
	Travelers           []domain.TravelerOption `json:"travelers"`
	DefaultDays         int                     `json:"default_days" example:"5"`
	PopularDestinations []domain.Destination    `json:"popular_destinations"`
}
