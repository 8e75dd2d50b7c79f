package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultTripDays = 5

// TripRequest is the editable form a user fills before asking for a trip.
// Preset and custom budgets are mutually exclusive.
type TripRequest struct {
	Destination  string `json:"destination"`
	Budget       string `json:"budget,omitempty"`
	CustomBudget string `json:"custom_budget,omitempty"`
	Days         int    `json:"days"`
	Traveler     string `json:"traveler"`
}

// ResolvedTripRequest is a validated TripRequest with canonical labels and the
// budget constraint text that goes into the prompt.
type ResolvedTripRequest struct {
	Location   string
	Days       int
	Traveler   string
	Budget     string
	BudgetRule string
}

func NewTripRequest() TripRequest {
	return TripRequest{Days: DefaultTripDays}
}

// AdjustDays changes the day count by delta. A change that would leave fewer
// than one day is rejected and the count is left as is.
func (r *TripRequest) AdjustDays(delta int) error {
	if r.Days+delta < 1 {
		return fmt.Errorf("%w: a trip needs at least one day", ErrValidation)
	}
	r.Days += delta
	return nil
}

func (r *TripRequest) SelectBudget(label string) {
	r.Budget = strings.TrimSpace(label)
	r.CustomBudget = ""
}

func (r *TripRequest) SetCustomBudget(amount string) {
	r.CustomBudget = strings.TrimSpace(amount)
	r.Budget = ""
}

func (r *TripRequest) Reset() {
	*r = NewTripRequest()
}

// Resolve validates the form. A custom amount wins over a preset when both are set.
func (r TripRequest) Resolve() (ResolvedTripRequest, error) {
	location := strings.TrimSpace(r.Destination)
	custom := strings.TrimSpace(r.CustomBudget)
	preset := strings.TrimSpace(r.Budget)

	var missing []string
	if location == "" {
		missing = append(missing, "destination")
	}
	if custom == "" && preset == "" {
		missing = append(missing, "budget")
	}
	if strings.TrimSpace(r.Traveler) == "" {
		missing = append(missing, "traveler")
	}
	if len(missing) > 0 {
		return ResolvedTripRequest{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if r.Days < 1 {
		return ResolvedTripRequest{}, fmt.Errorf("%w: days must be at least 1", ErrValidation)
	}

	traveler, ok := FindTraveler(r.Traveler)
	if !ok {
		return ResolvedTripRequest{}, fmt.Errorf("%w: unknown traveler category %q", ErrValidation, r.Traveler)
	}

	resolved := ResolvedTripRequest{
		Location: location,
		Days:     r.Days,
		Traveler: traveler.Label,
	}

	if custom != "" {
		amount, err := ParseBudgetAmount(custom)
		if err != nil {
			return ResolvedTripRequest{}, err
		}
		resolved.Budget = custom
		resolved.BudgetRule = CustomBudgetRule(amount)
		return resolved, nil
	}

	budget, ok := FindBudget(preset)
	if !ok {
		return ResolvedTripRequest{}, fmt.Errorf("%w: unknown budget %q", ErrValidation, preset)
	}
	resolved.Budget = budget.Label
	resolved.BudgetRule = budget.Rule
	return resolved, nil
}

// Selection is the snapshot persisted with the generated trip.
func (r ResolvedTripRequest) Selection() UserSelection {
	return UserSelection{
		Location:      r.Location,
		TotalDays:     r.Days,
		Budget:        r.Budget,
		TravelingWith: r.Traveler,
	}
}

// BuildPrompt replaces every occurrence of each placeholder in template.
func BuildPrompt(template string, r ResolvedTripRequest) string {
	replacer := strings.NewReplacer(
		"{location}", r.Location,
		"{totalDays}", strconv.Itoa(r.Days),
		"{traveler}", r.Traveler,
		"{budget}", r.Budget,
		"{budgetRules}", r.BudgetRule,
	)
	return replacer.Replace(template)
}
