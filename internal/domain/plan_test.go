package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const sampleResponse = `{
  "tripData": {
    "HotelOptions": [
      {"HotelName": "Sea View", "HotelAddress": "Beach Road", "PriceRange": 4500, "Rating": 4.2}
    ],
    "Itinerary": [
      {"Day": "Day 1", "PlaceName": "Fort", "PlaceDetails": "Old fort", "TravelTime": "20 min"},
      {"Day": "Day 2", "PlaceName": "Market", "BestTimeToVisit": "Evening"}
    ]
  }
}`

func TestParsePlanTextStripsFences(t *testing.T) {
	plain, err := ParsePlanText(sampleResponse)
	if err != nil {
		t.Fatalf("ParsePlanText returned error: %v", err)
	}

	for _, wrapped := range []string{
		"```json\n" + sampleResponse + "\n```",
		"```JSON" + sampleResponse + "```",
		"Here is your plan:\n```\n" + sampleResponse + "\n```\nEnjoy!",
	} {
		fenced, err := ParsePlanText(wrapped)
		if err != nil {
			t.Fatalf("ParsePlanText(%q) returned error: %v", wrapped[:12], err)
		}
		if !reflect.DeepEqual(plain, fenced) {
			t.Fatalf("expected fenced response to match plain response\nplain:  %+v\nfenced: %+v", plain, fenced)
		}
	}

	if len(plain.HotelOptions) != 1 || plain.HotelOptions[0].PriceRange != "4500" {
		t.Fatalf("unexpected hotels: %+v", plain.HotelOptions)
	}
	if len(plain.Itinerary) != 2 || plain.Itinerary[1].BestTimeToVisit != "Evening" {
		t.Fatalf("unexpected itinerary: %+v", plain.Itinerary)
	}
}

func TestParsePlanTextKeepsBackticksInsideStrictJSON(t *testing.T) {
	input := "{\"Itinerary\":[{\"Day\":\"Day 1\",\"PlaceDetails\":\"see ```x``` here\"}]}"
	plan, err := ParsePlanText(input)
	if err != nil {
		t.Fatalf("ParsePlanText returned error: %v", err)
	}
	if len(plan.Itinerary) != 1 || plan.Itinerary[0].PlaceDetails != "see ```x``` here" {
		t.Fatalf("unexpected itinerary: %+v", plan.Itinerary)
	}
}

func TestParsePlanTextRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"invalid json": `{"tripData": `,
		"array":        `[{"Day": 1}]`,
		"string":       `"just text"`,
		"no plan keys": `{"message": "sorry"}`,
		"empty":        "```json\n```",
	}
	for name, input := range cases {
		if _, err := ParsePlanText(input); !errors.Is(err, ErrDataFormat) {
			t.Fatalf("%s: expected ErrDataFormat, got %v", name, err)
		}
	}
}

func TestNormalizePlanAcceptsTopLevelAndSnakeCase(t *testing.T) {
	raw := map[string]any{
		"hotels": []any{
			map[string]any{"hotel_name": "Palm Inn", "hotel_address": "MG Road", "rating": "3.5", "price": "₹2,000"},
			map[string]any{"hotelName": "Lake Stay", "Rating": float64(5)},
		},
		"itinerary": []any{
			map[string]any{"day": float64(1), "place_name": "Lake", "details": "Boating", "time": "1h"},
			"Free day",
		},
	}

	plan, found := NormalizePlan(raw)
	if !found {
		t.Fatalf("expected plan to be found")
	}
	if plan.HotelOptions[0].HotelName != "Palm Inn" || plan.HotelOptions[0].HotelAddress != "MG Road" {
		t.Fatalf("unexpected first hotel: %+v", plan.HotelOptions[0])
	}
	if plan.HotelOptions[0].Rating != 3.5 || plan.HotelOptions[1].Rating != 5 {
		t.Fatalf("unexpected ratings: %+v", plan.HotelOptions)
	}
	if plan.HotelOptions[1].HotelName != "Lake Stay" {
		t.Fatalf("expected camelCase key to resolve, got %+v", plan.HotelOptions[1])
	}
	first := plan.Itinerary[0]
	if first.Day != "Day 1" || first.PlaceName != "Lake" || first.PlaceDetails != "Boating" || first.TravelTime != "1h" {
		t.Fatalf("unexpected first day: %+v", first)
	}
	second := plan.Itinerary[1]
	if second.Day != "Day 2" || second.PlaceDetails != "Free day" {
		t.Fatalf("expected malformed day to be tolerated, got %+v", second)
	}
}

func TestNormalizePlanKeyedItineraryMatchesList(t *testing.T) {
	list := make([]any, 0, 5)
	keyed := make(map[string]any, 5)
	for i := 1; i <= 5; i++ {
		day := map[string]any{"PlaceName": "Stop " + string(rune('A'+i-1))}
		list = append(list, day)
		keyed["day"+string(rune('0'+i))] = day
	}

	fromList, _ := NormalizePlan(map[string]any{"tripData": map[string]any{"Itinerary": list}})
	fromMap, _ := NormalizePlan(map[string]any{"tripData": map[string]any{"Itinerary": keyed}})

	if len(fromList.Itinerary) != 5 || len(fromMap.Itinerary) != 5 {
		t.Fatalf("expected 5 days each, got %d and %d", len(fromList.Itinerary), len(fromMap.Itinerary))
	}
	if !reflect.DeepEqual(fromList.Itinerary, fromMap.Itinerary) {
		t.Fatalf("expected keyed itinerary to match list\nlist: %+v\nmap:  %+v", fromList.Itinerary, fromMap.Itinerary)
	}
}

func TestNormalizePlanOrdersKeysNaturally(t *testing.T) {
	keyed := map[string]any{
		"Day 10": map[string]any{"PlaceName": "ten"},
		"Day 2":  map[string]any{"PlaceName": "two"},
		"Day 1":  map[string]any{"PlaceName": "one"},
	}
	plan, _ := NormalizePlan(map[string]any{"Itinerary": keyed})
	got := []string{plan.Itinerary[0].PlaceName, plan.Itinerary[1].PlaceName, plan.Itinerary[2].PlaceName}
	want := []string{"one", "two", "ten"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if plan.Itinerary[2].Day != "Day 10" {
		t.Fatalf("expected day label from key, got %q", plan.Itinerary[2].Day)
	}
}

func TestNormalizePlanHandlesDoubleNestingAndText(t *testing.T) {
	nested := map[string]any{"tripData": map[string]any{"tripData": map[string]any{
		"Itinerary": []any{map[string]any{"Day": "Day 1"}},
	}}}
	plan, found := NormalizePlan(nested)
	if !found || len(plan.Itinerary) != 1 {
		t.Fatalf("expected nested plan to resolve, got %+v (found=%v)", plan, found)
	}

	text, found := NormalizePlan("```json\n" + sampleResponse + "\n```")
	if !found || len(text.Itinerary) != 2 {
		t.Fatalf("expected raw text plan to resolve, got %+v (found=%v)", text, found)
	}

	if _, found := NormalizePlan("not json at all"); found {
		t.Fatalf("expected unparseable text to be reported as not found")
	}
}

func TestNormalizePlanIsIdempotent(t *testing.T) {
	first, err := ParsePlanText(sampleResponse)
	if err != nil {
		t.Fatalf("ParsePlanText returned error: %v", err)
	}
	buf, err := json.Marshal(map[string]any{"tripData": first})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw any
	if err := json.Unmarshal(buf, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second, _ := NormalizePlan(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected normalisation to be stable\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSelectionFromStoredDocument(t *testing.T) {
	sel := SelectionFrom(map[string]any{
		"Location":      "Manali",
		"TotalDays":     int64(3),
		"budget":        "Medium",
		"TravelingWith": "Friends",
	})
	want := UserSelection{Location: "Manali", TotalDays: 3, Budget: "Medium", TravelingWith: "Friends"}
	if sel != want {
		t.Fatalf("expected %+v, got %+v", want, sel)
	}

	legacy := SelectionFrom(map[string]any{"location": "Ooty", "totalDays": "4"})
	if legacy.Location != "Ooty" || legacy.TotalDays != 4 {
		t.Fatalf("unexpected legacy selection %+v", legacy)
	}
	if SelectionFrom(nil) != (UserSelection{}) {
		t.Fatalf("expected empty selection for missing data")
	}
}
