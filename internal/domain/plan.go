package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	jsonFencePattern = regexp.MustCompile("(?is)```json(.*?)```")
	anyFencePattern  = regexp.MustCompile("(?s)```(.*?)```")
	firstNumber      = regexp.MustCompile(`\d+`)
)

const maxWrapperDepth = 3

// StripCodeFences returns the body of the first Markdown code block, preferring
// a block tagged json. Text without fences is returned trimmed.
func StripCodeFences(text string) string {
	if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ParsePlanText decodes a model response into the canonical plan.
func ParsePlanText(text string) (TripPlan, error) {
	raw, err := decodeJSONText(text)
	if err != nil {
		return TripPlan{}, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return TripPlan{}, fmt.Errorf("%w: response is not a JSON object", ErrDataFormat)
	}
	plan, found := NormalizePlan(obj)
	if !found {
		return TripPlan{}, fmt.Errorf("%w: response has neither hotel options nor an itinerary", ErrDataFormat)
	}
	return plan, nil
}

// decodeJSONText parses text as JSON, falling back to the body of a code fence
// only when the text itself is not valid JSON.
func decodeJSONText(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	var raw any
	if trimmed != "" && json.Unmarshal([]byte(trimmed), &raw) == nil {
		return raw, nil
	}
	cleaned := StripCodeFences(trimmed)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrDataFormat)
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	return raw, nil
}

// NormalizePlan maps any tolerated representation of a plan onto TripPlan:
// an optional (possibly nested) tripData wrapper, JSON text, key spellings that
// differ in case or separators, and itineraries given as lists or keyed maps.
// found reports whether hotels or an itinerary were present at all.
func NormalizePlan(raw any) (plan TripPlan, found bool) {
	obj := unwrapPlan(raw)
	if obj == nil {
		return TripPlan{}, false
	}

	hotels, hasHotels := lookup(obj, "hoteloptions", "hotels")
	days, hasDays := lookup(obj, "itinerary", "days", "dailyitinerary")

	plan = TripPlan{HotelOptions: []Hotel{}, Itinerary: []DayPlan{}}
	for _, e := range orderedEntries(hotels) {
		plan.HotelOptions = append(plan.HotelOptions, hotelFrom(e.value))
	}
	for i, e := range orderedEntries(days) {
		plan.Itinerary = append(plan.Itinerary, dayFrom(e, i))
	}
	return plan, hasHotels || hasDays
}

func unwrapPlan(raw any) map[string]any {
	current := raw
	for depth := 0; depth <= maxWrapperDepth; depth++ {
		switch v := current.(type) {
		case string:
			decoded, err := decodeJSONText(v)
			if err != nil {
				return nil
			}
			current = decoded
			continue
		case map[string]any:
			inner, ok := lookup(v, "tripdata")
			if !ok || inner == nil {
				return v
			}
			current = inner
			continue
		default:
			return nil
		}
	}
	obj, _ := current.(map[string]any)
	return obj
}

type entry struct {
	key   string
	value any
}

// orderedEntries flattens a list or a keyed map. Map keys are ordered by the
// first number they contain ("day2" before "day10"), then lexically.
func orderedEntries(v any) []entry {
	switch items := v.(type) {
	case []any:
		out := make([]entry, 0, len(items))
		for _, item := range items {
			out = append(out, entry{value: item})
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			ni, oki := keyNumber(keys[i])
			nj, okj := keyNumber(keys[j])
			switch {
			case oki && okj && ni != nj:
				return ni < nj
			case oki != okj:
				return oki
			default:
				return keys[i] < keys[j]
			}
		})
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			out = append(out, entry{key: k, value: items[k]})
		}
		return out
	default:
		return nil
	}
}

func keyNumber(key string) (int, bool) {
	m := firstNumber.FindString(key)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hotelFrom(v any) Hotel {
	obj, ok := v.(map[string]any)
	if !ok {
		return Hotel{HotelName: stringOf(v)}
	}
	return Hotel{
		HotelName:      lookupString(obj, "hotelname", "name"),
		HotelAddress:   lookupString(obj, "hoteladdress", "address"),
		PriceRange:     lookupString(obj, "pricerange", "price", "priceperNight"),
		HotelImageURL:  lookupString(obj, "hotelimageurl", "imageurl", "image"),
		GeoCoordinates: lookupString(obj, "geocoordinates", "coordinates"),
		Rating:         lookupFloat(obj, "rating"),
		Description:    lookupString(obj, "description", "details"),
	}
}

func dayFrom(e entry, index int) DayPlan {
	obj, ok := e.value.(map[string]any)
	if !ok {
		return DayPlan{Day: dayLabel(nil, e.key, index), PlaceDetails: stringOf(e.value)}
	}
	label, _ := lookup(obj, "day", "daynumber")
	return DayPlan{
		Day:             dayLabel(label, e.key, index),
		PlaceName:       lookupString(obj, "placename", "activity", "title", "name"),
		PlaceDetails:    lookupString(obj, "placedetails", "details", "description"),
		PlaceImageURL:   lookupString(obj, "placeimageurl", "imageurl", "image"),
		GeoCoordinates:  lookupString(obj, "geocoordinates", "coordinates"),
		TicketPricing:   lookupString(obj, "ticketpricing", "ticketprice", "price"),
		TravelTime:      lookupString(obj, "traveltime", "time"),
		BestTimeToVisit: lookupString(obj, "besttimetovisit", "besttime"),
	}
}

func dayLabel(label any, key string, index int) string {
	if s := stringOf(label); s != "" {
		if _, err := strconv.Atoi(s); err == nil {
			return "Day " + s
		}
		return s
	}
	if n, ok := keyNumber(key); ok {
		return "Day " + strconv.Itoa(n)
	}
	return "Day " + strconv.Itoa(index+1)
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(k))
}

// lookup finds the first alias present in obj, comparing keys without case or separators.
func lookup(obj map[string]any, aliases ...string) (any, bool) {
	if len(obj) == 0 {
		return nil, false
	}
	index := make(map[string]string, len(obj))
	for k := range obj {
		nk := normalizeKey(k)
		if _, seen := index[nk]; !seen || k < index[nk] {
			index[nk] = k
		}
	}
	for _, alias := range aliases {
		if k, ok := index[normalizeKey(alias)]; ok {
			return obj[k], true
		}
	}
	return nil, false
}

func lookupString(obj map[string]any, aliases ...string) string {
	for _, alias := range aliases {
		if v, ok := lookup(obj, alias); ok {
			if s := stringOf(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookupFloat(obj map[string]any, aliases ...string) float64 {
	v, ok := lookup(obj, aliases...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		buf, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(buf)
	}
}

// SelectionFrom reads a stored userSelection, tolerating the same key
// variations as NormalizePlan and day counts stored as text.
func SelectionFrom(raw any) UserSelection {
	obj, ok := raw.(map[string]any)
	if !ok {
		return UserSelection{}
	}
	sel := UserSelection{
		Location:      lookupString(obj, "location", "destination"),
		Budget:        lookupString(obj, "budget"),
		TravelingWith: lookupString(obj, "travelingwith", "traveler"),
	}
	if days, err := strconv.Atoi(lookupString(obj, "totaldays", "days")); err == nil {
		sel.TotalDays = days
	}
	return sel
}
