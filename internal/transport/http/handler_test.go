package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/places"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
)

func sampleTrip() domain.Trip {
	return domain.Trip{
		ID:            "1775813400000",
		UserEmailID:   testUser.Email,
		UserSelection: domain.UserSelection{Location: "Goa, India", TotalDays: 2, Budget: "Medium", TravelingWith: "A Couple"},
		TripData: domain.TripPlan{
			Itinerary: []domain.DayPlan{{Day: "Day 1", PlaceName: "Baga Beach"}},
		},
	}
}

type testServer struct {
	e         *echo.Echo
	auth      *fakeAuth
	generator *fakeGenerator
	trips     *fakeTrips
	places    *fakePlaces
}

func newTestServer() *testServer {
	return newTestServerWithLogger(zap.NewNop())
}

func newTestServerWithLogger(logger *zap.Logger) *testServer {
	trip := sampleTrip()
	s := &testServer{
		e:         NewRouter([]string{"*"}, logger),
		auth:      &fakeAuth{},
		generator: &fakeGenerator{},
		trips:     &fakeTrips{trips: map[string]domain.Trip{trip.ID: trip}},
		places:    &fakePlaces{},
	}
	RegisterAuth(s.e, s.auth)
	RegisterOptions(s.e)
	RegisterTrips(s.e, s.auth, s.generator, s.trips)
	RegisterPlaces(s.e, s.auth, s.places)
	return s
}

func (s *testServer) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRequireAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/trips", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nope")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer scheme, got %d", rec.Code)
	}
}

func TestGoogleLogin(t *testing.T) {
	s := newTestServer()
	expires := time.Date(2026, 4, 11, 9, 30, 0, 0, time.UTC)
	s.auth.loginResult = &service.AuthResult{Token: "jwt", ExpiresAt: expires, User: testUser}

	rec := s.do(http.MethodPost, "/api/v1/auth/google", `{"id_token":"google"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res AuthTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Token != "jwt" || res.ExpiresAt != "2026-04-11T09:30:00Z" || res.User.Email != testUser.Email {
		t.Fatalf("unexpected response %+v", res)
	}

	rec = s.do(http.MethodPost, "/api/v1/auth/google", `{"id_token":"  "}`, false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank token, got %d", rec.Code)
	}

	s.auth.loginErr = fmt.Errorf("%w: audience mismatch", domain.ErrAuth)
	rec = s.do(http.MethodPost, "/api/v1/auth/google", `{"id_token":"google"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for rejected token, got %d", rec.Code)
	}
}

func TestMeAndLogout(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/auth/me", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	user := decodeBody(t, rec)["user"].(map[string]any)
	if user["email"] != testUser.Email {
		t.Fatalf("unexpected user %v", user)
	}

	rec = s.do(http.MethodPost, "/api/v1/auth/logout", `{"google_token":"ya29"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if s.auth.loggedOutSession != testToken || s.auth.loggedOutFederated != "ya29" {
		t.Fatalf("unexpected logout args %q %q", s.auth.loggedOutSession, s.auth.loggedOutFederated)
	}

	rec = s.do(http.MethodPost, "/api/v1/auth/logout", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without body, got %d", rec.Code)
	}
	if s.auth.loggedOutFederated != "" {
		t.Fatalf("expected no federated token, got %q", s.auth.loggedOutFederated)
	}
}

func TestOptionsIsPublic(t *testing.T) {
	s := newTestServer()
	rec := s.do(http.MethodGet, "/api/v1/options", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res OptionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Budgets) != 3 || len(res.Travelers) != 4 || res.DefaultDays != domain.DefaultTripDays {
		t.Fatalf("unexpected options %+v", res)
	}
	if len(res.PopularDestinations) != 4 || res.PopularDestinations[0].Name != "Bali, Indonesia" {
		t.Fatalf("unexpected popular destinations %+v", res.PopularDestinations)
	}
}

func TestGenerateTrip(t *testing.T) {
	s := newTestServer()
	trip := sampleTrip()
	s.generator.result = &service.GenerationResult{Trip: &trip, Next: service.TripsPath}

	rec := s.do(http.MethodPost, "/api/v1/trips/generate", `{"destination":"Goa, India","budget":"Medium","traveler":"A Couple"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["next"] != "/api/v1/trips" {
		t.Fatalf("unexpected next %v", body["next"])
	}
	if s.generator.got.Days != domain.DefaultTripDays {
		t.Fatalf("expected default days when omitted, got %d", s.generator.got.Days)
	}

	s.do(http.MethodPost, "/api/v1/trips/generate", `{"destination":"Goa","budget":"Low","traveler":"Family","days":0}`, true)
	if s.generator.got.Days != 0 {
		t.Fatalf("expected explicit zero days to reach validation, got %d", s.generator.got.Days)
	}
}

func TestGenerateTripErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.GenerationError{Stage: service.StageValidating, Err: fmt.Errorf("%w: missing destination", domain.ErrValidation)}, http.StatusBadRequest},
		{"quota", &service.GenerationError{Stage: service.StageCheckingQuota, Err: fmt.Errorf("%w: one trip per day", domain.ErrQuotaExceeded)}, http.StatusTooManyRequests},
		{"in progress", domain.ErrGenerationInProgress, http.StatusConflict},
		{"service", &service.GenerationError{Stage: service.StageCallingAI, Err: domain.ErrService}, http.StatusBadGateway},
		{"format", &service.GenerationError{Stage: service.StageParsing, Err: domain.ErrDataFormat}, http.StatusUnprocessableEntity},
		{"storage", &service.GenerationError{Stage: service.StagePersisting, Err: domain.NewStorageError("save trip", errors.New("down"))}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer()
			s.generator.err = tc.err
			rec := s.do(http.MethodPost, "/api/v1/trips/generate", `{"destination":"Goa"}`, true)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if msg, _ := decodeBody(t, rec)["error"].(string); msg == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestValidationMessageComesFromCause(t *testing.T) {
	err := &service.GenerationError{Stage: service.StageValidating, Err: fmt.Errorf("%w: missing destination", domain.ErrValidation)}
	status, msg := classifyError(err, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if strings.Contains(msg, string(service.StageValidating)) {
		t.Fatalf("expected stage to be hidden from clients, got %q", msg)
	}
}

func TestListAndGetTrips(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/trips", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if trips := decodeBody(t, rec)["trips"].([]any); len(trips) != 1 {
		t.Fatalf("expected one trip, got %d", len(trips))
	}

	rec = s.do(http.MethodGet, "/api/v1/trips/1775813400000", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/v1/trips/404", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	s.trips.trips = nil
	rec = s.do(http.MethodGet, "/api/v1/trips", "", true)
	if !strings.Contains(rec.Body.String(), `"trips":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}

	s.trips.err = domain.NewStorageError("list trips", errors.New("unavailable"))
	rec = s.do(http.MethodGet, "/api/v1/trips", "", true)
	if rec.Code != http.StatusInternalServerError || decodeBody(t, rec)["error"] != "failed to load trips" {
		t.Fatalf("unexpected storage failure response %d %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteTripRequiresConfirmation(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodDelete, "/api/v1/trips/1775813400000", "", true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm, got %d", rec.Code)
	}
	if len(s.trips.deleted) != 0 {
		t.Fatalf("expected nothing deleted")
	}

	rec = s.do(http.MethodDelete, "/api/v1/trips/1775813400000?confirm=true", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(s.trips.deleted) != 1 || s.trips.deleted[0] != "1775813400000" {
		t.Fatalf("unexpected deletions %v", s.trips.deleted)
	}
}

func TestShareAndCalendar(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/trips/1775813400000/share", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg, _ := decodeBody(t, rec)["message"].(string); !strings.Contains(msg, "Goa, India") {
		t.Fatalf("unexpected share message %q", msg)
	}

	rec = s.do(http.MethodGet, "/api/v1/trips/1775813400000/calendar.ics", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "trip-1775813400000.ics") {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestPlacesAutocomplete(t *testing.T) {
	s := newTestServer()
	s.places.suggestions = []places.Suggestion{{PlaceID: "1", DisplayName: "Goa, India", Timezone: "Asia/Kolkata"}}

	rec := s.do(http.MethodGet, "/api/v1/places/autocomplete?q=go", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if items := decodeBody(t, rec)["suggestions"].([]any); len(items) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(items))
	}

	s.places.suggestions, s.places.err = nil, domain.ErrPlacesNotConfigured
	rec = s.do(http.MethodGet, "/api/v1/places/autocomplete?q=go", "", true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	s.places.err = errors.New("places: provider returned 500")
	rec = s.do(http.MethodGet, "/api/v1/places/autocomplete?q=go", "", true)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestServerErrorsAreLoggedThroughRouterLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := newTestServerWithLogger(zap.New(core))

	s.trips.err = domain.NewStorageError("list trips", errors.New("unavailable"))
	rec := s.do(http.MethodGet, "/api/v1/trips", "", true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	failed := logs.FilterMessage("request failed").All()
	if len(failed) != 1 {
		t.Fatalf("expected one request failure entry, got %d", len(failed))
	}
	if route := failed[0].ContextMap()["route"]; route != "/api/v1/trips" {
		t.Fatalf("unexpected route field %v", route)
	}

	s.places.err = errors.New("places: provider returned 500")
	rec = s.do(http.MethodGet, "/api/v1/places/autocomplete?q=go", "", true)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if logs.FilterMessage("place autocomplete failed").Len() != 1 {
		t.Fatalf("expected place autocomplete failure to be logged")
	}
}
