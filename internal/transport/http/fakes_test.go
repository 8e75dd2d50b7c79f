package http

import (
	"context"
	"errors"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/places"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/service"
)

const testToken = "session-token"

var testUser = &domain.User{Email: "traveler@example.com", DisplayName: "Asha"}

type fakeAuth struct {
	loginResult *service.AuthResult
	loginErr    error
	logoutErr   error

	loggedOutSession   string
	loggedOutFederated string
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != testToken {
		return nil, domain.ErrAuth
	}
	return testUser, nil
}

func (f *fakeAuth) LoginWithGoogle(_ context.Context, idToken string) (*service.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuth) Logout(_ context.Context, sessionToken, federatedToken string) error {
	f.loggedOutSession = sessionToken
	f.loggedOutFederated = federatedToken
	return f.logoutErr
}

type fakeGenerator struct {
	result *service.GenerationResult
	err    error
	got    domain.TripRequest
}

func (f *fakeGenerator) Generate(_ context.Context, _ *domain.User, req domain.TripRequest, _ service.GenerationObserver) (*service.GenerationResult, error) {
	f.got = req
	return f.result, f.err
}

type fakeTrips struct {
	trips     map[string]domain.Trip
	err       error
	deleted   []string
	confirmed bool
}

func (f *fakeTrips) List(context.Context, *domain.User) ([]domain.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Trip, 0, len(f.trips))
	for _, t := range f.trips {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTrips) Get(_ context.Context, _ *domain.User, id string) (*domain.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return &t, nil
}

func (f *fakeTrips) Delete(_ context.Context, _ *domain.User, id string, confirmed bool) error {
	f.confirmed = confirmed
	if !confirmed {
		return errors.Join(domain.ErrValidation, errors.New("confirm=true is required"))
	}
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTrips) Share(ctx context.Context, u *domain.User, id string) (*service.ShareResult, error) {
	t, err := f.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	return &service.ShareResult{Message: domain.ShareMessage(t)}, nil
}

func (f *fakeTrips) Calendar(ctx context.Context, u *domain.User, id string) ([]byte, error) {
	if _, err := f.Get(ctx, u, id); err != nil {
		return nil, err
	}
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil
}

type fakePlaces struct {
	suggestions []places.Suggestion
	err         error
}

func (f *fakePlaces) Autocomplete(context.Context, string) ([]places.Suggestion, error) {
	return f.suggestions, f.err
}
