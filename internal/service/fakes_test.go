package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/ai"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

type fakeTripRepo struct {
	mu      sync.Mutex
	items   map[string]domain.Trip
	saved   []domain.Trip
	deleted []string

	saveErr   error
	listErr   error
	getErr    error
	deleteErr error
}

func newFakeTripRepo(trips ...domain.Trip) *fakeTripRepo {
	repo := &fakeTripRepo{items: map[string]domain.Trip{}}
	for _, trip := range trips {
		repo.items[trip.ID] = trip
	}
	return repo
}

func (f *fakeTripRepo) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items[trip.ID] = *trip
	f.saved = append(f.saved, *trip)
	return nil
}

func (f *fakeTripRepo) ListTripsForUser(ctx context.Context, email string) ([]domain.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Trip
	for _, trip := range f.items {
		if trip.UserEmailID == email {
			out = append(out, trip)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeTripRepo) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	trip, ok := f.items[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return &trip, nil
}

func (f *fakeTripRepo) DeleteTrip(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.items, id)
	return nil
}

type fakeUsageRepo struct {
	usage  map[string]domain.DailyUsage
	gets   int
	sets   []domain.DailyUsage
	getErr error
	setErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{usage: map[string]domain.DailyUsage{}}
}

func (f *fakeUsageRepo) GetDailyUsage(ctx context.Context, email string) (*domain.DailyUsage, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.usage[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsageRepo) SetDailyUsage(ctx context.Context, email string, usage domain.DailyUsage) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, usage)
	f.usage[email] = usage
	return nil
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
	opts    []ai.Options
	ctxErrs []error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.text, f.err
}

type fakeLock struct {
	busy     bool
	err      error
	acquired []string
	released int
}

func (f *fakeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.busy {
		return nil, false, nil
	}
	f.acquired = append(f.acquired, key)
	return func() { f.released++ }, true, nil
}

type fakeStorage struct {
	bucket      string
	objectName  string
	contentType string
	body        []byte
	url         string
	err         error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.bucket, f.objectName, f.contentType, f.body = bucket, objectName, contentType, data
	return f.url, nil
}

type fakeSessionStore struct {
	sessions      map[string]domain.Session
	createErr     error
	deactivateErr error
	deactivated   []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]domain.Session{}}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) FindActiveSession(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return &session, nil
}

func (f *fakeSessionStore) DeactivateSession(ctx context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	delete(f.sessions, id)
	return nil
}

type fakeVerifier struct {
	user   *domain.User
	err    error
	tokens []string
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*domain.User, error) {
	f.tokens = append(f.tokens, idToken)
	return f.user, f.err
}

type fakeRevoker struct {
	err    error
	tokens []string
}

func (f *fakeRevoker) Revoke(ctx context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

var errBackend = errors.New("backend unavailable")
