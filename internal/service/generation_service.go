package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/ai"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
)

// TripsPath is where a client goes after a successful generation.
const TripsPath = "/api/v1/trips"

type GenerationStage string

const (
	StageIdle          GenerationStage = "idle"
	StageValidating    GenerationStage = "validating"
	StageCheckingQuota GenerationStage = "checking_quota"
	StageCallingAI     GenerationStage = "calling_ai"
	StageParsing       GenerationStage = "parsing"
	StagePersisting    GenerationStage = "persisting"
	StageDone          GenerationStage = "done"
	StageError         GenerationStage = "error"
)

// GenerationObserver is told about every stage a generation enters.
type GenerationObserver func(stage GenerationStage)

// GenerationError records the stage a generation failed in. Err carries the
// domain error class.
type GenerationError struct {
	Stage GenerationStage
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate trip (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PlanGenerator produces the raw model answer for a prompt.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string, opts ai.Options) (string, error)
}

type GenerationServiceConfig struct {
	DailyLimit      int
	Location        *time.Location
	LockTTL         time.Duration
	MaxOutputTokens int64
}

type GenerationResult struct {
	Trip *domain.Trip
	Next string
}

type GenerationService struct {
	trips  ports.TripRepository
	usage  ports.UsageRepository
	lock   ports.GenerationLock
	ai     PlanGenerator
	logger *zap.Logger

	dailyLimit      int
	location        *time.Location
	lockTTL         time.Duration
	maxOutputTokens int64
	now             func() time.Time

	idMu   sync.Mutex
	lastID int64
}

func NewGenerationService(trips ports.TripRepository, usage ports.UsageRepository, lock ports.GenerationLock, generator PlanGenerator, cfg GenerationServiceConfig, logger *zap.Logger) *GenerationService {
	if cfg.DailyLimit < 1 {
		cfg.DailyLimit = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 3 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		trips:           trips,
		usage:           usage,
		lock:            lock,
		ai:              generator,
		logger:          logger,
		dailyLimit:      cfg.DailyLimit,
		location:        cfg.Location,
		lockTTL:         cfg.LockTTL,
		maxOutputTokens: cfg.MaxOutputTokens,
		now:             time.Now,
	}
}

// Generate runs the whole workflow for one request. It is not cancelled by
// ctx so a trip that has been generated is always stored with its usage.
func (s *GenerationService) Generate(ctx context.Context, user *domain.User, req domain.TripRequest, observe GenerationObserver) (*GenerationResult, error) {
	ctx = context.WithoutCancel(ctx)
	if observe == nil {
		observe = func(GenerationStage) {}
	}
	stage := StageIdle
	enter := func(next GenerationStage) {
		stage = next
		observe(next)
	}
	fail := func(err error) (*GenerationResult, error) {
		failed := stage
		enter(StageError)
		s.logger.Warn("trip generation failed", zap.String("stage", string(failed)), zap.Error(err))
		return nil, &GenerationError{Stage: failed, Err: err}
	}

	enter(StageValidating)
	if user == nil || user.Email == "" {
		return fail(fmt.Errorf("%w: sign in to generate a trip", domain.ErrValidation))
	}
	resolved, err := req.Resolve()
	if err != nil {
		return fail(err)
	}

	enter(StageCheckingQuota)
	if s.lock != nil {
		release, ok, err := s.lock.Acquire(ctx, user.Email, s.lockTTL)
		if err != nil {
			return fail(domain.NewStorageError("acquire generation lock", err))
		}
		if !ok {
			return fail(domain.ErrGenerationInProgress)
		}
		defer release()
	}

	usage, err := s.usage.GetDailyUsage(ctx, user.Email)
	if err != nil {
		return fail(asStorageError("get daily usage", err))
	}
	now := s.now()
	today := domain.UsageDate(now, s.location)
	if usage.LimitReached(today, s.dailyLimit) {
		return fail(fmt.Errorf("%w: you can generate %d trip(s) per day, try again tomorrow", domain.ErrQuotaExceeded, s.dailyLimit))
	}

	enter(StageCallingAI)
	prompt := domain.BuildPrompt(domain.TripPrompt, resolved)
	text, err := s.ai.Generate(ctx, prompt, ai.Options{
		SystemPrompt:    domain.TripSystemPrompt,
		MaxOutputTokens: s.maxOutputTokens,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrService) {
			err = fmt.Errorf("%w: %w", domain.ErrService, err)
		}
		return fail(err)
	}

	enter(StageParsing)
	plan, err := domain.ParsePlanText(text)
	if err != nil {
		return fail(err)
	}

	enter(StagePersisting)
	trip := &domain.Trip{
		ID:            s.nextTripID(now),
		UserSelection: resolved.Selection(),
		TripData:      plan,
		UserEmailID:   user.Email,
		CreatedAt:     now.UTC(),
	}
	if err := s.trips.SaveTrip(ctx, trip); err != nil {
		return fail(asStorageError("save trip", err))
	}
	if err := s.usage.SetDailyUsage(ctx, user.Email, usage.Next(today)); err != nil {
		s.logger.Error("trip saved but daily usage not updated",
			zap.String("trip_id", trip.ID),
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return fail(asStorageError("set daily usage", err))
	}

	enter(StageDone)
	s.logger.Info("trip generated",
		zap.String("trip_id", trip.ID),
		zap.String("email", user.Email),
		zap.Int("days", len(plan.Itinerary)),
		zap.Int("hotels", len(plan.HotelOptions)),
	)
	return &GenerationResult{Trip: trip, Next: TripsPath}, nil
}

// nextTripID returns the submission time in milliseconds, bumped when two
// generations in this process land on the same millisecond.
func (s *GenerationService) nextTripID(now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return domain.NewTripID(time.UnixMilli(id))
}

func asStorageError(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return domain.NewStorageError(op, err)
}
