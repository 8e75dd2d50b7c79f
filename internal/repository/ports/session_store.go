package ports

import (
	"context"
	"errors"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	CreateSession(ctx context.Context, session domain.Session) error
	FindActiveSession(ctx context.Context, id string) (*domain.Session, error)
	DeactivateSession(ctx context.Context, id string) error
}
