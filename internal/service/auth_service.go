package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/repository/ports"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/util"
)

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService struct {
	verifier IdentityVerifier
	revoker  TokenRevoker
	sessions ports.SessionStore
	jwt      *util.JWTManager
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(verifier IdentityVerifier, revoker TokenRevoker, sessions ports.SessionStore, jwt *util.JWTManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		verifier: verifier,
		revoker:  revoker,
		sessions: sessions,
		jwt:      jwt,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginWithGoogle exchanges a Google ID token for a backend session.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: identity token is required", domain.ErrAuth)
	}

	user, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("%w: identity has no email", domain.ErrAuth)
	}

	token, expiresAt, err := s.jwt.Generate(*user)
	if err != nil {
		return nil, fmt.Errorf("%w: issue session token: %v", domain.ErrAuth, err)
	}
	session := domain.Session{
		ID:        util.HashToken(token),
		Email:     user.Email,
		CreatedAt: s.now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: store session: %v", domain.ErrAuth, err)
	}

	s.logger.Info("user signed in", zap.String("email", user.Email))
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves the user of a session token. The token must be valid
// and its session still active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	session, err := s.sessions.FindActiveSession(ctx, util.HashToken(token))
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session expired or signed out", domain.ErrAuth)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if !strings.EqualFold(session.Email, claims.Email) {
		return nil, fmt.Errorf("%w: session does not match token", domain.ErrAuth)
	}
	return claims.User(), nil
}

// Logout revokes the federated token when one is given and ends the backend
// session. Both steps always run; their failures are joined.
func (s *AuthService) Logout(ctx context.Context, sessionToken, federatedToken string) error {
	var errs []error

	if strings.TrimSpace(federatedToken) != "" && s.revoker != nil {
		if err := s.revoker.Revoke(ctx, federatedToken); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.TrimSpace(sessionToken) != "" {
		if err := s.sessions.DeactivateSession(ctx, util.HashToken(sessionToken)); err != nil {
			errs = append(errs, fmt.Errorf("end session: %w", err))
		}
	}

	if len(errs) > 0 {
		s.logger.Warn("sign out incomplete", zap.Errors("errors", errs))
		return fmt.Errorf("%w: %w", domain.ErrAuth, errors.Join(errs...))
	}
	return nil
}
