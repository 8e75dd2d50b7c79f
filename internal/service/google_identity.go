package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// IdentityVerifier turns a federated identity token into a user.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.User, error)
}

// TokenRevoker invalidates a federated token at its issuer.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
}

// GoogleVerifier validates Google ID tokens against any of the configured
// OAuth client ids (web, Android, iOS).
type GoogleVerifier struct {
	audiences []string
	validate  func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(audiences []string) *GoogleVerifier {
	return &GoogleVerifier{audiences: audiences, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*domain.User, error) {
	audiences := v.audiences
	if len(audiences) == 0 {
		audiences = []string{""}
	}

	var payload *idtoken.Payload
	var errs []error
	for _, aud := range audiences {
		p, err := v.validate(ctx, idToken, aud)
		if err == nil {
			payload = p
			break
		}
		errs = append(errs, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("invalid google token: %w", errors.Join(errs...))
	}

	email, _ := payload.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("google token has no email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google account email is not verified")
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return &domain.User{Email: email, DisplayName: name, PhotoURL: picture}, nil
}

const googleRevokeURL = "https://oauth2.googleapis.com/revoke"

type GoogleRevoker struct {
	endpoint string
	http     *http.Client
}

func NewGoogleRevoker(httpClient *http.Client) *GoogleRevoker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleRevoker{endpoint: googleRevokeURL, http: httpClient}
}

func (r *GoogleRevoker) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("revoke google token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("revoke google token: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
