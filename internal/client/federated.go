package client

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// FederatedToken is what the identity provider hands back after consent.
type FederatedToken struct {
	IDToken     string
	AccessToken string
}

// FederatedSource obtains Google credentials for SignIn.
type FederatedSource interface {
	Token(ctx context.Context) (*FederatedToken, error)
}

// StaticSource returns a token obtained elsewhere, e.g. passed on the command line.
type StaticSource struct {
	IDToken     string
	AccessToken string
}

func (s StaticSource) Token(context.Context) (*FederatedToken, error) {
	return &FederatedToken{IDToken: s.IDToken, AccessToken: s.AccessToken}, nil
}

// LoopbackSource runs the installed-app OAuth flow: it prints the consent URL,
// waits for Google to redirect to a local listener and exchanges the code.
type LoopbackSource struct {
	ClientID     string
	ClientSecret string
	// Prompt receives the consent URL the user has to open.
	Prompt func(authURL string)
	// Listen defaults to 127.0.0.1 on a random port.
	Listen func() (net.Listener, error)
	// Exchange is swapped in tests.
	Exchange func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error)
}

func (s *LoopbackSource) Token(ctx context.Context) (*FederatedToken, error) {
	if strings.TrimSpace(s.ClientID) == "" {
		return nil, fmt.Errorf("%w: google client id is not configured", domain.ErrAuth)
	}
	listen := s.Listen
	if listen == nil {
		listen = func() (net.Listener, error) { return net.Listen("tcp", "127.0.0.1:0") }
	}
	ln, err := listen()
	if err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer ln.Close()

	cfg := &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  "http://" + ln.Addr().String() + "/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	state, err := randomState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
	if s.Prompt != nil {
		s.Prompt(authURL)
	}

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	report := func(r result) {
		select {
		case done <- r:
		default:
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			report(result{err: errors.New("oauth state mismatch")})
		case q.Get("error") != "":
			io.WriteString(w, "Sign-in was cancelled. You can close this window.")
			report(result{err: fmt.Errorf("consent denied: %s", q.Get("error"))})
		default:
			io.WriteString(w, "Signed in. You can close this window.")
			report(result{code: q.Get("code")})
		}
	})
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	var res result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: sign-in cancelled: %v", domain.ErrAuth, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, res.err)
	}

	exchange := s.Exchange
	if exchange == nil {
		exchange = func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
			return cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		}
	}
	tok, err := exchange(ctx, cfg, res.code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange authorization code: %v", domain.ErrAuth, err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	return &FederatedToken{IDToken: idToken, AccessToken: tok.AccessToken}, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
