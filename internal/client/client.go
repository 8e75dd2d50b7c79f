package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/places"
)

const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx answer from the API. It unwraps to the domain error
// class that produced the status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrAuth
	case http.StatusTooManyRequests:
		return domain.ErrQuotaExceeded
	case http.StatusBadGateway:
		return domain.ErrService
	case http.StatusUnprocessableEntity:
		return domain.ErrDataFormat
	case http.StatusNotFound:
		return domain.ErrTripNotFound
	case http.StatusConflict:
		return domain.ErrGenerationInProgress
	case http.StatusServiceUnavailable:
		return domain.ErrPlacesNotConfigured
	case http.StatusInternalServerError:
		return domain.ErrStorage
	default:
		return nil
	}
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type TripRequest struct {
	Destination  string `json:"destination"`
	Budget       string `json:"budget,omitempty"`
	CustomBudget string `json:"custom_budget,omitempty"`
	Days         int    `json:"days"`
	Traveler     string `json:"traveler"`
}

type GeneratedTrip struct {
	Trip domain.Trip `json:"trip"`
	Next string      `json:"next"`
}

type Options struct {
	Budgets             []domain.BudgetOption   `json:"budgets"`
	Travelers           []domain.TravelerOption `json:"travelers"`
	DefaultDays         int                     `json:"default_days"`
	PopularDestinations []domain.Destination    `json:"popular_destinations"`
}

type Share struct {
	Message     string `json:"message"`
	CalendarURL string `json:"calendar_url,omitempty"`
}

// Client talks to the trip planner API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/google", map[string]string{"id_token": idToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context, googleToken string) error {
	var body any
	if googleToken != "" {
		body = map[string]string{"google_token": googleToken}
	}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", body, nil)
}

func (c *Client) Options(ctx context.Context) (*Options, error) {
	var out Options
	if err := c.do(ctx, http.MethodGet, "/api/v1/options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateTrip(ctx context.Context, req TripRequest) (*GeneratedTrip, error) {
	var out GeneratedTrip
	if err := c.do(ctx, http.MethodPost, "/api/v1/trips/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	var out struct {
		Trips []domain.Trip `json:"trips"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/trips", nil, &out); err != nil {
		return nil, err
	}
	return out.Trips, nil
}

func (c *Client) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	var out struct {
		Trip domain.Trip `json:"trip"`
	}
	if err := c.do(ctx, http.MethodGet, tripPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out.Trip, nil
}

// DeleteTrip sends the confirmed delete. Callers ask the user first.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, tripPath(id, "")+"?confirm=true", nil, nil)
}

func (c *Client) ShareTrip(ctx context.Context, id string) (*Share, error) {
	var out Share
	if err := c.do(ctx, http.MethodGet, tripPath(id, "/share"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TripCalendar(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, tripPath(id, "/calendar.ics"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) Autocomplete(ctx context.Context, query string) ([]places.Suggestion, error) {
	var out struct {
		Suggestions []places.Suggestion `json:"suggestions"`
	}
	path := "/api/v1/places/autocomplete?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func tripPath(id, suffix string) string {
	return "/api/v1/trips/" + url.PathEscape(id) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx answers into *APIError.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &envelope); err == nil {
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return nil, apiErr
}

// IsUnauthorized reports whether err is a rejected or expired session.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
