package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

// ServiceError is returned for every failed generation. It matches
// domain.ErrService and the underlying provider error.
type ServiceError struct {
	Model string
	Err   error
}

func (e *ServiceError) Error() string {
	msg := "ai service"
	if e.Model != "" {
		msg += ": model " + e.Model
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() []error {
	return []error{domain.ErrService, e.Err}
}

// StatusError is a non-2xx answer from the REST endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

var ErrEmptyCompletion = errors.New("empty completion")

var notFoundMarkers = []string{"not found", "does not exist", "model_not_found", "decommissioned"}

// IsModelNotFound reports whether err means the requested model is unavailable
// rather than a general failure.
func IsModelNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range notFoundMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
