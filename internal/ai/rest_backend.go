package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var _ Backend = (*RESTBackend)(nil)

// RESTBackend calls the chat completions endpoint directly. It is used when
// the SDK route reports a missing model, against a separately configured
// stable base URL.
type RESTBackend struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewRESTBackend(apiKey, baseURL string, httpClient *http.Client) *RESTBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RESTBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type restRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int64     `json:"max_tokens,omitempty"`
}

type restResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type restError struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func (b *RESTBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(restRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusErrorFrom(resp.StatusCode, payload)
	}

	var decoded restResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return decoded.Choices[0].Message.Content, nil
}

func statusErrorFrom(code int, payload []byte) *StatusError {
	var apiErr restError
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg := apiErr.Error.Message
		if c, ok := apiErr.Error.Code.(string); ok && c != "" {
			msg = c + ": " + msg
		}
		return &StatusError{StatusCode: code, Message: msg}
	}
	return &StatusError{StatusCode: code, Message: strings.TrimSpace(string(payload))}
}
