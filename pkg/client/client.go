package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{URL: url, HTTPClient: http.DefaultClient}
}

// APIError is returned by the read calls when the server answers with an
// unsuccessful envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ListNotes fails unless the server returned a successful envelope with data.
func (c *Client) ListNotes(ctx context.Context) ([]notes.Note, error) {
	env := notes.Envelope[[]notes.Note]{}
	status, err := c.do(ctx, http.MethodGet, "/notes", nil, &env)
	if err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, newAPIError(status, env.Error, "failed to fetch notes")
	}
	return *env.Data, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	env := notes.Envelope[notes.Note]{}
	status, err := c.do(ctx, http.MethodGet, notePath(id), nil, &env)
	if err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, newAPIError(status, env.Error, "failed to fetch note")
	}
	return env.Data, nil
}

// CreateNote returns the envelope as sent by the server; only transport
// failures are reported as errors.
func (c *Client) CreateNote(ctx context.Context, input notes.NoteInput) (*notes.Envelope[notes.Note], error) {
	if input.Tags == nil {
		input.Tags = []string{}
	}
	env := &notes.Envelope[notes.Note]{}
	if _, err := c.do(ctx, http.MethodPost, "/notes", input, env); err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, patch notes.NotePatch) (*notes.Envelope[notes.Note], error) {
	env := &notes.Envelope[notes.Note]{}
	if _, err := c.do(ctx, http.MethodPut, notePath(id), patch, env); err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) (*notes.Envelope[notes.Empty], error) {
	env := &notes.Envelope[notes.Empty]{}
	if _, err := c.do(ctx, http.MethodDelete, notePath(id), nil, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Private functions

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func newAPIError(status int, msg string, fallback string) *APIError {
	if msg == "" {
		msg = fallback
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (c *Client) do(ctx context.Context, method string, path string, payload any, out any) (int, error) {
	requestUrl, err := url.JoinPath(c.URL, path)
	if err != nil {
		return 0, fmt.Errorf("error building URL path: %w", err)
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("error JSON-encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, body)
	if err != nil {
		return 0, fmt.Errorf("error building API request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error invoking API: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("error reading response body: %w", err)
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		respStr := strings.TrimSpace(string(respBytes))
		return resp.StatusCode, fmt.Errorf("error JSON-decoding response body (status: %d, response: %s): %w", resp.StatusCode, respStr, err)
	}
	return resp.StatusCode, nil
}
