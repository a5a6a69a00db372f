package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// apiClient talks to the message endpoints of a running server
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// apiError is any response outside the expected status
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("error response: %s, status: %d", e.Body, e.Status)
}

func messagesURL(organizationID uuid.UUID) string {
	return fmt.Sprintf("/api/v1/organizations/%s/messages", organizationID)
}

func (c *apiClient) do(ctx context.Context, method, path string, payload any, want int) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("error marshaling request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != want {
		return resp, data, &apiError{Status: resp.StatusCode, Body: string(data)}
	}
	return resp, data, nil
}

func (c *apiClient) list(ctx context.Context, organizationID uuid.UUID) ([]map[string]any, error) {
	_, data, err := c.do(ctx, http.MethodGet, messagesURL(organizationID), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var messages []map[string]any
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return messages, nil
}

// create returns the Location of the new message
func (c *apiClient) create(ctx context.Context, organizationID uuid.UUID, title, content string) (string, error) {
	resp, _, err := c.do(ctx, http.MethodPost, messagesURL(organizationID), map[string]string{
		"title":   title,
		"content": content,
	}, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return resp.Header.Get("Location"), nil
}

func (c *apiClient) get(ctx context.Context, location string) (map[string]any, error) {
	_, data, err := c.do(ctx, http.MethodGet, location, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var message map[string]any
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return message, nil
}

func (c *apiClient) update(ctx context.Context, location, title, content string, active bool) error {
	_, _, err := c.do(ctx, http.MethodPut, location, map[string]any{
		"title":    title,
		"content":  content,
		"isActive": active,
	}, http.StatusNoContent)
	return err
}

func (c *apiClient) delete(ctx context.Context, location string) error {
	_, _, err := c.do(ctx, http.MethodDelete, location, nil, http.StatusNoContent)
	return err
}

// smoke walks one message through its whole lifecycle
func (c *apiClient) smoke(ctx context.Context, organizationID uuid.UUID, report func(string, ...any)) error {
	title := "Smoke test " + uuid.NewString()[:8]

	location, err := c.create(ctx, organizationID, title, "Created by the smoke test.")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	report("Created %s", location)

	if _, err := c.get(ctx, location); err != nil {
		return fmt.Errorf("get: %w", err)
	}
	report("Fetched %s", location)

	if _, err := c.create(ctx, organizationID, title, "Duplicate title must be rejected."); err == nil {
		return fmt.Errorf("duplicate title was accepted")
	}
	report("Duplicate title rejected")

	if err := c.update(ctx, location, title, "Updated by the smoke test.", true); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	report("Updated %s", location)

	if err := c.delete(ctx, location); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	report("Deleted %s", location)

	if _, err := c.get(ctx, location); err == nil {
		return fmt.Errorf("deleted message is still readable")
	}
	return nil
}
