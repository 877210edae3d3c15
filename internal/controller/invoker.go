package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPInvoker issues action requests against the editor server's endpoints.
type HTTPInvoker struct {
	Client     *http.Client
	BaseURL    string
	SignOption string // "signed" or "unsigned"; empty means the server default
}

// actionResponse is the JSON contract for sign and AI-test actions.
type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Invoke posts the request for the given action. Compile responds with a
// navigation/redirect; sign and the AI test respond with JSON
// {success, message}. Transport problems (network failure, non-2xx,
// non-JSON body) are returned as errors; application failures come back as
// an unsuccessful Outcome.
func (h *HTTPInvoker) Invoke(ctx context.Context, kind ActionKind, projectID string) (Outcome, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	url, isJSON, err := h.endpoint(kind, projectID)
	if err != nil {
		return Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("posting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if !isJSON {
		// Navigation response: any success status after redirects counts.
		if resp.StatusCode >= 200 && resp.StatusCode < 400 {
			return Outcome{Success: true, Message: "compile finished"}, nil
		}
		return Outcome{}, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	var body actionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Outcome{}, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return Outcome{Success: body.Success, Message: body.Message}, nil
}

func (h *HTTPInvoker) endpoint(kind ActionKind, projectID string) (url string, isJSON bool, err error) {
	base := strings.TrimSuffix(h.BaseURL, "/")
	switch kind {
	case ActionCompile:
		url = base + "/compile/" + projectID
		if h.SignOption != "" {
			url += "/" + h.SignOption
		}
		return url, false, nil
	case ActionSign:
		return base + "/sign_apk/" + projectID, true, nil
	case ActionTestAI:
		return base + "/test_ai", true, nil
	default:
		return "", false, fmt.Errorf("unknown action kind: %s", kind)
	}
}
