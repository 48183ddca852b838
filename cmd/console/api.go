package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/handlers"
)

// apiError is a non-200 answer from the API.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

// notice reports whether the error is an expected lookup outcome rather than
// a failure.
func (e *apiError) notice() bool {
	return e.Status == http.StatusNotFound || e.Status == http.StatusUnprocessableEntity
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func lookup(client *http.Client, baseURL string, kind gamedata.Kind, name, granularity string) (*gamedata.Result, error) {
	q := url.Values{}
	q.Set("name", name)
	if granularity != "" {
		q.Set("granularity", granularity)
	}

	resp, err := client.Get(fmt.Sprintf("%s/v1/%s?%s", baseURL, kind, q.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &apiError{Status: resp.StatusCode, Code: errorResp.Code, Message: errorResp.Error}
	}

	var result gamedata.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}
	return &result, nil
}
