package services

import (
	"context"
	"fmt"
	"sync"
)

// MockFetcher is a mock implementation of Fetcher for testing. Without
// FetchFunc it serves Responses by path.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, path string) (string, error)
	Responses map[string]string

	mu         sync.Mutex
	FetchCalls []string
}

var _ Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates a mock serving the given path → body responses.
func NewMockFetcher(responses map[string]string) *MockFetcher {
	return &MockFetcher{Responses: responses}
}

func (m *MockFetcher) Fetch(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, path)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, path)
	}
	body, ok := m.Responses[path]
	if !ok {
		return "", fmt.Errorf("no mock response for %s", path)
	}
	return body, nil
}

// Calls returns the number of Fetch calls so far.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}
