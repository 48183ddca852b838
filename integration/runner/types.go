package runner

import (
	"time"
)

// TestSuite is a named sequence of API requests and their expected outcomes.
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps"`
}

// TestStep defines a single request and what to check in its response.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Method       string       `json:"method,omitempty"` // GET when empty
	Path         string       `json:"path"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Status      *int   `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"` // prefix match
	Code        string `json:"code,omitempty"`         // error code of a failed lookup
	Count       *int   `json:"count,omitempty"`        // matched entities of a lookup

	// Response Analysis
	ResponseContains    []string `json:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
}
