package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running yadc API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	if len(suite.Steps) == 0 {
		return TestSuite{}, fmt.Errorf("test file %s has no steps", filename)
	}

	return suite, nil
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

// RunSuite executes every step of suite in order.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) []TestResult {
	r.logf("Running suite: %s", suite.Name)

	results := make([]TestResult, 0, len(suite.Steps))
	for i, step := range suite.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}

		result := r.runStep(ctx, step)
		result.TestName = suite.Name
		result.StepName = name
		results = append(results, result)

		if result.Success {
			r.logf("  ✓ %s (%s)", name, result.Duration.Round(time.Millisecond))
			continue
		}
		r.logf("  ✗ %s: %v", name, result.Error)
		if r.ErrorHandlingMode == ErrorHandlingExit {
			break
		}
	}
	return results
}

func (r *Runner) runStep(ctx context.Context, step TestStep) TestResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	method := step.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+step.Path, nil)
	if err != nil {
		return TestResult{Error: fmt.Errorf("failed to create request: %w", err), Duration: time.Since(start)}
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return TestResult{Error: fmt.Errorf("failed to send request: %w", err), Duration: time.Since(start)}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TestResult{Error: fmt.Errorf("failed to read response: %w", err), Duration: time.Since(start)}
	}

	result := TestResult{ResponseText: string(body), Duration: time.Since(start)}
	result.Error = checkExpectations(step.Expectations, resp, string(body))
	result.Success = result.Error == nil
	return result
}

// checkExpectations returns every failed expectation joined into one error.
func checkExpectations(expect Expectations, resp *http.Response, body string) error {
	var failures []string

	wantStatus := http.StatusOK
	if expect.Status != nil {
		wantStatus = *expect.Status
	}
	if resp.StatusCode != wantStatus {
		failures = append(failures, fmt.Sprintf("status: expected %d, got %d", wantStatus, resp.StatusCode))
	}

	if expect.ContentType != "" && !strings.HasPrefix(resp.Header.Get("Content-Type"), expect.ContentType) {
		failures = append(failures, fmt.Sprintf("content type: expected %q, got %q", expect.ContentType, resp.Header.Get("Content-Type")))
	}

	if expect.Code != "" || expect.Count != nil {
		var decoded struct {
			Code  string `json:"code"`
			Count int    `json:"count"`
		}
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			failures = append(failures, fmt.Sprintf("body is not JSON: %v", err))
		} else {
			if expect.Code != "" && decoded.Code != expect.Code {
				failures = append(failures, fmt.Sprintf("code: expected %q, got %q", expect.Code, decoded.Code))
			}
			if expect.Count != nil && decoded.Count != *expect.Count {
				failures = append(failures, fmt.Sprintf("count: expected %d, got %d", *expect.Count, decoded.Count))
			}
		}
	}

	for _, s := range expect.ResponseContains {
		if !strings.Contains(body, s) {
			failures = append(failures, fmt.Sprintf("response does not contain %q", s))
		}
	}
	for _, s := range expect.ResponseNotContains {
		if strings.Contains(body, s) {
			failures = append(failures, fmt.Sprintf("response contains %q", s))
		}
	}

	if expect.ResponseRegex != "" {
		re, err := regexp.Compile(expect.ResponseRegex)
		if err != nil {
			failures = append(failures, fmt.Sprintf("invalid regex %q: %v", expect.ResponseRegex, err))
		} else if !re.MatchString(body) {
			failures = append(failures, fmt.Sprintf("response does not match %q", expect.ResponseRegex))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}
