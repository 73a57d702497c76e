package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

// Scheduler service endpoints
const (
	EndpointSchedule = "/api/schedule"
	EndpointMLQ      = "/api/mlq"
	EndpointMLFQ     = "/api/mlfq"
)

// maxResponseBytes bounds how much of a scheduler reply is read
const maxResponseBytes = 32 << 20

// ProcessInput is one process submitted for scheduling
type ProcessInput struct {
	PID         int `json:"p_id"`
	ArrivalTime int `json:"arrival_time"`
	BurstTime   int `json:"burst_time"`
	Priority    int `json:"priority"`
}

// ScheduleRequest is the body accepted by the scheduler service
type ScheduleRequest struct {
	SchedulingType string         `json:"scheduling_type"`
	Quantum        *int           `json:"quantum,omitempty"`
	NumOfQueues    *int           `json:"num_of_queues,omitempty"`
	Aging          *bool          `json:"aging,omitempty"`
	AgingThreshold *int           `json:"aging_threshold,omitempty"`
	Processes      []ProcessInput `json:"processes"`
}

// EndpointFor picks the service route for a scheduling type
func EndpointFor(schedulingType string) string {
	switch strings.ToUpper(schedulingType) {
	case "MLQ", "MLQ_AGING":
		return EndpointMLQ
	case "MLFQ":
		return EndpointMLFQ
	default:
		return EndpointSchedule
	}
}

// HTTPError is returned when the scheduler answers with a non-200 status
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scheduler returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("scheduler returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the external scheduler service. It performs exactly one
// request per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL, defaulting to the local scheduler
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultSchedulerBaseURL
	}
	if timeout <= 0 {
		timeout = constants.SchedulerTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Schedule posts a JSON request body to endpoint and returns the raw payload
func (c *Client) Schedule(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	url := c.baseURL + endpoint
	util.LogDebugf("Posting schedule request to %s (%d bytes)", url, len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach scheduler: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		util.LogDebugf("Scheduler responded with status %d", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// Submit encodes req and posts it to the route for its scheduling type
func (c *Client) Submit(ctx context.Context, req ScheduleRequest) ([]byte, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule request: %w", err)
	}
	return c.Schedule(ctx, EndpointFor(req.SchedulingType), body)
}

// errorMessage extracts the service's error message, falling back to the raw body
func errorMessage(data []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(data))
}
