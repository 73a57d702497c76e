package client

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Source produces a raw scheduling payload for the normalizer
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	// Name identifies the source in logs and errors
	Name() string
}

// FileSource reads a payload saved to disk
type FileSource struct {
	Path string
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return data, nil
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

// SchedulerSource asks the scheduler service to compute a payload
type SchedulerSource struct {
	Client  *Client
	Request ScheduleRequest
}

func (s *SchedulerSource) Load(ctx context.Context) ([]byte, error) {
	return s.Client.Submit(ctx, s.Request)
}

func (s *SchedulerSource) Name() string {
	return s.Client.BaseURL() + EndpointFor(s.Request.SchedulingType)
}

// SourceConfig selects where a payload comes from
type SourceConfig struct {
	// TracePath is a saved payload; takes precedence over the scheduler
	TracePath string
	// RequestPath is a JSON ScheduleRequest to submit to SchedulerURL
	RequestPath  string
	SchedulerURL string
}

// NewSource creates a Source from configuration
func NewSource(cfg SourceConfig) (Source, error) {
	switch {
	case cfg.TracePath != "":
		return &FileSource{Path: cfg.TracePath}, nil
	case cfg.RequestPath != "":
		req, err := LoadRequest(cfg.RequestPath)
		if err != nil {
			return nil, err
		}
		return &SchedulerSource{Client: NewClient(cfg.SchedulerURL, 0), Request: req}, nil
	default:
		return nil, fmt.Errorf("no trace file or schedule request configured")
	}
}

// LoadRequest reads a ScheduleRequest from a JSON file
func LoadRequest(path string) (ScheduleRequest, error) {
	var req ScheduleRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read schedule request: %w", err)
	}
	if err := sonic.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse schedule request: %w", err)
	}
	if req.SchedulingType == "" {
		return req, fmt.Errorf("schedule request %s has no scheduling_type", path)
	}
	return req, nil
}
