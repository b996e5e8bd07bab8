package publisher

import (
	"context"
	"time"
)

// RunEvent summarizes one finished collection run
type RunEvent struct {
	SessionID      string    `json:"session_id"`
	SourceURL      string    `json:"source_url"`
	PagesRequested int       `json:"pages_requested"`
	PagesFetched   int       `json:"pages_fetched"`
	Records        int       `json:"records"`
	Warnings       int       `json:"warnings"`
	Aborted        bool      `json:"aborted"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Publisher represents a service for announcing finished runs
type Publisher interface {
	// PublishRun publishes a run summary
	PublishRun(ctx context.Context, event RunEvent) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher discards every event; used when no broker is configured
type NopPublisher struct{}

// PublishRun does nothing
func (NopPublisher) PublishRun(context.Context, RunEvent) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
