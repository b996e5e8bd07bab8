package worker

import (
	"context"
	"time"

	"sjsage522/adscraper/internal/crawler"
	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/services/publisher"
	"sjsage522/adscraper/services/session"
)

// Collector runs one paginated collection
type Collector interface {
	Collect(ctx context.Context, baseURL string, pages int) (*crawler.Result, error)
	MaxPages() int
}

// Worker handles one scrape run on behalf of a session
type Worker struct {
	collector Collector
	sessions  session.Store
	publisher publisher.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewWorker creates a new worker
func NewWorker(collector Collector, sessions session.Store, pub publisher.Publisher) *Worker {
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	return &Worker{
		collector: collector,
		sessions:  sessions,
		publisher: pub,
		log:       logger.ForWorker(),
		now:       time.Now,
	}
}

// MaxPages returns the largest page count a run accepts
func (w *Worker) MaxPages() int {
	return w.collector.MaxPages()
}

// Run collects baseURL and replaces the session's collection with the result.
// A publish failure is logged and does not fail the run.
func (w *Worker) Run(ctx context.Context, sessionID, baseURL string, pages int) (*crawler.Result, error) {
	start := w.now()

	result, err := w.collector.Collect(ctx, baseURL, pages)
	if err != nil {
		return nil, err
	}

	if err := w.sessions.Save(ctx, sessionID, result.Records); err != nil {
		w.log.Error().Err(err).Str("session", sessionID).Msg("Failed to store collection")
		return nil, err
	}

	event := publisher.RunEvent{
		SessionID:      sessionID,
		SourceURL:      result.SourceURL,
		PagesRequested: result.PagesRequested,
		PagesFetched:   result.PagesFetched,
		Records:        len(result.Records),
		Warnings:       countWarnings(result.Issues),
		Aborted:        result.Aborted,
		FinishedAt:     w.now(),
	}
	if err := w.publisher.PublishRun(ctx, event); err != nil {
		w.log.Error().Err(err).Str("session", sessionID).Msg("Failed to publish run event")
	}

	w.log.Info().
		Str("session", sessionID).
		Str("url", result.SourceURL).
		Int("records", len(result.Records)).
		Dur("elapsed", w.now().Sub(start)).
		Msg("Scrape run finished")

	return result, nil
}

func countWarnings(issues []crawler.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == crawler.SeverityWarning {
			n++
		}
	}
	return n
}
