package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sjsage522/adscraper/helpers"
	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/pkg/errors"
)

// DefaultMaxPages bounds a run when the configuration does not
const DefaultMaxPages = 5

// CollectorConfig contains configuration for a collector
type CollectorConfig struct {
	MaxPages int
	// Delay is the pause after each successful page fetch
	Delay time.Duration
}

// Collector drives the Extractor across the pages of a listing URL.
// Pages are fetched one at a time; a Collector holds no run state and
// may be reused.
type Collector struct {
	fetcher   Fetcher
	extractor *Extractor
	maxPages  int
	delay     time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewCollector creates a new collector
func NewCollector(cfg CollectorConfig, fetcher Fetcher, extractor *Extractor) *Collector {
	maxPages := cfg.MaxPages
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	if extractor == nil {
		extractor = NewExtractor(DefaultSelectors())
	}

	return &Collector{
		fetcher:   fetcher,
		extractor: extractor,
		maxPages:  maxPages,
		delay:     cfg.Delay,
		now:       time.Now,
		log:       logger.ForCollector(),
	}
}

// MaxPages returns the upper bound accepted by Collect
func (c *Collector) MaxPages() int {
	return c.maxPages
}

// Collect fetches pages 1..pages of baseURL and accumulates the extracted records.
//
// A non-2xx page is reported as a warning and skipped. A transport fault
// is reported as an error and ends the run; the records gathered so far
// are still returned. The only error returned is a validation error for
// bad input.
func (c *Collector) Collect(ctx context.Context, baseURL string, pages int) (*Result, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.NewValidation("target URL is required")
	}
	if pages < 1 || pages > c.maxPages {
		return nil, errors.NewValidation(fmt.Sprintf("page count must be between 1 and %d, got %d", c.maxPages, pages))
	}

	result := &Result{
		SourceURL:      baseURL,
		Records:        Collection{},
		PagesRequested: pages,
		Issues:         []Issue{},
	}

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			c.abort(result, page, err)
			break
		}

		pageURL := helpers.PageURL(baseURL, page)
		body, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if se, ok := errors.As(err); ok && !se.AbortsRun() {
				c.warn(result, page, se)
				continue
			}
			c.abort(result, page, err)
			break
		}

		result.PagesFetched++
		fragments, err := c.extractor.ExtractFromReader(body)
		if err != nil {
			se, ok := errors.As(err)
			if !ok {
				se = errors.NewParsing("failed to parse HTML", err)
			}
			c.warn(result, page, se)
		} else {
			capturedAt := c.now()
			for _, record := range fragments {
				record.PageNumber = page
				record.CollectedAt = capturedAt
				record.SourceURL = baseURL
				result.Records = append(result.Records, record)
			}

			c.log.Info().
				Int("page", page).
				Int("records", len(fragments)).
				Str("url", pageURL).
				Msg("Page collected")
		}

		if page < pages {
			if err := c.wait(ctx); err != nil {
				c.abort(result, page+1, err)
				break
			}
		}
	}

	c.log.Info().
		Str("url", baseURL).
		Int("pages_requested", pages).
		Int("pages_fetched", result.PagesFetched).
		Int("records", len(result.Records)).
		Bool("aborted", result.Aborted).
		Msg("Collection finished")

	return result, nil
}

func (c *Collector) warn(result *Result, page int, err *errors.ScrapeError) {
	tagged := err.WithPage(page)
	c.log.Warn().
		Int("page", page).
		Int("status", tagged.StatusCode).
		Err(tagged).
		Msg("Page skipped")

	result.Issues = append(result.Issues, Issue{
		Page:     page,
		Severity: SeverityWarning,
		Message:  tagged.Error(),
	})
}

func (c *Collector) abort(result *Result, page int, err error) {
	var message string
	if se, ok := errors.As(err); ok {
		message = se.WithPage(page).Error()
	} else {
		message = fmt.Sprintf("page %d: %v", page, err)
	}

	c.log.Error().
		Int("page", page).
		Err(err).
		Msg("Collection aborted")

	result.Aborted = true
	result.Issues = append(result.Issues, Issue{
		Page:     page,
		Severity: SeverityError,
		Message:  message,
	})
}

// wait pauses for the configured delay unless ctx ends first
func (c *Collector) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
