package crawler

import (
	"context"
	"io"
	"time"
)

const (
	// UnspecifiedText replaces a title or location whose text node is missing or empty
	UnspecifiedText = "Non spécifié"
	// UnspecifiedPrice replaces a price whose text node is missing or empty
	UnspecifiedPrice = "0 CFA"
)

// ListingRecord represents one scraped ad card
type ListingRecord struct {
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	PageNumber  int       `json:"page_number"`
	CollectedAt time.Time `json:"collected_at"`
	SourceURL   string    `json:"source_url"`
}

// Collection is an ordered run result: page order, then in-page order
type Collection []ListingRecord

// Selectors contains CSS selectors for the ad cards of a listing page.
// The *Text selectors are looked up inside their parent element; when
// empty, the parent's own text is used.
type Selectors struct {
	Card         string
	Title        string
	TitleText    string
	Price        string
	PriceText    string
	Location     string
	LocationText string
	Image        string
}

// DefaultSelectors returns the CoinAfrique ad card signature
func DefaultSelectors() Selectors {
	return Selectors{
		Card:         "div.col.s6.m4.l3",
		Title:        "p.ad__card-description",
		TitleText:    "a",
		Price:        "p.ad__card-price",
		PriceText:    "a",
		Location:     "p.ad__card-location",
		LocationText: "span",
		Image:        "img.ad__card-img",
	}
}

// Fetcher retrieves one listing page.
//
// Implementations return a status ScrapeError for non-2xx answers and a
// network ScrapeError for transport faults.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.Reader, error)
}

// Severity classifies an Issue raised during a collection run
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a per-page problem surfaced to the caller
type Issue struct {
	Page     int      `json:"page"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the outcome of one collection run
type Result struct {
	SourceURL      string     `json:"source_url"`
	Records        Collection `json:"records"`
	PagesRequested int        `json:"pages_requested"`
	PagesFetched   int        `json:"pages_fetched"`
	Issues         []Issue    `json:"issues"`
	Aborted        bool       `json:"aborted"`
}
