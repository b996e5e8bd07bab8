package crawler

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/adscraper/pkg/errors"
)

// Extractor turns a listing page into record fragments.
// Fragments carry title, price, location and image URL; page number,
// capture time and source URL are filled in by the Collector.
type Extractor struct {
	Selectors Selectors
}

// NewExtractor creates a new extractor
func NewExtractor(selectors Selectors) *Extractor {
	return &Extractor{Selectors: selectors}
}

// ExtractFromReader parses raw markup and extracts its ad cards
func (e *Extractor) ExtractFromReader(r io.Reader) ([]ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParsing("failed to parse HTML", err)
	}
	return e.Extract(doc), nil
}

// Extract returns one fragment per ad card that has all required
// sub-elements, in document order.
func (e *Extractor) Extract(doc *goquery.Document) []ListingRecord {
	records := []ListingRecord{}
	doc.Find(e.Selectors.Card).Each(func(_ int, s *goquery.Selection) {
		if record, ok := e.processCard(s); ok {
			records = append(records, record)
		}
	})
	return records
}

// HasRequiredFields reports whether a card contains the title, price,
// location and image elements. Their text may still be empty.
func (e *Extractor) HasRequiredFields(s *goquery.Selection) bool {
	for _, sel := range []string{e.Selectors.Title, e.Selectors.Price, e.Selectors.Location, e.Selectors.Image} {
		if sel == "" || s.Find(sel).Length() == 0 {
			return false
		}
	}
	return true
}

func (e *Extractor) processCard(s *goquery.Selection) (ListingRecord, bool) {
	if !e.HasRequiredFields(s) {
		return ListingRecord{}, false
	}

	image, _ := s.Find(e.Selectors.Image).First().Attr("src")

	return ListingRecord{
		Title:    nestedText(s.Find(e.Selectors.Title).First(), e.Selectors.TitleText, UnspecifiedText),
		Price:    nestedText(s.Find(e.Selectors.Price).First(), e.Selectors.PriceText, UnspecifiedPrice),
		Location: nestedText(s.Find(e.Selectors.Location).First(), e.Selectors.LocationText, UnspecifiedText),
		ImageURL: strings.TrimSpace(image),
	}, true
}

// nestedText reads the trimmed text of the child matched by selector,
// or of parent itself when selector is empty. Missing or blank text
// yields fallback.
func nestedText(parent *goquery.Selection, selector, fallback string) string {
	node := parent
	if selector != "" {
		node = parent.Find(selector).First()
		if node.Length() == 0 {
			return fallback
		}
	}

	text := strings.Join(strings.Fields(node.Text()), " ")
	if text == "" {
		return fallback
	}
	return text
}
