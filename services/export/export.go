package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"sjsage522/adscraper/internal/crawler"
)

// Header is the CSV column order
var Header = []string{"title", "price", "location", "image_url", "page_number", "collected_at", "source_url"}

// WriteCSV writes a header row followed by one row per record
func WriteCSV(w io.Writer, records crawler.Collection) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Title,
			r.Price,
			r.Location,
			r.ImageURL,
			strconv.Itoa(r.PageNumber),
			r.CollectedAt.Format(time.RFC3339),
			r.SourceURL,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return nil
}

// WriteJSON writes the records as an indented JSON array
func WriteJSON(w io.Writer, records crawler.Collection) error {
	if records == nil {
		records = crawler.Collection{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("json encode error: %w", err)
	}
	return nil
}

// Filename builds a download name like "annonces_20261018_093000.csv"
func Filename(ext string, at time.Time) string {
	return fmt.Sprintf("annonces_%s.%s", at.Format("20060102_150405"), ext)
}
