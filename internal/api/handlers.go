package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"sjsage522/adscraper/internal/crawler"
	"sjsage522/adscraper/internal/pricing"
	"sjsage522/adscraper/pkg/errors"
	"sjsage522/adscraper/services/export"
)

type ScrapeRequest struct {
	URL   string `json:"url"`
	Pages *int   `json:"pages"`
}

type ScrapeResponse struct {
	Records        crawler.Collection `json:"records"`
	Count          int                `json:"count"`
	PagesRequested int                `json:"pages_requested"`
	PagesFetched   int                `json:"pages_fetched"`
	Issues         []crawler.Issue    `json:"issues"`
	Aborted        bool               `json:"aborted"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name": "CoinAfrique Scraper",
		"actions": []map[string]string{
			{"method": "POST", "path": "/scrape", "description": "scrape listing pages into this session"},
			{"method": "GET", "path": "/listings", "description": "show the current collection"},
			{"method": "GET", "path": "/export.csv", "description": "download the collection as CSV"},
			{"method": "GET", "path": "/export.json", "description": "download the collection as JSON"},
			{"method": "GET", "path": "/dashboard", "description": "price metrics for the collection"},
		},
		"default_url": s.opts.TargetURL,
		"min_pages":   1,
		"max_pages":   s.runner.MaxPages(),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = s.opts.TargetURL
	}
	pages := 1
	if req.Pages != nil {
		pages = *req.Pages
	}

	result, err := s.runner.Run(r.Context(), sessionID(r), url, pages)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Scrape failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ScrapeResponse{
		Records:        result.Records,
		Count:          len(result.Records),
		PagesRequested: result.PagesRequested,
		PagesFetched:   result.PagesFetched,
		Issues:         result.Issues,
		Aborted:        result.Aborted,
	})
}

// loadCollection writes an error response and returns ok=false when the
// session has no collection to show
func (s *Server) loadCollection(w http.ResponseWriter, r *http.Request) (crawler.Collection, bool) {
	records, ok, err := s.sessions.Load(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session: "+err.Error())
		return nil, false
	}
	if !ok {
		respondError(w, http.StatusNotFound, "No data scraped in this session yet")
		return nil, false
	}
	return records, true
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	records, ok, err := s.sessions.Load(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session: "+err.Error())
		return
	}
	if records == nil {
		records = crawler.Collection{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
		"scraped": ok,
	})
}

func (s *Server) handleResetListings(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Reset(r.Context(), sessionID(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to reset session: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := s.loadCollection(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	serveAttachment(w, "text/csv; charset=utf-8", export.Filename("csv", time.Now()), buf.Bytes())
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	records, ok := s.loadCollection(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, records); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	serveAttachment(w, "application/json", export.Filename("json", time.Now()), buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	records, ok := s.loadCollection(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": pricing.Summarize(records),
		"rows":    pricing.Rows(records),
	})
}

func serveAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
