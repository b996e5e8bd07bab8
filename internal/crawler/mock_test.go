package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// card renders one CoinAfrique-like ad card
func card(title, price, location, image string) string {
	return fmt.Sprintf(`
		<div class="col s6 m4 l3">
			<div class="card ad__card">
				<a class="card-image ad__card-image waves-block waves-light" href="/annonce/1">
					<img class="ad__card-img" src="%s" alt="%s">
				</a>
				<div class="card-content">
					<p class="ad__card-description"><a href="/annonce/1">%s</a></p>
					<p class="ad__card-price"><a href="/annonce/1">%s</a></p>
					<p class="ad__card-location"><span>%s</span></p>
				</div>
			</div>
		</div>`, image, title, title, price, location)
}

// page wraps cards in a listing document
func page(cards ...string) string {
	return `<!DOCTYPE html><html><head><title>Vêtements homme</title></head><body>
		<div class="row adcard__listing">` + strings.Join(cards, "") + `</div></body></html>`
}

type fetchResponse struct {
	body string
	err  error
}

// mockFetcher serves canned responses keyed by URL and records every call
type mockFetcher struct {
	mu        sync.Mutex
	responses map[string]fetchResponse
	calls     []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{responses: make(map[string]fetchResponse)}
}

func (m *mockFetcher) on(url, body string) *mockFetcher {
	m.responses[url] = fetchResponse{body: body}
	return m
}

func (m *mockFetcher) fail(url string, err error) *mockFetcher {
	m.responses[url] = fetchResponse{err: err}
	return m
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)

	resp, ok := m.responses[url]
	if !ok {
		return strings.NewReader(page()), nil
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return strings.NewReader(resp.body), nil
}

func (m *mockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
