package crawler

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scrapeerrors "sjsage522/adscraper/pkg/errors"
)

const baseURL = "https://sn.coinafrique.com/categorie/vetements-homme"

func newTestCollector(fetcher Fetcher, maxPages int) *Collector {
	c := NewCollector(CollectorConfig{MaxPages: maxPages}, fetcher, NewExtractor(DefaultSelectors()))
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	return c
}

func pageURL(n int) string {
	return baseURL + "?page=" + strconv.Itoa(n)
}

func TestCollect(t *testing.T) {
	fetcher := newMockFetcher().
		on(pageURL(1), page(card("P1-A", "1 000 CFA", "Dakar", "/1a.jpg"), card("P1-B", "2 000 CFA", "Dakar", "/1b.jpg"))).
		on(pageURL(2), page(card("P2-A", "3 000 CFA", "Thiès", "/2a.jpg")))

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{pageURL(1), pageURL(2)}, fetcher.Calls())
	assert.Equal(t, 2, result.PagesRequested)
	assert.Equal(t, 2, result.PagesFetched)
	assert.False(t, result.Aborted)
	assert.Empty(t, result.Issues)

	require.Len(t, result.Records, 3)
	titles := []string{result.Records[0].Title, result.Records[1].Title, result.Records[2].Title}
	assert.Equal(t, []string{"P1-A", "P1-B", "P2-A"}, titles)
	assert.Equal(t, 1, result.Records[1].PageNumber)
	assert.Equal(t, 2, result.Records[2].PageNumber)
	for _, r := range result.Records {
		assert.Equal(t, baseURL, r.SourceURL)
		assert.Equal(t, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), r.CollectedAt)
	}
}

func TestCollect_QueryStringSeparator(t *testing.T) {
	search := "https://sn.coinafrique.com/search?keyword=chemise"
	fetcher := newMockFetcher()

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), search, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{search + "&page=1", search + "&page=2"}, fetcher.Calls())
	assert.Empty(t, result.Records)
	assert.Equal(t, search, result.SourceURL)
}

func TestCollect_EarlyAbortOnTransportFault(t *testing.T) {
	fetcher := newMockFetcher().
		on(pageURL(1), page(card("P1", "1 CFA", "Dakar", "/1.jpg"))).
		fail(pageURL(2), scrapeerrors.NewNetwork(pageURL(2), "failed to fetch URL", context.DeadlineExceeded)).
		on(pageURL(3), page(card("P3", "3 CFA", "Dakar", "/3.jpg")))

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, 5)
	require.NoError(t, err)

	// no requests for pages 3-5
	assert.Equal(t, []string{pageURL(1), pageURL(2)}, fetcher.Calls())
	assert.True(t, result.Aborted)
	assert.Equal(t, 1, result.PagesFetched)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "P1", result.Records[0].Title)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.Issues[0].Page)
	assert.Equal(t, SeverityError, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Message, "page 2")
}

func TestCollect_UntypedErrorAborts(t *testing.T) {
	fetcher := newMockFetcher().fail(pageURL(1), errors.New("connection reset by peer"))

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, 3)
	require.NoError(t, err)

	assert.Len(t, fetcher.Calls(), 1)
	assert.True(t, result.Aborted)
	assert.Empty(t, result.Records)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "page 1: connection reset by peer", result.Issues[0].Message)
}

func TestCollect_StatusTolerance(t *testing.T) {
	fetcher := newMockFetcher().
		on(pageURL(1), page(card("P1", "1 CFA", "Dakar", "/1.jpg"))).
		fail(pageURL(2), scrapeerrors.NewStatus(pageURL(2), 503)).
		on(pageURL(3), page(card("P3", "3 CFA", "Dakar", "/3.jpg")))

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{pageURL(1), pageURL(2), pageURL(3)}, fetcher.Calls())
	assert.False(t, result.Aborted)
	assert.Equal(t, 2, result.PagesFetched)

	require.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Records[0].PageNumber)
	assert.Equal(t, 3, result.Records[1].PageNumber)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, SeverityWarning, result.Issues[0].Severity)
	assert.Equal(t, 2, result.Issues[0].Page)
	assert.Contains(t, result.Issues[0].Message, "503")
}

func TestCollect_PaginationBoundary(t *testing.T) {
	for n := 1; n <= 5; n++ {
		fetcher := newMockFetcher()
		result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, n)
		require.NoError(t, err)
		assert.Len(t, fetcher.Calls(), n)
		assert.Equal(t, n, result.PagesFetched)
	}
}

func TestCollect_Validation(t *testing.T) {
	fetcher := newMockFetcher()
	collector := newTestCollector(fetcher, 5)

	testCases := []struct {
		url   string
		pages int
	}{
		{"", 1},
		{"   ", 1},
		{baseURL, 0},
		{baseURL, 6},
		{baseURL, -1},
	}

	for _, tc := range testCases {
		result, err := collector.Collect(context.Background(), tc.url, tc.pages)
		assert.Nil(t, result)
		assert.True(t, scrapeerrors.IsType(err, scrapeerrors.ErrorTypeValidation), "url=%q pages=%d", tc.url, tc.pages)
	}
	assert.Empty(t, fetcher.Calls())
}

func TestCollect_EmptyResultIsNotAnError(t *testing.T) {
	fetcher := newMockFetcher().
		fail(pageURL(1), scrapeerrors.NewStatus(pageURL(1), 404)).
		fail(pageURL(2), scrapeerrors.NewStatus(pageURL(2), 404))

	result, err := newTestCollector(fetcher, 5).Collect(context.Background(), baseURL, 2)
	require.NoError(t, err)
	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Issues, 2)
	assert.False(t, result.Aborted)
}

func TestCollect_DelayBetweenPages(t *testing.T) {
	fetcher := newMockFetcher()
	collector := NewCollector(CollectorConfig{MaxPages: 5, Delay: 30 * time.Millisecond}, fetcher, nil)

	start := time.Now()
	_, err := collector.Collect(context.Background(), baseURL, 3)
	require.NoError(t, err)

	// two pauses: after page 1 and after page 2, none after the last page
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestCollect_CancelledDuringDelay(t *testing.T) {
	fetcher := newMockFetcher().on(pageURL(1), page(card("P1", "1 CFA", "Dakar", "/1.jpg")))
	collector := NewCollector(CollectorConfig{MaxPages: 5, Delay: time.Hour}, fetcher, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := collector.Collect(ctx, baseURL, 3)
	require.NoError(t, err)

	assert.Len(t, fetcher.Calls(), 1)
	assert.True(t, result.Aborted)
	assert.Len(t, result.Records, 1)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.Issues[0].Page)
}

func TestNewCollector_Defaults(t *testing.T) {
	collector := NewCollector(CollectorConfig{}, newMockFetcher(), nil)
	assert.Equal(t, DefaultMaxPages, collector.MaxPages())
	assert.Equal(t, DefaultSelectors(), collector.extractor.Selectors)
}
