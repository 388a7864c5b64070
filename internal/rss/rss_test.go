package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssDoc(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>t</title>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title>Story %d</title><link>https://example.com/%d</link>`+
			`<description>Summary %d</description><pubDate>Mon, 19 Oct 2026 08:00:00 GMT</pubDate></item>`, i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_NormalizesEntries(t *testing.T) {
	srv := serve(t, rssDoc(2))

	articles, err := NewFetcher().Fetch(context.Background(), Source{Name: "wsj", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "Story 1", a.Title)
	assert.Equal(t, "https://example.com/1", a.Link)
	assert.Equal(t, "Summary 1", a.Summary)
	assert.Equal(t, "Mon, 19 Oct 2026 08:00:00 GMT", a.Published)
	assert.Equal(t, "WSJ", a.Source)
	assert.Zero(t, a.Score)
}

func TestFetch_LimitsToMaxItemsInFeedOrder(t *testing.T) {
	srv := serve(t, rssDoc(30))

	articles, err := NewFetcher().Fetch(context.Background(), Source{Name: "ft", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, articles, DefaultMaxItems)
	assert.Equal(t, "Story 1", articles[0].Title)
	assert.Equal(t, "Story 20", articles[19].Title)

	articles, err = NewFetcher(WithMaxItems(3)).Fetch(context.Background(), Source{Name: "ft", URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, articles, 3)
}

func TestFetch_MissingFieldsAreEmpty(t *testing.T) {
	srv := serve(t, `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`+
		`<item><title>Only a title</title></item></channel></rss>`)

	articles, err := NewFetcher().Fetch(context.Background(), Source{Name: "hbr", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Only a title", articles[0].Title)
	assert.Equal(t, "", articles[0].Link)
	assert.Equal(t, "", articles[0].Summary)
	assert.Equal(t, "", articles[0].Published)
}

func TestFetch_Atom(t *testing.T) {
	srv := serve(t, `<?xml version="1.0" encoding="utf-8"?><feed xmlns="http://www.w3.org/2005/Atom"><title>t</title>`+
		`<entry><title>Atom story</title><link href="https://example.com/atom"/>`+
		`<summary>Atom summary</summary><published>2026-10-19T08:00:00Z</published></entry></feed>`)

	articles, err := NewFetcher().Fetch(context.Background(), Source{Name: "bloomberg", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/atom", articles[0].Link)
	assert.Equal(t, "Atom summary", articles[0].Summary)
	assert.Equal(t, "BLOOMBERG", articles[0].Source)
}

func TestFetch_HTTPErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), Source{Name: "wsj", URL: srv.URL})
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "wsj", fe.Source)
	assert.Equal(t, srv.URL, fe.URL)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewFetcher(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), Source{Name: "slow", URL: srv.URL})
	assert.Error(t, err)
}

func TestFetchAll_IsolatesFailures(t *testing.T) {
	good := serve(t, rssDoc(2))
	bad := serve(t, "this is not a feed")

	res := NewFetcher().FetchAll(context.Background(), []Source{
		{Name: "wsj", URL: good.URL},
		{Name: "broken", URL: bad.URL},
		{Name: "ft", URL: good.URL},
	})

	require.Len(t, res.Articles, 4)
	assert.Equal(t, "WSJ", res.Articles[0].Source)
	assert.Equal(t, "FT", res.Articles[2].Source)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "broken", res.Failures[0].Source)
}

func TestFetchAll_CancelledContext(t *testing.T) {
	srv := serve(t, rssDoc(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewFetcher().FetchAll(ctx, []Source{{Name: "wsj", URL: srv.URL}, {Name: "ft", URL: srv.URL}})
	assert.Empty(t, res.Articles)
	require.Len(t, res.Failures, 2)
	assert.ErrorIs(t, res.Failures[0], context.Canceled)
}
