package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/dailydigest/internal/logger"
	"github.com/deusflow/dailydigest/internal/news"
)

const (
	// DefaultMaxItems is how many entries are taken from each feed, in feed order.
	DefaultMaxItems = 20
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 30 * time.Second

	userAgent = "dailydigest/1.0 (+RSS reader)"
)

// Source is one configured feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// FetchError records a feed that could not be downloaded or parsed.
type FetchError struct {
	Source string
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchResult is the outcome of fetching every source.
type FetchResult struct {
	Articles []news.Article
	Failures []*FetchError
}

// Fetcher downloads and normalizes feeds.
type Fetcher struct {
	parser   *gofeed.Parser
	maxItems int
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	timeout  time.Duration
	maxItems int
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *fetcherOptions) { o.timeout = d }
}

// WithMaxItems caps the number of entries taken from each feed.
func WithMaxItems(n int) Option {
	return func(o *fetcherOptions) { o.maxItems = n }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := fetcherOptions{timeout: DefaultTimeout, maxItems: DefaultMaxItems}
	for _, opt := range opts {
		opt(&o)
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: o.timeout}
	parser.UserAgent = userAgent

	return &Fetcher{parser: parser, maxItems: o.maxItems}
}

// Fetch downloads one feed and returns at most maxItems articles in feed order.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]news.Article, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, &FetchError{Source: src.Name, URL: src.URL, Err: err}
	}

	items := feed.Items
	if f.maxItems > 0 && len(items) > f.maxItems {
		items = items[:f.maxItems]
	}

	tag := strings.ToUpper(src.Name)
	articles := make([]news.Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		articles = append(articles, news.Article{
			Title:     item.Title,
			Link:      item.Link,
			Summary:   item.Description,
			Published: item.Published,
			Source:    tag,
		})
	}
	return articles, nil
}

// FetchAll fetches sources one at a time in the given order. A failing source
// contributes no articles and is reported in Failures; it never stops the run.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) FetchResult {
	var res FetchResult

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, &FetchError{Source: src.Name, URL: src.URL, Err: err})
			continue
		}

		logger.Info("Fetching feed", "source", src.Name)
		articles, err := f.Fetch(ctx, src)
		if err != nil {
			fe, ok := err.(*FetchError)
			if !ok {
				fe = &FetchError{Source: src.Name, URL: src.URL, Err: err}
			}
			logger.Warn("Error fetching feed", "source", src.Name, "error", fe.Err)
			res.Failures = append(res.Failures, fe)
			continue
		}

		logger.Debug("Loaded feed", "source", src.Name, "items", len(articles))
		res.Articles = append(res.Articles, articles...)
	}

	logger.Info("Processed feeds", "ok", len(sources)-len(res.Failures), "total", len(sources))
	return res
}
