// Package digest renders the daily email body.
package digest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/deusflow/dailydigest/internal/news"
)

// RecentPlaceholder is shown when a feed entry has no published timestamp.
const RecentPlaceholder = "Recent"

const dateLayout = "January 02, 2006"

//go:embed templates/digest.html
var templateFS embed.FS

var digestTmpl = template.Must(template.ParseFS(templateFS, "templates/digest.html"))

// Explainer produces the "why read" line for an article.
type Explainer interface {
	Explain(a news.Article) string
}

type page struct {
	Date    string
	Count   int
	Items   []item
	Domains string
}

type item struct {
	Number    int
	Title     string
	Source    string
	Published string
	Why       string
	Link      string
}

// Renderer turns ranked articles into an HTML document.
type Renderer struct {
	explainer Explainer
	domains   []string
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the clock used for the header date and subject.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer creates a Renderer. domains are listed in the footer.
func NewRenderer(explainer Explainer, domains []string, opts ...Option) *Renderer {
	r := &Renderer{
		explainer: explainer,
		domains:   append([]string(nil), domains...),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FormatDate formats t the way the digest header shows it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Subject builds the email subject for n articles.
func (r *Renderer) Subject(n int) string {
	return fmt.Sprintf("Daily Digest — %s — %d articles", FormatDate(r.now()), n)
}

// Render produces the digest. All feed-derived text is escaped by html/template.
func (r *Renderer) Render(articles []news.Article) (string, error) {
	p := page{
		Date:    FormatDate(r.now()),
		Count:   len(articles),
		Items:   make([]item, 0, len(articles)),
		Domains: strings.Join(r.domains, ", "),
	}

	for i, a := range articles {
		published := strings.TrimSpace(a.Published)
		if published == "" {
			published = RecentPlaceholder
		}
		p.Items = append(p.Items, item{
			Number:    i + 1,
			Title:     a.Title,
			Source:    a.Source,
			Published: published,
			Why:       r.explainer.Explain(a),
			Link:      a.Link,
		})
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}
