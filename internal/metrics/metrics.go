package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for digest runs.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	FetchFailures      int64
	ArticlesExcluded   int64
	ArticlesEligible   int64
	DuplicatesFiltered int64
	ArticlesSelected   int64
	DigestsSent        int64
	SendFailures       int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

// New returns an empty, healthy Metrics.
func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) AddFetched(n int, failures int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
	m.FetchFailures += int64(failures)
}

func (m *Metrics) AddFiltered(excluded, eligible int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesExcluded += int64(excluded)
	m.ArticlesEligible += int64(eligible)
}

func (m *Metrics) AddDuplicates(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) AddSelected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSelected += int64(n)
}

func (m *Metrics) IncrementDigestsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsSent++
}

func (m *Metrics) IncrementSendFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFailures++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

// GetStats returns a snapshot suitable for logging.
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := map[string]interface{}{
		"articles_fetched":           m.ArticlesFetched,
		"fetch_failures":             m.FetchFailures,
		"articles_excluded":          m.ArticlesExcluded,
		"articles_eligible":          m.ArticlesEligible,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"articles_selected":          m.ArticlesSelected,
		"digests_sent":               m.DigestsSent,
		"send_failures":              m.SendFailures,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"is_healthy":                 m.IsHealthy,
	}
	if m.LastError != "" {
		stats["last_error"] = m.LastError
		stats["last_error_time"] = m.LastErrorTime.Format(time.RFC3339)
	}
	return stats
}

// LogArgs flattens GetStats into slog key/value pairs in a stable order.
func (m *Metrics) LogArgs() []any {
	stats := m.GetStats()
	keys := []string{
		"articles_fetched", "fetch_failures", "articles_excluded", "articles_eligible",
		"duplicates_filtered", "articles_selected", "digests_sent", "send_failures",
		"last_processing_time_ms", "is_healthy", "last_error",
	}
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		if v, ok := stats[k]; ok {
			args = append(args, k, v)
		}
	}
	return args
}
