package storage

import (
	"context"
	"errors"
	"strings"
)

// DefaultMaxEntries caps how many sent links are retained.
const DefaultMaxEntries = 500

// ErrCorruptHistory means a history file exists but cannot be decoded.
// It is not the same as a missing file, which is an empty history.
var ErrCorruptHistory = errors.New("history is corrupt")

// History persists the links that were already delivered.
type History interface {
	// Load returns the current history, oldest entry first.
	Load(ctx context.Context) (*SentLog, error)
	// Commit appends links and trims the history to its cap in one step.
	Commit(ctx context.Context, links []string) error
	Close() error
}

// SentLog is an insertion-ordered set of links.
type SentLog struct {
	links []string
	index map[string]struct{}
}

// NewSentLog builds a log from links, oldest first. Blanks and repeats are dropped.
func NewSentLog(links ...string) *SentLog {
	l := &SentLog{index: make(map[string]struct{}, len(links))}
	l.Add(links...)
	return l
}

// Contains reports whether link is in the log.
func (l *SentLog) Contains(link string) bool {
	if l == nil {
		return false
	}
	_, ok := l.index[link]
	return ok
}

// Add appends links that are not already present. It returns how many were added.
func (l *SentLog) Add(links ...string) int {
	if l.index == nil {
		l.index = make(map[string]struct{}, len(links))
	}
	added := 0
	for _, link := range links {
		if strings.TrimSpace(link) == "" {
			continue
		}
		if _, ok := l.index[link]; ok {
			continue
		}
		l.index[link] = struct{}{}
		l.links = append(l.links, link)
		added++
	}
	return added
}

// Trim drops the oldest entries until at most max remain. It returns the number dropped.
func (l *SentLog) Trim(max int) int {
	if max < 0 || len(l.links) <= max {
		return 0
	}
	drop := len(l.links) - max
	for _, link := range l.links[:drop] {
		delete(l.index, link)
	}
	l.links = append([]string(nil), l.links[drop:]...)
	return drop
}

// Links returns a copy of the entries, oldest first.
func (l *SentLog) Links() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.links...)
}

// Len returns the number of entries.
func (l *SentLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.links)
}
