package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultLockStale = 10 * time.Minute

// FileHistory keeps sent links in a JSON array of strings, oldest first.
type FileHistory struct {
	filePath   string
	maxEntries int
	lockStale  time.Duration
}

// NewFileHistory creates a file-backed history. maxEntries <= 0 means DefaultMaxEntries.
func NewFileHistory(filePath string, maxEntries int) *FileHistory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileHistory{
		filePath:   filePath,
		maxEntries: maxEntries,
		lockStale:  defaultLockStale,
	}
}

// Path returns the history file location.
func (fh *FileHistory) Path() string { return fh.filePath }

// Load reads the history file. A missing or empty file is an empty history;
// a file that is not a JSON array of strings yields ErrCorruptHistory.
func (fh *FileHistory) Load(_ context.Context) (*SentLog, error) {
	data, err := os.ReadFile(fh.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return NewSentLog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return NewSentLog(), nil
	}

	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptHistory, fh.filePath, err)
	}
	return NewSentLog(links...), nil
}

// Commit appends links under an exclusive lock: it re-reads the file so a
// concurrent writer is not lost, trims to the cap and atomically replaces the file.
func (fh *FileHistory) Commit(ctx context.Context, links []string) error {
	unlock, err := acquireLock(ctx, fh.filePath+".lock", fh.lockStale)
	if err != nil {
		return err
	}
	defer unlock()

	log, err := fh.Load(ctx)
	if err != nil {
		return err
	}
	log.Add(links...)
	log.Trim(fh.maxEntries)

	return fh.save(log)
}

// Close is a no-op for files.
func (fh *FileHistory) Close() error { return nil }

func (fh *FileHistory) save(log *SentLog) error {
	links := log.Links()
	if links == nil {
		links = []string{}
	}

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(fh.filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(fh.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod history file: %w", err)
	}
	if err := os.Rename(tmpName, fh.filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
