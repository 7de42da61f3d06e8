package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Entry is the on-disk envelope for one cached analysis record.
type Entry struct {
	Fingerprint   string          `json:"fingerprint"`
	Model         string          `json:"model"`
	PromptVersion string          `json:"prompt_version"`
	CreatedAt     time.Time       `json:"created_at"`
	Record        json.RawMessage `json:"record"`
}

// Store persists one JSON file per fingerprint under a cache directory.
// Writes go through a temp file and a rename, so concurrent runs over the
// same transcript end with one intact entry rather than a torn file.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the cache directory if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the directory entries are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// Lookup loads the record stored for fingerprint into out. It returns false
// on a missing, unreadable, or malformed entry; a bad entry is a miss, never
// an error, so callers fall back to a fresh AI call.
func (s *Store) Lookup(fingerprint string, out interface{}) bool {
	data, err := os.ReadFile(s.entryPath(fingerprint))
	if err != nil {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.warn("discarding malformed cache entry", fingerprint, err)
		return false
	}
	if len(entry.Record) == 0 {
		s.warn("discarding cache entry without record", fingerprint, nil)
		return false
	}
	if err := json.Unmarshal(entry.Record, out); err != nil {
		s.warn("discarding undecodable cache record", fingerprint, err)
		return false
	}
	return true
}

// Store persists record under fingerprint, overwriting any existing entry.
func (s *Store) Store(fingerprint, model, promptVersion string, record interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding cache record: %w", err)
	}

	entry := Entry{
		Fingerprint:   fingerprint,
		Model:         model,
		PromptVersion: promptVersion,
		CreatedAt:     time.Now().UTC(),
		Record:        raw,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.entryPath(fingerprint)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("cache entry stored", zap.String("fingerprint", shortFingerprint(fingerprint)))
	}
	return nil
}

// Clear removes all cache entries and reports how many were deleted.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return removed, fmt.Errorf("removing cache entry %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Stats describes the cache contents.
type Stats struct {
	TotalEntries int    `json:"total_entries"`
	TotalSize    int64  `json:"total_size_bytes"`
	Dir          string `json:"dir"`
}

// Stats reports entry count and total size on disk.
func (s *Store) Stats() (*Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	stats := &Stats{Dir: s.dir}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.TotalEntries++
		stats.TotalSize += info.Size()
	}
	return stats, nil
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

func (s *Store) warn(msg, fingerprint string, err error) {
	if s.logger == nil {
		return
	}
	fields := []zap.Field{zap.String("fingerprint", shortFingerprint(fingerprint))}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn(msg, fields...)
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 8 {
		return fingerprint[:8]
	}
	return fingerprint
}
