// Package history keeps recently submitted search queries in a bbolt file
// and ranks them as suggestions while the user types.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/clipshare/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const DefaultMaxEntries = 50

var bucketQueries = []byte("queries")

// entry is the stored value, keyed by the folded query
type entry struct {
	Query  string    `json:"query"`
	UsedAt time.Time `json:"used_at"`
	Count  int       `json:"count"`
}

// Store implements domain.HistoryStore using BoltDB
type Store struct {
	db         *bolt.DB
	maxEntries int
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]entry // every entry; the file is only the backing copy
}

var _ domain.HistoryStore = (*Store)(nil)

// Open loads the history at path. An empty path keeps history in memory.
func Open(path string, maxEntries int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	s := &Store{
		maxEntries: maxEntries,
		logger:     logger,
		now:        time.Now,
		cache:      make(map[string]entry),
	}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketQueries)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var e entry
			if json.Unmarshal(v, &e) != nil {
				return nil // skip corrupt values
			}
			s.cache[string(k)] = e
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	logger.Debug("opened search history", "path", path, "entries", len(s.cache))
	return s, nil
}

// Add records a submitted query. Blank queries are ignored.
func (s *Store) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	key := strings.ToLower(query)

	s.mu.Lock()
	e := s.cache[key]
	e.Query = query
	e.UsedAt = s.now()
	e.Count++
	s.cache[key] = e
	evicted := s.evictLocked()
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		for _, k := range evicted {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return b.Put([]byte(key), data)
	})
}

// Recent returns up to limit queries, most recent first. limit <= 0 means all.
func (s *Store) Recent(limit int) []string {
	s.mu.RLock()
	entries := s.sortedLocked()
	s.mu.RUnlock()

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Query
	}
	return out
}

// Suggest ranks stored queries against the typed text. An empty input
// returns the most recent queries.
func (s *Store) Suggest(input string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.Recent(limit)
	}

	recent := s.Recent(0)
	matches := fuzzy.RankFindFold(input, recent)

	// Lower distance first; ties keep recency order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.EqualFold(m.Target, input) {
			continue
		}
		out = append(out, m.Target)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Clear removes every stored query
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string]entry)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueries); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketQueries)
		return err
	})
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// sortedLocked returns entries newest first. Caller holds mu.
func (s *Store) sortedLocked() []entry {
	entries := make([]entry, 0, len(s.cache))
	for _, e := range s.cache {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UsedAt.Equal(entries[j].UsedAt) {
			return entries[i].Query < entries[j].Query
		}
		return entries[i].UsedAt.After(entries[j].UsedAt)
	})
	return entries
}

// evictLocked drops the oldest entries over maxEntries and returns their
// keys. Caller holds mu.
func (s *Store) evictLocked() []string {
	if len(s.cache) <= s.maxEntries {
		return nil
	}
	entries := s.sortedLocked()
	var evicted []string
	for _, e := range entries[s.maxEntries:] {
		key := strings.ToLower(e.Query)
		delete(s.cache, key)
		evicted = append(evicted, key)
	}
	return evicted
}
