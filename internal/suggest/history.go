// Package suggest implements query autocomplete over a persisted,
// frequency-weighted history of past searches and their embeddings.
package suggest

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

// Entry is one remembered query. Query keeps the user's original casing
// for display; dedup is case-insensitive. Embedding is nil when the
// provider failed at record time; such entries still prefix-match and
// score 0 in the semantic phase.
type Entry struct {
	Query     string    `json:"query"`
	Embedding []float32 `json:"embedding,omitempty"`
	Count     int       `json:"count"`
	Created   time.Time `json:"created"`
	LastUsed  time.Time `json:"lastUsed"`
}

type historyFile struct {
	Searches []*Entry `json:"searches"`
}

// History is the persisted search history. Every mutation writes the full
// file back synchronously before returning; mutation frequency is bounded
// by human typing speed, so write-through is cheap enough. A file lock
// guards against a second folio process writing concurrently.
type History struct {
	path string
	lock *flock.Flock

	mu      sync.RWMutex
	entries []*Entry
	index   map[string]*Entry

	now func() time.Time
}

// LoadHistory reads the history file. A missing or corrupt file yields an
// empty history with a logged condition, never a startup failure.
func LoadHistory(path string) *History {
	h := &History{
		path:  path,
		lock:  flock.New(path + ".lock"),
		index: make(map[string]*Entry),
		now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("search history unreadable, starting empty",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return h
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Error("search history corrupt, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return h
	}

	for _, e := range f.Searches {
		key := normalize(e.Query)
		if key == "" {
			continue
		}
		if existing, ok := h.index[key]; ok {
			// Defensive collapse of duplicates from older files.
			existing.Count += e.Count
			continue
		}
		h.entries = append(h.entries, e)
		h.index[key] = e
	}

	slog.Info("search history loaded",
		slog.String("path", path),
		slog.Int("entries", len(h.entries)))
	return h
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Len returns the number of distinct remembered queries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Snapshot returns a copy of the entry list for read-only iteration.
func (h *History) Snapshot() []*Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Lookup returns the entry for a query, matching case-insensitively.
func (h *History) Lookup(query string) (*Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.index[normalize(query)]
	return e, ok
}

// Record increments an existing entry or appends a new one, then persists
// the full history. The embedding is only used for new entries; repeats
// keep their stored embedding, which is assumed stable for a given query.
func (h *History) Record(query string, embedding []float32) error {
	key := normalize(query)
	if key == "" {
		return nil
	}

	h.mu.Lock()
	now := h.now()
	if e, ok := h.index[key]; ok {
		e.Count++
		e.LastUsed = now
	} else {
		e := &Entry{
			Query:     query,
			Embedding: embedding,
			Count:     1,
			Created:   now,
			LastUsed:  now,
		}
		h.entries = append(h.entries, e)
		h.index[key] = e
	}
	data, err := json.MarshalIndent(historyFile{Searches: h.entries}, "", "  ")
	h.mu.Unlock()

	if err != nil {
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}
	return h.persist(data)
}

// persist writes the serialized history atomically under the file lock.
func (h *History) persist(data []byte) error {
	if err := h.lock.Lock(); err != nil {
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}
	defer func() { _ = h.lock.Unlock() }()

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}

	if err := os.Rename(tmpName, h.path); err != nil {
		_ = os.Remove(tmpName)
		return folioerrors.Wrap(folioerrors.ErrCodeHistoryIO, err)
	}
	return nil
}
