// Package preferences owns the user's selected interest categories and
// bookmarked item ids, persisting both through a kv.Store after every
// mutation.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/mindnest/internal/domain"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

// Persistence keys.
const (
	KeyBookmarks  = "SavedBookmarks"
	KeyCategories = "SelectedCategories"
)

// ErrPersist wraps a failed write to the backend. The in-memory mutation
// that triggered it is kept.
var ErrPersist = errors.New("failed to persist preferences")

// EventKind tells which part of the state an Event is about.
type EventKind string

const (
	EventBookmarks  EventKind = "bookmarks"
	EventCategories EventKind = "categories"
)

// Event is delivered to subscribers after every mutation.
type Event struct {
	Kind     EventKind
	ID       string // toggled id, bookmarks only
	Added    bool   // new bookmark state, bookmarks only
	Snapshot domain.UserPreferences
	Err      error // non-nil when the write did not reach the backend
}

// Store is safe for concurrent use. Readers share a lock; a mutation and
// its write to the backend happen under the exclusive lock, so writes of
// the same key never interleave.
type Store struct {
	backend kv.Store
	log     logger.Logger

	mu         sync.RWMutex
	categories []string
	bookmarks  map[string]struct{}

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New creates a store and loads any persisted state. Load failures are
// logged and leave the corresponding field empty.
func New(ctx context.Context, backend kv.Store, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		backend:    backend,
		log:        log,
		categories: []string{},
		bookmarks:  make(map[string]struct{}),
		subs:       make(map[int]func(Event)),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var ids []string
	if ok := s.read(ctx, KeyBookmarks, &ids); ok {
		for _, id := range ids {
			s.bookmarks[id] = struct{}{}
		}
	}

	var categories []string
	if ok := s.read(ctx, KeyCategories, &categories); ok && categories != nil {
		s.categories = categories
	}

	s.log.Info("preferences loaded",
		logger.Int("bookmarks", len(s.bookmarks)),
		logger.Strings("categories", s.categories),
	)
}

func (s *Store) read(ctx context.Context, key string, dst *[]string) bool {
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.Warn("failed to load preference, using default",
			logger.String("key", key),
			logger.Error(err),
		)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("corrupt preference value, using default",
			logger.String("key", key),
			logger.Error(err),
		)
		*dst = nil
		return false
	}
	return true
}

// IsBookmarked reports whether id is bookmarked.
func (s *Store) IsBookmarked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bookmarks[id]
	return ok
}

// SelectedCategories returns the selection in the order it was set.
func (s *Store) SelectedCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.categories...)
}

// BookmarkedIDs returns the bookmark set, sorted.
func (s *Store) BookmarkedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedBookmarksLocked()
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() domain.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// ToggleBookmark adds id when absent and removes it when present, then
// persists the set. It returns the new state. A non-nil error wraps
// ErrPersist; the toggle itself still took effect.
func (s *Store) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	_, had := s.bookmarks[id]
	if had {
		delete(s.bookmarks, id)
	} else {
		s.bookmarks[id] = struct{}{}
	}
	err := s.persistLocked(ctx, KeyBookmarks, s.sortedBookmarksLocked())
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventBookmarks, ID: id, Added: !had, Snapshot: snap, Err: err})
	return !had, err
}

// RemoveBookmarks drops every listed id that is bookmarked and persists the
// set once. It returns how many were removed.
func (s *Store) RemoveBookmarks(ctx context.Context, ids ...string) (int, error) {
	s.mu.Lock()
	removed := 0
	for _, id := range ids {
		if _, ok := s.bookmarks[id]; ok {
			delete(s.bookmarks, id)
			removed++
		}
	}
	if removed == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	err := s.persistLocked(ctx, KeyBookmarks, s.sortedBookmarksLocked())
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventBookmarks, Snapshot: snap, Err: err})
	return removed, err
}

// SetSelectedCategories replaces the selection wholesale and persists it.
// An empty list clears the filter. Repeated names keep their first
// position only.
func (s *Store) SetSelectedCategories(ctx context.Context, categories []string) error {
	next := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		next = append(next, c)
	}

	s.mu.Lock()
	s.categories = next
	err := s.persistLocked(ctx, KeyCategories, next)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(Event{Kind: EventCategories, Snapshot: snap, Err: err})
	return err
}

// Subscribe registers fn for every subsequent mutation and returns a func
// that removes it. fn runs on the mutating goroutine, outside the state lock.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) persistLocked(ctx context.Context, key string, value []string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersist, key, err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		s.log.Error("failed to persist preference",
			logger.String("key", key),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", ErrPersist, key, err)
	}
	return nil
}

func (s *Store) sortedBookmarksLocked() []string {
	ids := make([]string, 0, len(s.bookmarks))
	for id := range s.bookmarks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) snapshotLocked() domain.UserPreferences {
	return domain.NewUserPreferences(s.categories, s.sortedBookmarksLocked()...)
}
