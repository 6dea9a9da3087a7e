package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-companion-core/internal/domain"
)

// DefaultTrustedPlatforms are the platform identifiers whose brand-new users
// seed at close_friend instead of stranger. Matching is case-insensitive.
var DefaultTrustedPlatforms = []string{"webui", "cli", "local"}

// RelationshipStore is the durable mapping of (platform, userId) to
// relationship records. It owns load/save and lookup-with-default-creation;
// all read-modify-write sequences are serialized by an internal mutex.
//
// Records handed out by Get/All are clones: the relationship engine mutates
// its copy and commits it back with Put.
type RelationshipStore struct {
	mu      sync.Mutex
	path    string
	trusted map[string]struct{}
	records map[string]*domain.Relationship

	// Now is the clock used for creation timestamps; tests may override it.
	Now func() time.Time

	log zerolog.Logger
}

// NewRelationshipStore opens (or initializes) the relationship snapshot at
// path. A corrupt or unreadable snapshot is logged as a warning and the store
// starts empty; this constructor never fails.
//
// trustedPlatforms overrides the default close_friend seeding allow-list; nil
// keeps DefaultTrustedPlatforms.
func NewRelationshipStore(path string, trustedPlatforms []string) *RelationshipStore {
	if trustedPlatforms == nil {
		trustedPlatforms = DefaultTrustedPlatforms
	}
	trusted := make(map[string]struct{}, len(trustedPlatforms))
	for _, p := range trustedPlatforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			trusted[p] = struct{}{}
		}
	}

	s := &RelationshipStore{
		path:    path,
		trusted: trusted,
		records: make(map[string]*domain.Relationship),
		Now:     time.Now,
		log:     log.With().Str("component", "relationship_store").Logger(),
	}

	if err := readSnapshot(path, &s.records); err != nil {
		if !isMissing(err) {
			s.log.Warn().Err(err).Str("path", path).
				Msg("unreadable relationship snapshot, starting empty")
		}
		s.records = make(map[string]*domain.Relationship)
	}
	return s
}

// Get returns the record for (platform, userID), creating and immediately
// persisting a default record when the key has never been seen. New records
// on trusted platforms start at close_friend; everything else at stranger.
func (s *RelationshipStore) Get(platform, userID string) *domain.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(platform, userID)
	if rec, ok := s.records[key]; ok {
		return rec.Clone()
	}

	now := s.Now().UTC()
	rec := &domain.Relationship{
		UserID:           userID,
		Platform:         platform,
		Level:            s.defaultLevel(platform),
		FirstInteraction: now,
		LastInteraction:  now,
	}
	s.records[key] = rec
	s.save()
	s.log.Debug().Str("key", key).Str("level", string(rec.Level)).
		Msg("created relationship record")
	return rec.Clone()
}

// Lookup returns the record for (platform, userID) without creating one.
func (s *RelationshipStore) Lookup(platform, userID string) (*domain.Relationship, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[domain.Key(platform, userID)]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Put commits a record and persists the full snapshot.
func (s *RelationshipStore) Put(rec *domain.Relationship) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Key()] = rec.Clone()
	s.save()
}

// All returns every record, ordered by storage key for deterministic output.
func (s *RelationshipStore) All() []domain.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.Relationship, 0, len(keys))
	for _, k := range keys {
		out = append(out, *s.records[k].Clone())
	}
	return out
}

// Remove deletes the record for (platform, userID) and reports whether it
// existed.
func (s *RelationshipStore) Remove(platform, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(platform, userID)
	if _, ok := s.records[key]; !ok {
		return false
	}
	delete(s.records, key)
	s.save()
	return true
}

// Count returns the number of tracked relationships.
func (s *RelationshipStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Flush forces a snapshot write, returning any write error for shutdown
// handling. Mutating operations persist on their own; Flush exists for the
// store lifecycle (init/load, shutdown/flush).
func (s *RelationshipStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSnapshot(s.path, s.records)
}

// save persists the snapshot, downgrading failures to warnings. In-memory
// state remains the source of truth until the next successful write.
func (s *RelationshipStore) save() {
	if err := writeSnapshot(s.path, s.records); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).
			Msg("relationship snapshot write failed, keeping in-memory state")
	}
}

func (s *RelationshipStore) defaultLevel(platform string) domain.Level {
	if _, ok := s.trusted[strings.ToLower(platform)]; ok {
		return domain.LevelCloseFriend
	}
	return domain.LevelStranger
}
