// Package services – RelationshipService
//
// This file implements the RelationshipService, the state machine at the heart
// of the engine. It classifies inbound messages, updates the per-user
// relationship record, recomputes the relationship level against the
// progression thresholds, notifies collaborators exactly once per level
// transition, and persists the record write-through.
//
// It also carries the operator-facing overrides (SetLevel, SetStatus, Promote,
// AddTrait, AddNote, ReplaceHistory, CleanupInactive) which bypass the
// progression algorithm and write fields directly.
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-companion-core/internal/classify"
	"github.com/tbourn/go-companion-core/internal/domain"
	"github.com/tbourn/go-companion-core/internal/metrics"
	"github.com/tbourn/go-companion-core/internal/store"
)

// Dampening bounds applied to the positive ratio when computing the level.
// Outside the [0.3, 0.8] band the interaction count is scaled before the
// threshold walk; the stored count is never modified.
const (
	lowRatioBound   = 0.3
	highRatioBound  = 0.8
	lowRatioFactor  = 0.5
	highRatioFactor = 1.2
)

// LevelChange describes one relationship level transition. EventID is a UUID
// for correlating the notification across collaborator logs.
type LevelChange struct {
	EventID  string
	Platform string
	UserID   string
	From     domain.Level
	To       domain.Level
	At       time.Time
}

// LevelNotifier receives exactly one call per level transition. Implementors
// typically mirror the new level into an externally visible user context.
type LevelNotifier interface {
	LevelChanged(change LevelChange)
}

// RelationshipService coordinates classification, record updates, level
// recomputation, and persistence. It is the exclusive writer of relationship
// records; everything else reads.
type RelationshipService struct {
	// Store is the durable relationship mapping.
	Store *store.RelationshipStore
	// History is the chat log store, used only by the ReplaceHistory and
	// CleanupInactive overrides.
	History *store.ChatHistoryStore
	// Notifier, when set, is invoked once per level transition.
	Notifier LevelNotifier

	// Now is the clock used for interaction timestamps and day counting;
	// tests may override it.
	Now func() time.Time

	log zerolog.Logger
}

// NewRelationshipService constructs a RelationshipService around the given
// stores. notifier may be nil.
func NewRelationshipService(rs *store.RelationshipStore, hs *store.ChatHistoryStore, notifier LevelNotifier) *RelationshipService {
	return &RelationshipService{
		Store:    rs,
		History:  hs,
		Notifier: notifier,
		Now:      time.Now,
		log:      log.With().Str("component", "relationship_service").Logger(),
	}
}

// RecordInteraction applies one inbound message to the user's relationship:
//
//  1. Blank text is a silent no-op (no record is created or touched).
//  2. The message is classified for sentiment and an optional topic.
//  3. Counters and timestamps are updated; a new topic is appended to the
//     favorite list, bounded to the most recent entries.
//  4. The level is recomputed and re-assigned unconditionally; a transition
//     fires the notifier exactly once.
//  5. The record is persisted.
//
// The updated record is returned, or nil for the blank no-op case.
func (s *RelationshipService) RecordInteraction(platform, userID, text string) *domain.Relationship {
	res, ok := classify.Classify(text)
	if !ok {
		return nil
	}

	now := s.Now().UTC()
	rec := s.Store.Get(platform, userID)

	rec.InteractionCount++
	rec.LastInteraction = now
	switch res.Sentiment {
	case classify.Positive:
		rec.PositiveCount++
	case classify.Negative:
		rec.NegativeCount++
	}
	if res.Topic != "" {
		rec.FavoriteTopics = appendBounded(rec.FavoriteTopics, res.Topic, domain.MaxFavoriteTopics)
	}

	old := rec.Level
	rec.Level = computeLevel(rec, now)
	if rec.Level != old {
		s.notifyLevelChange(rec, old, now)
	}

	s.Store.Put(rec)
	metrics.Interactions.WithLabelValues(platform, string(res.Sentiment)).Inc()
	metrics.TrackedRelationships.Set(float64(s.Store.Count()))
	return rec
}

// Record returns the relationship for (platform, userID), or ErrRecordNotFound
// when the user has never interacted. Read-only: no record is created.
func (s *RelationshipService) Record(platform, userID string) (*domain.Relationship, error) {
	rec, ok := s.Store.Lookup(platform, userID)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// SetLevel overrides the relationship level directly, bypassing the
// progression algorithm. An unrecognized level name yields ErrInvalidLevel
// and leaves the record untouched. Non-monotonic writes are allowed here.
func (s *RelationshipService) SetLevel(platform, userID, levelName string) error {
	level, ok := domain.ParseLevel(levelName)
	if !ok {
		return ErrInvalidLevel
	}

	rec := s.Store.Get(platform, userID)
	old := rec.Level
	rec.Level = level
	if rec.Level != old {
		s.notifyLevelChange(rec, old, s.Now().UTC())
	}
	s.Store.Put(rec)
	return nil
}

// SetStatus writes the free-form relationship status label (e.g. "blocked").
func (s *RelationshipService) SetStatus(platform, userID, status string) {
	rec := s.Store.Get(platform, userID)
	rec.RelationshipStatus = status
	s.Store.Put(rec)
}

// Promote raises the relationship one tier. The top tier is left unchanged.
// The resulting level is returned.
func (s *RelationshipService) Promote(platform, userID string) domain.Level {
	rec := s.Store.Get(platform, userID)
	old := rec.Level
	rec.Level = old.Next()
	if rec.Level != old {
		s.notifyLevelChange(rec, old, s.Now().UTC())
		s.Store.Put(rec)
	}
	return rec.Level
}

// AddTrait appends a personality trait, deduplicated and bounded to the most
// recent domain.MaxPersonalityTraits entries.
func (s *RelationshipService) AddTrait(platform, userID, trait string) {
	rec := s.Store.Get(platform, userID)
	rec.PersonalityTraits = appendBounded(rec.PersonalityTraits, trait, domain.MaxPersonalityTraits)
	s.Store.Put(rec)
}

// AddNote appends a free-form operator annotation. Notes are unbounded.
func (s *RelationshipService) AddNote(platform, userID, note string) {
	rec := s.Store.Get(platform, userID)
	rec.SpecialNotes = append(rec.SpecialNotes, note)
	s.Store.Put(rec)
}

// ReplaceHistory overwrites the user's chat log wholesale. Operator
// correction only; the conversational write path is ChatHistoryStore.Append.
func (s *RelationshipService) ReplaceHistory(platform, userID string, msgs []domain.ChatMessage) {
	s.History.Replace(platform, userID, msgs)
}

// CleanupInactive removes relationships (and their chat logs) whose last
// interaction is older than maxAge, returning the number removed.
func (s *RelationshipService) CleanupInactive(maxAge time.Duration) int {
	cutoff := s.Now().UTC().Add(-maxAge)
	removed := 0
	for _, rec := range s.Store.All() {
		if rec.LastInteraction.Before(cutoff) {
			s.Store.Remove(rec.Platform, rec.UserID)
			s.History.Remove(rec.Platform, rec.UserID)
			removed++
			s.log.Info().Str("key", rec.Key()).
				Time("last_interaction", rec.LastInteraction).
				Msg("removed inactive relationship")
		}
	}
	metrics.TrackedRelationships.Set(float64(s.Store.Count()))
	return removed
}

func (s *RelationshipService) notifyLevelChange(rec *domain.Relationship, old domain.Level, at time.Time) {
	change := LevelChange{
		EventID:  uuid.NewString(),
		Platform: rec.Platform,
		UserID:   rec.UserID,
		From:     old,
		To:       rec.Level,
		At:       at,
	}
	s.log.Info().
		Str("event_id", change.EventID).
		Str("key", rec.Key()).
		Str("from", string(old)).
		Str("to", string(rec.Level)).
		Msg("relationship level changed")
	metrics.LevelTransitions.WithLabelValues(string(old), string(rec.Level)).Inc()
	if s.Notifier != nil {
		s.Notifier.LevelChanged(change)
	}
}

// computeLevel walks the threshold table in ascending order and returns the
// highest tier whose message and day requirements are both met.
//
// The interaction count is dampened for the lookup only: a positive ratio
// below 0.3 halves it, a ratio above 0.8 scales it by 1.2, both integer
// truncated. An empty history counts as ratio 1.0.
//
// The caller re-assigns the result unconditionally, so a dry spell or a
// negative streak can demote a previously attained level.
func computeLevel(rec *domain.Relationship, now time.Time) domain.Level {
	daysKnown := int(now.Sub(rec.FirstInteraction).Hours() / 24)

	ratio := 1.0
	if rec.InteractionCount > 0 {
		ratio = float64(rec.PositiveCount) / float64(rec.InteractionCount)
	}
	adjusted := rec.InteractionCount
	switch {
	case ratio < lowRatioBound:
		adjusted = int(float64(rec.InteractionCount) * lowRatioFactor)
	case ratio > highRatioBound:
		adjusted = int(float64(rec.InteractionCount) * highRatioFactor)
	}

	level := domain.LevelStranger
	for _, l := range domain.Levels {
		t := domain.LevelThresholds[l]
		if adjusted >= t.Messages && daysKnown >= t.Days {
			level = l
		}
	}
	return level
}

// appendBounded appends v unless already present, then keeps only the most
// recent max entries.
func appendBounded(list []string, v string, max int) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	list = append(list, v)
	if len(list) > max {
		list = list[len(list)-max:]
	}
	return list
}
