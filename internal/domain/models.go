// Package domain defines the persistence models for relationships and chat
// histories. These types are serialized as plain JSON and form the core data
// layer of the companion engine.
package domain

import "time"

// Bounds applied by the stores and the relationship engine.
const (
	// MaxChatHistory caps the retained message log per (platform, user) key.
	// Appending beyond the cap evicts the oldest message first.
	MaxChatHistory = 50

	// MaxFavoriteTopics caps the favorite-topic list; only the most recent
	// topics are retained.
	MaxFavoriteTopics = 10

	// MaxPersonalityTraits caps the trait list; only the most recent traits
	// are retained.
	MaxPersonalityTraits = 5
)

// Message author roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Relationship tracks the evolving familiarity between the companion and one
// user on one platform. Exactly one record exists per (platform, user) key.
//
// Fields:
//   - UserID / Platform: composite identity, immutable after creation.
//   - Level: current relationship tier; normally derived from interaction
//     history, but operators may override it directly.
//   - InteractionCount: total classified interactions, incremented exactly
//     once per non-empty message.
//   - PositiveCount / NegativeCount: sentiment tallies; a neutral interaction
//     increments neither, so PositiveCount+NegativeCount <= InteractionCount.
//   - FavoriteTopics: deduplicated, most recent MaxFavoriteTopics kept.
//   - PersonalityTraits: most recent MaxPersonalityTraits kept.
//   - SpecialNotes: append-only operator annotations, unbounded.
//   - FirstInteraction: fixed at record creation.
//   - LastInteraction: updated on every interaction.
//   - RelationshipStatus: free-form side-channel label (e.g. "blocked",
//     "muted"), independent of Level.
type Relationship struct {
	UserID             string    `json:"user_id"`
	Platform           string    `json:"platform"`
	Level              Level     `json:"level"`
	InteractionCount   int       `json:"interaction_count"`
	PositiveCount      int       `json:"positive_count"`
	NegativeCount      int       `json:"negative_count"`
	FavoriteTopics     []string  `json:"favorite_topics"`
	PersonalityTraits  []string  `json:"personality_traits"`
	SpecialNotes       []string  `json:"special_notes"`
	FirstInteraction   time.Time `json:"first_interaction"`
	LastInteraction    time.Time `json:"last_interaction"`
	RelationshipStatus string    `json:"relationship_status"`
}

// Key returns the composite storage key for this record.
func (r *Relationship) Key() string { return Key(r.Platform, r.UserID) }

// Clone returns a deep copy. Stores hand out and accept clones so that the
// engine is the only writer of live state.
func (r *Relationship) Clone() *Relationship {
	c := *r
	c.FavoriteTopics = append([]string(nil), r.FavoriteTopics...)
	c.PersonalityTraits = append([]string(nil), r.PersonalityTraits...)
	c.SpecialNotes = append([]string(nil), r.SpecialNotes...)
	return &c
}

// Key builds the "{platform}_{userId}" composite key used by both durable
// documents.
func Key(platform, userID string) string { return platform + "_" + userID }

// ChatMessage is a single utterance within a user's bounded message log.
// Messages are immutable once appended.
type ChatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Platform  string         `json:"platform"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ConversationSummary is an aggregate view over one user's retained message
// log, produced by the chat history store.
type ConversationSummary struct {
	TotalMessages     int       `json:"total_messages"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	FirstTimestamp    time.Time `json:"first_timestamp"`
	LastTimestamp     time.Time `json:"last_timestamp"`
	TopKeywords       []string  `json:"top_keywords"`
}
