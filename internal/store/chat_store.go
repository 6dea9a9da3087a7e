package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-companion-core/internal/classify"
	"github.com/tbourn/go-companion-core/internal/domain"
)

// maxSummaryKeywords caps the keyword list in a ConversationSummary.
const maxSummaryKeywords = 5

// ChatHistoryStore is the durable mapping of (platform, userId) to a bounded,
// chronologically ordered message log. Appends beyond the cap evict the
// oldest message first. Callers only append, read, or (for operator
// corrections) replace a log wholesale.
type ChatHistoryStore struct {
	mu        sync.Mutex
	path      string
	limit     int
	histories map[string][]domain.ChatMessage

	// Now is the clock used for message timestamps; tests may override it.
	Now func() time.Time

	log zerolog.Logger
}

// NewChatHistoryStore opens (or initializes) the chat history snapshot at
// path. limit caps retained messages per key; values < 1 fall back to
// domain.MaxChatHistory. Load failures are downgraded to warnings and the
// store starts empty.
func NewChatHistoryStore(path string, limit int) *ChatHistoryStore {
	if limit < 1 {
		limit = domain.MaxChatHistory
	}
	s := &ChatHistoryStore{
		path:      path,
		limit:     limit,
		histories: make(map[string][]domain.ChatMessage),
		Now:       time.Now,
		log:       log.With().Str("component", "chat_history_store").Logger(),
	}

	if err := readSnapshot(path, &s.histories); err != nil {
		if !isMissing(err) {
			s.log.Warn().Err(err).Str("path", path).
				Msg("unreadable chat history snapshot, starting empty")
		}
		s.histories = make(map[string][]domain.ChatMessage)
	}
	return s
}

// Append records one message for (platform, userID), enforcing the retention
// cap and persisting write-through. metadata may be nil.
func (s *ChatHistoryStore) Append(platform, userID, role, content string, metadata map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(platform, userID)
	msgs := append(s.histories[key], domain.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: s.Now().UTC(),
		Platform:  platform,
		Metadata:  metadata,
	})
	if len(msgs) > s.limit {
		msgs = msgs[len(msgs)-s.limit:]
	}
	s.histories[key] = msgs
	s.save()
}

// Get returns the retained log for (platform, userID) in chronological
// order. A positive limit returns only the most recent limit entries.
func (s *ChatHistoryStore) Get(platform, userID string, limit int) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.histories[domain.Key(platform, userID)]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.ChatMessage(nil), msgs...)
}

// Replace overwrites the log for (platform, userID). An operator-facing
// correction: the normal write path is Append. The retention cap still
// applies.
func (s *ChatHistoryStore) Replace(platform, userID string, msgs []domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(msgs) > s.limit {
		msgs = msgs[len(msgs)-s.limit:]
	}
	key := domain.Key(platform, userID)
	if len(msgs) == 0 {
		delete(s.histories, key)
	} else {
		s.histories[key] = append([]domain.ChatMessage(nil), msgs...)
	}
	s.save()
}

// Remove deletes the log for (platform, userID) and reports whether one
// existed.
func (s *ChatHistoryStore) Remove(platform, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key(platform, userID)
	if _, ok := s.histories[key]; !ok {
		return false
	}
	delete(s.histories, key)
	s.save()
	return true
}

// Summarize aggregates the retained window for (platform, userID): message
// counts per role, first/last timestamps, and up to five keywords occurring
// more than once, ranked by descending frequency with ties broken by first
// occurrence.
func (s *ChatHistoryStore) Summarize(platform, userID string) domain.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.histories[domain.Key(platform, userID)]
	sum := domain.ConversationSummary{TotalMessages: len(msgs)}
	if len(msgs) == 0 {
		return sum
	}

	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleUser:
			sum.UserMessages++
		case domain.RoleAssistant:
			sum.AssistantMessages++
		}
		texts = append(texts, m.Content)
	}
	sum.FirstTimestamp = msgs[0].Timestamp
	sum.LastTimestamp = msgs[len(msgs)-1].Timestamp
	sum.TopKeywords = classify.Keywords(texts, maxSummaryKeywords)
	return sum
}

// Flush forces a snapshot write, returning any write error for shutdown
// handling.
func (s *ChatHistoryStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSnapshot(s.path, s.histories)
}

func (s *ChatHistoryStore) save() {
	if err := writeSnapshot(s.path, s.histories); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).
			Msg("chat history snapshot write failed, keeping in-memory state")
	}
}
