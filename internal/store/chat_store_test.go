package store

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-companion-core/internal/domain"
)

func chatPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "chat_histories.json")
}

func TestAppend_EvictsOldestBeyondCap(t *testing.T) {
	s := NewChatHistoryStore(chatPath(t), domain.MaxChatHistory)

	for i := 0; i < domain.MaxChatHistory+5; i++ {
		s.Append("discord", "alice", domain.RoleUser, fmt.Sprintf("msg %02d", i), nil)
	}

	msgs := s.Get("discord", "alice", 0)
	if len(msgs) != domain.MaxChatHistory {
		t.Fatalf("retained %d messages; want %d", len(msgs), domain.MaxChatHistory)
	}
	if msgs[0].Content != "msg 05" {
		t.Fatalf("oldest retained = %q; want msg 05 (FIFO eviction)", msgs[0].Content)
	}
	if msgs[len(msgs)-1].Content != fmt.Sprintf("msg %02d", domain.MaxChatHistory+4) {
		t.Fatalf("newest retained = %q", msgs[len(msgs)-1].Content)
	}
}

func TestGet_Limit(t *testing.T) {
	s := NewChatHistoryStore(chatPath(t), 50)
	for i := 0; i < 10; i++ {
		s.Append("discord", "alice", domain.RoleUser, fmt.Sprintf("msg %d", i), nil)
	}

	got := s.Get("discord", "alice", 3)
	if len(got) != 3 || got[0].Content != "msg 7" || got[2].Content != "msg 9" {
		t.Fatalf("Get(limit=3) = %+v; want the 3 most recent in order", got)
	}
	if got := s.Get("discord", "nobody", 5); len(got) != 0 {
		t.Fatalf("Get for unknown key = %d messages; want 0", len(got))
	}
}

func TestAppend_RoundTripWithMetadata(t *testing.T) {
	path := chatPath(t)
	s := NewChatHistoryStore(path, 50)
	s.Append("discord", "alice", domain.RoleUser, "hello there", map[string]any{
		"channel": "general",
		"edited":  false,
	})
	s.Append("discord", "alice", domain.RoleAssistant, "hi!", nil)

	got := NewChatHistoryStore(path, 50).Get("discord", "alice", 0)
	if len(got) != 2 {
		t.Fatalf("reloaded %d messages; want 2", len(got))
	}
	if got[0].Role != domain.RoleUser || got[0].Content != "hello there" || got[0].Platform != "discord" {
		t.Fatalf("first message changed across reload: %+v", got[0])
	}
	if got[0].Metadata["channel"] != "general" || got[0].Metadata["edited"] != false {
		t.Fatalf("metadata changed across reload: %+v", got[0].Metadata)
	}
	if got[0].Timestamp.IsZero() || got[1].Timestamp.Before(got[0].Timestamp) {
		t.Fatalf("timestamps not chronological: %v, %v", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestReplace(t *testing.T) {
	s := NewChatHistoryStore(chatPath(t), 5)
	for i := 0; i < 4; i++ {
		s.Append("discord", "alice", domain.RoleUser, "old", nil)
	}

	now := time.Now().UTC()
	fresh := make([]domain.ChatMessage, 8)
	for i := range fresh {
		fresh[i] = domain.ChatMessage{
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf("new %d", i),
			Timestamp: now,
			Platform:  "discord",
		}
	}
	s.Replace("discord", "alice", fresh)

	got := s.Get("discord", "alice", 0)
	if len(got) != 5 || got[0].Content != "new 3" {
		t.Fatalf("Replace did not apply the cap: %d messages, first %q", len(got), got[0].Content)
	}

	s.Replace("discord", "alice", nil)
	if got := s.Get("discord", "alice", 0); len(got) != 0 {
		t.Fatalf("Replace(nil) left %d messages", len(got))
	}
}

func TestSummarize(t *testing.T) {
	s := NewChatHistoryStore(chatPath(t), 50)
	s.Append("discord", "alice", domain.RoleUser, "I really love pizza", nil)
	s.Append("discord", "alice", domain.RoleAssistant, "pizza is great food", nil)
	s.Append("discord", "alice", domain.RoleUser, "great pizza, great evening", nil)

	sum := s.Summarize("discord", "alice")
	if sum.TotalMessages != 3 || sum.UserMessages != 2 || sum.AssistantMessages != 1 {
		t.Fatalf("counts = %d/%d/%d; want 3/2/1",
			sum.TotalMessages, sum.UserMessages, sum.AssistantMessages)
	}
	if sum.FirstTimestamp.After(sum.LastTimestamp) {
		t.Fatalf("timestamps inverted: %v > %v", sum.FirstTimestamp, sum.LastTimestamp)
	}
	if want := []string{"pizza", "great"}; !reflect.DeepEqual(sum.TopKeywords, want) {
		t.Fatalf("TopKeywords = %v; want %v", sum.TopKeywords, want)
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	s := NewChatHistoryStore(chatPath(t), 50)
	sum := s.Summarize("discord", "nobody")
	if sum.TotalMessages != 0 || len(sum.TopKeywords) != 0 {
		t.Fatalf("summary of empty history = %+v", sum)
	}
	if !sum.FirstTimestamp.IsZero() || !sum.LastTimestamp.IsZero() {
		t.Fatalf("empty summary has timestamps: %+v", sum)
	}
}
