// Package services – ContextService
//
// This file implements the ContextService, which turns relationship state into
// conversational context. It renders the bracketed preamble prepended to
// outbound prompts, and post-processes raw backend replies with
// level-appropriate embellishment (greetings, enthusiasm, decorative
// closings).
//
// Embellishment is pseudo-random by contract: the probabilities below are
// verified statistically by tests, so the randomness source is injected
// rather than taken from the global generator.
package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tbourn/go-companion-core/internal/domain"
)

// Embellishment contract constants.
const (
	greetingChance   = 0.15
	greetingMaxLen   = 100
	exclaimChance    = 0.40
	exclaimMaxLen    = 150
	enthusiasmFloor  = 0.8
	decorationChance = 0.10

	promptMaxTopics  = 3
	promptMaxHistory = 6
)

// levelProfile bundles the per-tier presentation knobs: the tone instruction
// embedded in prompts, the enthusiasm score driving exclamation marks, and
// the greeting pool.
type levelProfile struct {
	Tone       string
	Enthusiasm float64
	Greetings  []string
}

var levelProfiles = map[domain.Level]levelProfile{
	domain.LevelStranger: {
		Tone:       "polite and a little reserved, you only just met",
		Enthusiasm: 0.2,
		Greetings:  []string{"Hello.", "Hi there."},
	},
	domain.LevelAcquaintance: {
		Tone:       "friendly but still getting to know them",
		Enthusiasm: 0.4,
		Greetings:  []string{"Hi!", "Hey, good to see you again."},
	},
	domain.LevelFriend: {
		Tone:       "warm and familiar, like a good friend",
		Enthusiasm: 0.6,
		Greetings:  []string{"Hey!", "Hey hey!", "There you are!"},
	},
	domain.LevelCloseFriend: {
		Tone:       "relaxed and affectionate, you know them well",
		Enthusiasm: 0.85,
		Greetings:  []string{"Heya!", "Hey you!", "Missed you!"},
	},
	domain.LevelVIP: {
		Tone:       "playful and devoted, they are your favorite person",
		Enthusiasm: 1.0,
		Greetings:  []string{"Heyyy!", "You're back!", "Best part of my day!"},
	},
}

// decorations are the decorative closing phrases reserved for the top tier.
var decorations = []string{" ✨", " ♪", " ~", " ♥"}

// ContextService renders relationship-aware prompt preambles and embellishes
// raw backend replies. Safe for concurrent use; the injected generator is
// guarded by a mutex.
type ContextService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewContextService constructs a ContextService around the given randomness
// source. A nil rng falls back to a time-seeded process-wide generator;
// tests inject a fixed-seed generator instead.
func NewContextService(rng *rand.Rand) *ContextService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ContextService{rng: rng}
}

// BuildPrompt prefixes message with a bracketed preamble describing the
// relationship: level and interaction count, up to three recent favorite
// topics, up to five personality traits, the tier's tone instruction, and
// (when provided) a short transcript of recent history. The caller's raw
// message follows a blank line as "{user}: {message}".
func (s *ContextService) BuildPrompt(rec *domain.Relationship, history []domain.ChatMessage, message string) string {
	p := profileFor(rec.Level)

	var b strings.Builder
	fmt.Fprintf(&b, "[Relationship: %s | Interactions: %d]\n", rec.Level, rec.InteractionCount)

	if topics := lastN(rec.FavoriteTopics, promptMaxTopics); len(topics) > 0 {
		fmt.Fprintf(&b, "[Favorite topics: %s]\n", strings.Join(topics, ", "))
	}
	if traits := lastN(rec.PersonalityTraits, domain.MaxPersonalityTraits); len(traits) > 0 {
		fmt.Fprintf(&b, "[Personality traits: %s]\n", strings.Join(traits, ", "))
	}
	fmt.Fprintf(&b, "[Tone: %s]\n", p.Tone)

	if len(history) > 0 {
		b.WriteString("[Recent conversation]\n")
		for _, m := range history[maxInt(0, len(history)-promptMaxHistory):] {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	fmt.Fprintf(&b, "\n%s: %s", rec.UserID, message)
	return b.String()
}

// Embellish post-processes a raw backend reply according to the relationship
// tier:
//
//   - 15% of the time, for users past their first interaction and replies
//     under 100 characters, a tier greeting is prepended.
//   - Tiers with enthusiasm above 0.8 gain a trailing "!" 40% of the time on
//     replies under 150 characters that do not already end in "!" or "?".
//   - The top tier gains a decorative closing phrase 10% of the time.
func (s *ContextService) Embellish(raw string, rec *domain.Relationship) string {
	p := profileFor(rec.Level)
	out := raw

	if s.chance(greetingChance) && rec.InteractionCount > 1 && len(out) < greetingMaxLen && len(p.Greetings) > 0 {
		out = p.Greetings[s.intn(len(p.Greetings))] + " " + out
	}

	if p.Enthusiasm > enthusiasmFloor && len(out) < exclaimMaxLen &&
		!strings.HasSuffix(out, "!") && !strings.HasSuffix(out, "?") &&
		s.chance(exclaimChance) {
		out += "!"
	}

	if rec.Level == domain.LevelVIP && s.chance(decorationChance) {
		out += decorations[s.intn(len(decorations))]
	}
	return out
}

func profileFor(level domain.Level) levelProfile {
	if p, ok := levelProfiles[level]; ok {
		return p
	}
	return levelProfiles[domain.LevelStranger]
}

func (s *ContextService) chance(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

func (s *ContextService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func lastN(list []string, n int) []string {
	if len(list) > n {
		return list[len(list)-n:]
	}
	return list
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
