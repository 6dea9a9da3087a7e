package services

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/tbourn/go-companion-core/internal/domain"
)

func testRecord(level domain.Level, count int) *domain.Relationship {
	return &domain.Relationship{
		UserID:           "alice",
		Platform:         "discord",
		Level:            level,
		InteractionCount: count,
	}
}

func TestBuildPrompt_FullPreamble(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(1)))

	rec := testRecord(domain.LevelFriend, 23)
	rec.FavoriteTopics = []string{"books", "music", "games", "coffee"}
	rec.PersonalityTraits = []string{"curious", "playful"}

	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hey!"},
	}

	got := svc.BuildPrompt(rec, history, "what should I read next?")

	if !strings.HasPrefix(got, "[Relationship: friend | Interactions: 23]\n") {
		t.Fatalf("prompt header wrong:\n%s", got)
	}
	// Only the 3 most recent topics.
	if !strings.Contains(got, "[Favorite topics: music, games, coffee]\n") {
		t.Fatalf("topics line wrong:\n%s", got)
	}
	if strings.Contains(got, "books") {
		t.Fatalf("prompt leaked a topic beyond the 3 most recent:\n%s", got)
	}
	if !strings.Contains(got, "[Personality traits: curious, playful]\n") {
		t.Fatalf("traits line wrong:\n%s", got)
	}
	if !strings.Contains(got, "[Tone: warm and familiar, like a good friend]\n") {
		t.Fatalf("tone line wrong:\n%s", got)
	}
	if !strings.Contains(got, "[Recent conversation]\nuser: hi\nassistant: hey!\n") {
		t.Fatalf("history block wrong:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n\nalice: what should I read next?") {
		t.Fatalf("user line wrong:\n%s", got)
	}
}

func TestBuildPrompt_OmitsEmptySections(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(1)))
	got := svc.BuildPrompt(testRecord(domain.LevelStranger, 1), nil, "hello")

	if strings.Contains(got, "Favorite topics") || strings.Contains(got, "Personality traits") ||
		strings.Contains(got, "Recent conversation") {
		t.Fatalf("prompt contains empty sections:\n%s", got)
	}
	if !strings.Contains(got, "[Tone: ") {
		t.Fatalf("tone instruction missing:\n%s", got)
	}
}

// The embellishment probabilities are behavioral contracts; with 10k trials
// the binomial standard deviation is well under a percentage point, so the
// +-5% bands below hold for any seed.

func TestEmbellish_ExclamationRate(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(42)))

	// close_friend: enthusiasm above the floor, no decoration branch.
	rec := testRecord(domain.LevelCloseFriend, 5)
	raw := strings.Repeat("a", 50)

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		if strings.HasSuffix(svc.Embellish(raw, rec), "!") {
			hits++
		}
	}
	rate := float64(hits) / trials
	if rate < 0.35 || rate > 0.45 {
		t.Fatalf("exclamation rate = %.3f; want 0.40 +- 0.05", rate)
	}
}

func TestEmbellish_GreetingRate(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(7)))

	// friend: enthusiasm below the floor, so only the greeting branch fires.
	rec := testRecord(domain.LevelFriend, 5)
	raw := "short reply"

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		if out := svc.Embellish(raw, rec); out != raw {
			hits++
		}
	}
	rate := float64(hits) / trials
	if rate < 0.10 || rate > 0.20 {
		t.Fatalf("greeting rate = %.3f; want 0.15 +- 0.05", rate)
	}
}

func TestEmbellish_DecorationRateForVIP(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(99)))

	rec := testRecord(domain.LevelVIP, 10)
	raw := strings.Repeat("b", 50)

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		out := svc.Embellish(raw, rec)
		for _, d := range decorations {
			if strings.HasSuffix(out, d) {
				hits++
				break
			}
		}
	}
	rate := float64(hits) / trials
	if rate < 0.05 || rate > 0.15 {
		t.Fatalf("decoration rate = %.3f; want 0.10 +- 0.05", rate)
	}
}

func TestEmbellish_LowTierNeverExclaims(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(3)))
	rec := testRecord(domain.LevelStranger, 5)

	for i := 0; i < 1000; i++ {
		if strings.HasSuffix(svc.Embellish("okay then", rec), "!") {
			t.Fatal("stranger tier gained an exclamation mark")
		}
	}
}

func TestEmbellish_FirstInteractionNeverGreets(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(3)))
	rec := testRecord(domain.LevelCloseFriend, 1)
	raw := "welcome aboard."

	for i := 0; i < 1000; i++ {
		out := svc.Embellish(raw, rec)
		if !strings.HasSuffix(out, raw) && !strings.HasSuffix(out, raw+"!") {
			t.Fatalf("unexpected embellishment for first interaction: %q", out)
		}
		if strings.HasPrefix(out, "H") || strings.HasPrefix(out, "M") {
			t.Fatalf("greeting prepended on first interaction: %q", out)
		}
	}
}

func TestEmbellish_RespectsLengthAndPunctuationGuards(t *testing.T) {
	svc := NewContextService(rand.New(rand.NewSource(11)))

	// Long replies are left alone entirely for vip (greeting needs <100,
	// exclamation needs <150; only decoration may still fire).
	long := strings.Repeat("c", 200)
	rec := testRecord(domain.LevelVIP, 5)
	for i := 0; i < 1000; i++ {
		out := svc.Embellish(long, rec)
		if strings.HasSuffix(out, "!") || !strings.HasPrefix(out, long[:100]) {
			t.Fatalf("length guards violated: %q...", out[:40])
		}
	}

	// Replies already ending in ! or ? never get another mark.
	rec = testRecord(domain.LevelCloseFriend, 5)
	for i := 0; i < 1000; i++ {
		if out := svc.Embellish("really?", rec); strings.HasSuffix(out, "?!") {
			t.Fatalf("appended to terminal punctuation: %q", out)
		}
		if out := svc.Embellish("wow!", rec); strings.HasSuffix(out, "!!") {
			t.Fatalf("appended to terminal punctuation: %q", out)
		}
	}
}
