package classify

import (
	"reflect"
	"testing"
)

func TestClassify_Sentiment(t *testing.T) {
	cases := []struct {
		in   string
		want Sentiment
	}{
		{"I love this, thank you!", Positive},
		{"This is terrible and awful", Negative},
		{"What time is it", Neutral},
		{"great stuff but the ending was awful and boring", Negative}, // 1 pos vs 2 neg
		{"love it, hate it", Neutral},                                 // tie
		{"THANKS, that was AMAZING", Positive},                        // case-insensitive
	}

	for _, tc := range cases {
		res, ok := Classify(tc.in)
		if !ok {
			t.Fatalf("Classify(%q) reported no-op; want result", tc.in)
		}
		if res.Sentiment != tc.want {
			t.Fatalf("Classify(%q) = %s; want %s", tc.in, res.Sentiment, tc.want)
		}
	}
}

func TestClassify_EmptyInputIsNoOp(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n "} {
		if _, ok := Classify(in); ok {
			t.Fatalf("Classify(%q) = ok; want no-op signal", in)
		}
	}
}

func TestClassify_Topic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"I love this, thank you!", "love"},             // first token > 3 runes, not a stop word
		{"What time is it", "time"},                     // "what" is a stop word
		{"tell me about gardening, please", "tell"},     // first qualifying token wins, relevant or not
		{"it is so so", ""},                             // nothing survives
		{"cats!!! are the best", "cats"},                // trailing punctuation stripped
		{"is the astronomy club meeting on?", "astronomy"}, // short/stop tokens skipped
	}

	for _, tc := range cases {
		res, ok := Classify(tc.in)
		if !ok {
			t.Fatalf("Classify(%q) reported no-op", tc.in)
		}
		if res.Topic != tc.want {
			t.Fatalf("Classify(%q) topic = %q; want %q", tc.in, res.Topic, tc.want)
		}
	}
}

func TestKeywords_FrequencyRanking(t *testing.T) {
	texts := []string{
		"I really love pizza",
		"pizza is great food",
		"great pizza, great evening",
	}
	// pizza x3, great x3 (pizza seen first), everything else once or filtered
	got := Keywords(texts, 5)
	want := []string{"pizza", "great"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords = %v; want %v", got, want)
	}
}

func TestKeywords_CapAndThreshold(t *testing.T) {
	texts := []string{
		"alpha alpha bravo bravo charlie charlie delta delta echo echo foxtrot foxtrot",
		"golf only once here",
	}
	got := Keywords(texts, 5)
	if len(got) != 5 {
		t.Fatalf("Keywords returned %d entries; want cap of 5", len(got))
	}
	for _, w := range got {
		if w == "golf" {
			t.Fatalf("Keywords included %q with frequency 1", w)
		}
	}

	if got := Keywords(texts, 0); got != nil {
		t.Fatalf("Keywords(max=0) = %v; want nil", got)
	}
}

func TestKeywords_FiltersStopWords(t *testing.T) {
	texts := []string{"this this this that that that", "when when where where"}
	if got := Keywords(texts, 5); len(got) != 0 {
		t.Fatalf("Keywords over stop words = %v; want empty", got)
	}
}
