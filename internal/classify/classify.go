// Package classify provides the deliberately small keyword heuristics that
// drive relationship updates: sentiment classification, topic extraction, and
// keyword frequency ranking. It is engineered like a library:
//
//   - No logging and no side effects (callers decide how/what to log)
//   - Unicode-aware lower-casing and word matching
//   - Deterministic output (ties broken by input order)
//
// The heuristics are intentionally naive bag-of-keywords checks. They are a
// behavioral contract, not a placeholder for a real NLP pipeline.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentiment is the coarse affect of one inbound message.
type Sentiment string

// Possible classification outcomes.
const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Result is the outcome of classifying one message.
type Result struct {
	// Sentiment is positive, negative, or neutral.
	Sentiment Sentiment
	// Topic is the first substantive token of the message, or "" when no
	// token survives filtering. A heuristic, not a guarantee of relevance.
	Topic string
}

// Classify maps free text to a sentiment and an optional topic keyword.
//
// Sentiment: the lower-cased text is scanned for words from fixed positive
// and negative keyword sets; whichever set matches more often wins, with
// equal counts yielding Neutral.
//
// Topic: the text is split on whitespace, trailing punctuation is stripped,
// tokens of length <= 3 and stop words are discarded, and the first surviving
// token is returned.
//
// The second return value is false when the text is empty or whitespace-only;
// callers must treat that as a no-op and skip any state updates.
func Classify(text string) (Result, bool) {
	if strings.TrimSpace(text) == "" {
		return Result{}, false
	}
	lowered := lowercase(text)

	var pos, neg int
	for _, w := range wordRE.FindAllString(lowered, -1) {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	res := Result{Sentiment: Neutral, Topic: extractTopic(lowered)}
	switch {
	case pos > neg:
		res.Sentiment = Positive
	case neg > pos:
		res.Sentiment = Negative
	}
	return res, true
}

// Keywords ranks substantive words across texts by frequency. Only words
// occurring more than once qualify; results are ordered by descending
// frequency with ties broken by first occurrence, capped at max entries.
//
// It applies the same stop-word and length filtering as topic extraction so
// that conversation summaries and per-message topics agree on what counts as
// a keyword.
func Keywords(texts []string, max int) []string {
	if max <= 0 {
		return nil
	}
	counts := make(map[string]int)
	first := make(map[string]int)
	idx := 0
	for _, t := range texts {
		for _, tok := range strings.Fields(lowercase(t)) {
			tok = strings.TrimRight(tok, trailingPunct)
			if !substantive(tok) {
				continue
			}
			if _, seen := counts[tok]; !seen {
				first[tok] = idx
			}
			counts[tok]++
			idx++
		}
	}

	out := make([]string, 0, len(counts))
	for w, n := range counts {
		if n > 1 {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if counts[out[a]] != counts[out[b]] {
			return counts[out[a]] > counts[out[b]]
		}
		return first[out[a]] < first[out[b]]
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

// trailingPunct is stripped from token tails before filtering.
const trailingPunct = `.,!?;:'"”)]}…`

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

// lowercase applies Unicode-correct lower-casing. A fresh Caser per call:
// cases.Caser carries internal state and is not safe for concurrent reuse.
func lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

func extractTopic(lowered string) string {
	for _, tok := range strings.Fields(lowered) {
		tok = strings.TrimRight(tok, trailingPunct)
		if substantive(tok) {
			return tok
		}
	}
	return ""
}

// substantive reports whether a token is long enough and not a stop word.
func substantive(tok string) bool {
	if len(tok) <= 3 {
		return false
	}
	_, stop := stopWords[tok]
	return !stop
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// positiveWords and negativeWords are the curated affect vocabularies.
// Membership is checked case-insensitively on word boundaries.
var (
	positiveWords = wordSet(
		"love", "like", "great", "good", "awesome", "amazing", "wonderful",
		"thanks", "thank", "happy", "glad", "cool", "nice", "fun",
		"excellent", "best", "enjoy", "beautiful", "perfect", "fantastic",
	)

	negativeWords = wordSet(
		"hate", "bad", "terrible", "awful", "angry", "sad", "annoying",
		"worst", "horrible", "stupid", "boring", "ugly", "wrong", "sucks",
		"disappointed", "upset", "mad", "gross", "useless", "broken",
	)
)

// stopWords are common function words excluded from topics and keywords.
var stopWords = wordSet(
	"the", "a", "an", "and", "or", "but", "if", "then", "else", "when",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did",
	"will", "would", "shall", "should", "can", "could", "may", "might", "must",
	"i", "you", "he", "she", "it", "we", "they",
	"me", "him", "her", "us", "them",
	"my", "your", "his", "its", "our", "their",
	"not", "no", "yes", "so", "too", "also",
	"with", "from", "into", "about", "just", "very", "really",
	"there", "here", "where", "how", "why", "some", "any",
)
