// File: internal/services/intent/matcher.go
package intent

import (
	"strings"
	"unicode"

	"github.com/bookmyseva/backend/internal/domain"
)

// MatchThreshold is the minimum keyword-overlap ratio for a match.
const MatchThreshold = 0.30

// Result describes a successful intent match.
type Result struct {
	Intent *domain.BotIntent
	Score  float64
}

// Match scores the message against every intent and returns the best one
// at or above the threshold, or nil when nothing matches.
//
// Score for one intent = (stemmed keyword tokens present in the stemmed
// message token set) / (total stemmed keyword tokens). Intents must be
// supplied in descending priority order; a later intent replaces the
// current best only on a strictly higher score, so score ties resolve to
// the higher-priority intent deterministically.
//
// The function is pure: it touches neither storage nor the clock. Match
// bookkeeping (counters, last-matched) belongs to the caller.
func Match(intents []domain.BotIntent, text string) *Result {
	msgTokens := tokenSet(text)
	if len(msgTokens) == 0 {
		return nil
	}

	var best *Result
	for i := range intents {
		it := &intents[i]
		if !it.Active {
			continue
		}
		score := overlapScore(msgTokens, it.Keywords)
		if score < MatchThreshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &Result{Intent: it, Score: score}
		}
	}
	return best
}

// overlapScore computes the matched fraction of an intent's keyword tokens.
func overlapScore(msgTokens map[string]struct{}, keywords []string) float64 {
	total := 0
	matched := 0
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		for _, tok := range tokenize(kw) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			total++
			if _, ok := msgTokens[tok]; ok {
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// tokenize lowercases, strips punctuation and applies the light stemmer.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stemmed := stem(f); stemmed != "" {
			tokens = append(tokens, stemmed)
		}
	}
	return tokens
}

// stem strips a few common English suffixes, repeating until no suffix
// applies so "timings" and "timing" reach the same stem. Deliberately
// crude: it only needs "booking"/"booked"/"books" to meet "book", not
// linguistic rigor.
func stem(word string) string {
	for {
		stripped := word
		for _, suffix := range []string{"ing", "ed", "es", "s"} {
			if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
				stripped = strings.TrimSuffix(word, suffix)
				break
			}
		}
		if stripped == word {
			return word
		}
		word = stripped
	}
}
