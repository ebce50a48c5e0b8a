// File: internal/services/intent/matcher_test.go
package intent

import (
	"testing"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intents() []domain.BotIntent {
	// Descending priority, the order ListActive returns them in.
	return []domain.BotIntent{
		{ID: 1, Label: "book_seva", Keywords: []string{"book", "puja", "seva"}, Response: "You can book a seva from our catalog.", Active: true, Priority: 10},
		{ID: 2, Label: "pricing", Keywords: []string{"price", "cost", "charges"}, Response: "Prices are listed on each seva page.", Active: true, Priority: 5},
		{ID: 3, Label: "timing", Keywords: []string{"timing", "open", "hours"}, Response: "We are available 6am to 9pm.", Active: true, Priority: 1},
	}
}

func TestMatchKeywordSubset(t *testing.T) {
	res := Match(intents(), "I want to book a puja")
	require.NotNil(t, res)
	assert.Equal(t, "book_seva", res.Intent.Label)
	// "book" and "puja" hit 2 of 3 keyword tokens.
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)
}

func TestMatchIsCaseInsensitiveAndIgnoresPunctuation(t *testing.T) {
	res := Match(intents(), "What's the PRICE?!")
	require.NotNil(t, res)
	assert.Equal(t, "pricing", res.Intent.Label)
}

func TestMatchStemsInflectedForms(t *testing.T) {
	res := Match(intents(), "help me with booking")
	require.NotNil(t, res)
	assert.Equal(t, "book_seva", res.Intent.Label)
}

func TestStemReachesFixedPoint(t *testing.T) {
	// "timings" strips to "timing" and then to "tim", where the keyword
	// "timing" also lands.
	assert.Equal(t, stem("timing"), stem("timings"))

	res := Match(intents(), "what are the timings today")
	require.NotNil(t, res)
	assert.Equal(t, "timing", res.Intent.Label)
}

func TestNoMatchBelowThreshold(t *testing.T) {
	assert.Nil(t, Match(intents(), "completely unrelated question"))
}

func TestEmptyMessage(t *testing.T) {
	assert.Nil(t, Match(intents(), "   ...   "))
}

func TestInactiveIntentSkipped(t *testing.T) {
	in := intents()
	in[0].Active = false
	res := Match(in, "book a puja please")
	assert.Nil(t, res)
}

func TestTieGoesToHigherPriority(t *testing.T) {
	in := []domain.BotIntent{
		{ID: 1, Label: "first", Keywords: []string{"refund"}, Response: "a", Active: true, Priority: 10},
		{ID: 2, Label: "second", Keywords: []string{"refund"}, Response: "b", Active: true, Priority: 1},
	}
	res := Match(in, "refund please")
	require.NotNil(t, res)
	// Equal scores: the earlier (higher-priority) intent wins.
	assert.Equal(t, "first", res.Intent.Label)
}

func TestHigherScoreBeatsPriority(t *testing.T) {
	in := []domain.BotIntent{
		{ID: 1, Label: "broad", Keywords: []string{"order", "status", "track", "delivery", "courier", "parcel"}, Response: "a", Active: true, Priority: 10},
		{ID: 2, Label: "narrow", Keywords: []string{"track", "order"}, Response: "b", Active: true, Priority: 1},
	}
	res := Match(in, "track my order")
	require.NotNil(t, res)
	assert.Equal(t, "narrow", res.Intent.Label)
}

func TestDuplicateKeywordTokensCountOnce(t *testing.T) {
	in := []domain.BotIntent{
		{ID: 1, Label: "dup", Keywords: []string{"book", "book seva"}, Response: "a", Active: true, Priority: 1},
	}
	res := Match(in, "book")
	require.NotNil(t, res)
	// Tokens {book, seva}; one matched.
	assert.InDelta(t, 0.5, res.Score, 1e-9)
}
