// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package carddb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
)

func newTestLogger() log.Logger {
	return log.NewLogger(zap.NewNop())
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderBuiltinDemoSet(t *testing.T) {
	loader, err := NewLoader("", newTestLogger())
	require.NoError(t, err)

	leader, err := loader.Card("OP13-079")
	require.NoError(t, err)
	assert.Equal(t, "OP13-079", leader.ID)
	assert.Equal(t, "イム", leader.Name)
	assert.Equal(t, cards.CardTypeLeader, leader.Type)
	assert.Equal(t, cards.ColorBlack, leader.Color)
	assert.Equal(t, 5, leader.Life)
	assert.Equal(t, 5000, leader.Power)
	assert.Equal(t, 0, leader.Cost)
	assert.Equal(t, []string{"天竜人"}, leader.Traits)
	assert.NotEmpty(t, leader.Abilities)

	// second lookup returns the cached master
	again, err := loader.Card("OP13-079")
	require.NoError(t, err)
	assert.Same(t, leader, again)

	blocker, err := loader.Card("OP13-087")
	require.NoError(t, err)
	assert.Contains(t, blocker.Keywords, cards.KeywordBlocker)

	filler, err := loader.Card("DEMO-001")
	require.NoError(t, err)
	assert.Equal(t, cards.CardTypeCharacter, filler.Type)
	assert.Equal(t, 2, filler.Cost)
	assert.Equal(t, 3000, filler.Power)
	assert.Equal(t, 1000, filler.Counter)
	assert.Empty(t, filler.Abilities)

	_, err = loader.Card("OP99-999")
	assert.ErrorContains(t, err, "card id not found in database")
}

func TestLoaderTolerantColumns(t *testing.T) {
	// one record with Japanese columns and placeholder values, one with
	// lowercase English columns and numeric JSON values
	path := writeTempFile(t, "cards.json", `[
		{
			"品番": "TST-001", "名前": "テスト", "種類": "キャラクター", "色": "黒",
			"コスト": "nan", "パワー": "1000+", "カウンター": "なし", "ライフ": "-",
			"特徴": "五老星/天竜人"
		},
		{
			"number": "TST-002", "name": "Second", "type": "イベント", "cost": 3
		}
	]`)
	loader, err := NewLoader(path, newTestLogger())
	require.NoError(t, err)

	first, err := loader.Card("TST-001")
	require.NoError(t, err)
	assert.Equal(t, "テスト", first.Name)
	assert.Equal(t, 0, first.Cost)
	assert.Equal(t, 1000, first.Power)
	assert.Equal(t, 0, first.Counter)
	assert.Equal(t, 0, first.Life)
	assert.Equal(t, []string{"五老星", "天竜人"}, first.Traits)

	second, err := loader.Card("TST-002")
	require.NoError(t, err)
	assert.Equal(t, "Second", second.Name)
	assert.Equal(t, cards.CardTypeEvent, second.Type)
	assert.Equal(t, 3, second.Cost)
}

func TestLoaderSkipsPlaceholderEntries(t *testing.T) {
	path := writeTempFile(t, "cards.json", `[
		{"品番": "dummy-001", "名前": "placeholder"},
		{"品番": "N/A", "名前": "empty row"}
	]`)
	loader, err := NewLoader(path, newTestLogger())
	require.NoError(t, err)

	_, err = loader.Card("dummy-001")
	assert.ErrorContains(t, err, "card id not found")
	_, err = loader.Card("N/A")
	assert.ErrorContains(t, err, "card id not found")
}

func TestLoaderRejectsBadDatabase(t *testing.T) {
	_, err := NewLoader("/nonexistent/cards.json", newTestLogger())
	assert.ErrorContains(t, err, "reading card database")

	path := writeTempFile(t, "cards.json", `{"not": "an array"}`)
	_, err = NewLoader(path, newTestLogger())
	assert.ErrorContains(t, err, "decoding card database")
}

func TestDeckLoaderParseForms(t *testing.T) {
	loader, err := NewLoader("", newTestLogger())
	require.NoError(t, err)
	decks := NewDeckLoader(loader, newTestLogger())

	deckJSON := `{
		"leader": {"number": "OP13-079"},
		"cards": [
			{"number": "OP13-089", "count": 4},
			{"number": "DEMO-001", "count": 2}
		]
	}`

	leader, deck, err := decks.Parse([]byte(deckJSON), "p1")
	require.NoError(t, err)
	require.NotNil(t, leader)
	assert.Equal(t, "OP13-079", leader.Master.ID)
	assert.Equal(t, "p1", leader.OwnerID)
	require.Len(t, deck, 6)
	assert.Equal(t, "OP13-089", deck[0].Master.ID)
	assert.Equal(t, "p1", deck[0].OwnerID)

	// some exported lists wrap the deck object in a one-element array
	leader, deck, err = decks.Parse([]byte("[\n"+deckJSON+"\n]"), "p2")
	require.NoError(t, err)
	require.NotNil(t, leader)
	assert.Equal(t, "p2", leader.OwnerID)
	assert.Len(t, deck, 6)

	_, _, err = decks.Parse([]byte(`[]`), "p1")
	assert.ErrorContains(t, err, "deck list array is empty")

	_, _, err = decks.Parse([]byte(`{"cards": [{"number": "OP99-999", "count": 1}]}`), "p1")
	assert.ErrorContains(t, err, "card id not found")

	// leaderless lists are allowed
	leader, deck, err = decks.Parse([]byte(`{"cards": [{"number": "DEMO-002", "count": 3}]}`), "p1")
	require.NoError(t, err)
	assert.Nil(t, leader)
	assert.Len(t, deck, 3)
}

func TestDeckLoaderLoadFile(t *testing.T) {
	loader, err := NewLoader("", newTestLogger())
	require.NoError(t, err)
	decks := NewDeckLoader(loader, newTestLogger())

	path := writeTempFile(t, "deck.json",
		`{"leader": {"number": "OP13-079"}, "cards": [{"number": "DEMO-001", "count": 5}]}`)
	leader, deck, err := decks.LoadFile(path, "p1")
	require.NoError(t, err)
	require.NotNil(t, leader)
	assert.Len(t, deck, 5)

	_, _, err = decks.LoadFile(filepath.Join(t.TempDir(), "missing.json"), "p1")
	assert.ErrorContains(t, err, "reading deck file")
}

func TestDemoDecks(t *testing.T) {
	loader, err := NewLoader("", newTestLogger())
	require.NoError(t, err)
	decks := NewDeckLoader(loader, newTestLogger())

	leader, deck, err := decks.Demo(DefaultDemoDeck, "p1")
	require.NoError(t, err)
	require.NotNil(t, leader)
	assert.Equal(t, "OP13-079", leader.Master.ID)
	assert.Len(t, deck, 50)

	_, _, err = decks.Demo("pirates", "p1")
	assert.EqualError(t, err, "unknown demo deck: pirates")

	assert.Contains(t, DemoDeckNames(), DefaultDemoDeck)
}
