// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

func TestParseTargetSource(t *testing.T) {
	tq := ParseTarget("このキャラ", cards.ScopeSelf)
	assert.Equal(t, cards.SelectSource, tq.SelectMode)

	tq = ParseTarget("自身", cards.ScopeSelf)
	assert.Equal(t, cards.SelectSource, tq.SelectMode)
}

func TestParseTargetRemaining(t *testing.T) {
	tq := ParseTarget("残りを好きな順番で", cards.ScopeSelf)
	assert.Equal(t, cards.SelectRemaining, tq.SelectMode)
	assert.Equal(t, cards.ZoneTemp, tq.Zone)
	assert.Equal(t, -1, tq.Count)
}

func TestParseTargetOpponentCharacter(t *testing.T) {
	tq := ParseTarget("相手のコスト5以下のキャラ1枚", cards.ScopeOpponent)
	assert.Equal(t, cards.ScopeOpponent, tq.Player)
	assert.Equal(t, cards.ZoneField, tq.Zone)
	assert.Equal(t, []cards.CardType{cards.CardTypeCharacter}, tq.CardTypes)
	require.NotNil(t, tq.CostMax)
	assert.Equal(t, 5, *tq.CostMax)
	assert.Nil(t, tq.CostMin)
	assert.Equal(t, 1, tq.Count)
}

func TestParseTargetZones(t *testing.T) {
	assert.Equal(t, cards.ZoneHand, ParseTarget("自分の手札1枚", cards.ScopeSelf).Zone)
	assert.Equal(t, cards.ZoneTrash, ParseTarget("自分のトラッシュのカード1枚", cards.ScopeSelf).Zone)
	assert.Equal(t, cards.ZoneLife, ParseTarget("お互いのライフ", cards.ScopeSelf).Zone)
	assert.Equal(t, cards.ZoneDeck, ParseTarget("自分のデッキ", cards.ScopeSelf).Zone)
	assert.Equal(t, cards.ZoneCostArea, ParseTarget("自分のドン5枚", cards.ScopeSelf).Zone)
}

func TestParseTargetScopes(t *testing.T) {
	assert.Equal(t, cards.ScopeAll, ParseTarget("お互いのキャラすべて", cards.ScopeSelf).Player)
	assert.Equal(t, cards.ScopeOwner, ParseTarget("持ち主の手札", cards.ScopeSelf).Player)
	assert.Equal(t, cards.ScopeOpponent, ParseTarget("相手のキャラ1枚", cards.ScopeSelf).Player)
	// explicit possessives stay literal even when the verb defaults to the
	// opponent's board
	assert.Equal(t, cards.ScopeOpponent, ParseTarget("相手のキャラ1枚", cards.ScopeOpponent).Player)
	assert.Equal(t, cards.ScopeSelf, ParseTarget("自分のキャラ1枚", cards.ScopeOpponent).Player)
}

func TestParseTargetFilters(t *testing.T) {
	tq := ParseTarget("特徴《五老星》を持つ黒のキャラ1枚", cards.ScopeSelf)
	assert.Equal(t, []string{"五老星"}, tq.Traits)
	assert.Equal(t, []string{"黒"}, tq.Colors)

	tq = ParseTarget("パワー4000以上のキャラ", cards.ScopeSelf)
	require.NotNil(t, tq.PowerMin)
	assert.Equal(t, 4000, *tq.PowerMin)

	tq = ParseTarget("レストのキャラ2枚", cards.ScopeSelf)
	require.NotNil(t, tq.IsRest)
	assert.True(t, *tq.IsRest)
	assert.Equal(t, 2, tq.Count)

	tq = ParseTarget("アクティブのキャラ", cards.ScopeSelf)
	require.NotNil(t, tq.IsRest)
	assert.False(t, *tq.IsRest)
}

func TestParseTargetNames(t *testing.T) {
	tq := ParseTarget("「イム」1枚", cards.ScopeSelf)
	assert.Equal(t, []string{"イム"}, tq.Names)

	tq = ParseTarget("「イム」以外のキャラ1枚", cards.ScopeSelf)
	assert.Empty(t, tq.Names)
}

func TestParseTargetAll(t *testing.T) {
	tq := ParseTarget("相手のキャラすべて", cards.ScopeSelf)
	assert.Equal(t, cards.SelectAll, tq.SelectMode)
	assert.Equal(t, -1, tq.Count)
}
