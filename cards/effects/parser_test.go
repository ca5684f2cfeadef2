// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

func parseOne(t *testing.T, text string) *cards.Ability {
	t.Helper()
	abilities := ParseAbilities(text)
	require.Len(t, abilities, 1)
	return abilities[0]
}

func TestParseTriggerDetection(t *testing.T) {
	cases := map[string]cards.TriggerType{
		"『登場時』カードを1枚引く。":        cards.TriggerOnPlay,
		"『起動メイン』カードを1枚引く。":      cards.TriggerActivateMain,
		"『アタック時』カードを1枚引く。":      cards.TriggerOnAttack,
		"『ブロック時』カードを1枚引く。":      cards.TriggerOnBlock,
		"『KO時』カードを1枚引く。":        cards.TriggerOnKO,
		"『ターン終了時』カードを1枚引く。":     cards.TriggerTurnEnd,
		"『カウンター』カードを1枚引く。":      cards.TriggerCounter,
		"『トリガー』カードを1枚引く。":       cards.TriggerTrigger,
		"『自分のターン中』カードを1枚引く。":    cards.TriggerYourTurn,
		"カードを1枚引く。":             cards.TriggerUnknown,
		"【登場時】カードを1枚引く。":        cards.TriggerOnPlay,
		"[起動メイン]カードを1枚引く。":      cards.TriggerActivateMain,
	}
	for text, expected := range cases {
		assert.Equal(t, expected, parseOne(t, text).Trigger, text)
	}
}

func TestParseCostEffectSplit(t *testing.T) {
	ability := parseOne(t, "『起動メイン』このキャラをレストにする:カードを2枚引く。")
	assert.Equal(t, cards.TriggerActivateMain, ability.Trigger)

	cost, ok := ability.Cost.(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionRest, cost.Type)
	require.NotNil(t, cost.Target)
	assert.Equal(t, cards.SelectSource, cost.Target.SelectMode)

	effect, ok := ability.Effect.(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionDraw, effect.Type)
	assert.Nil(t, effect.Target)
	assert.Equal(t, 2, effect.Value.Base)
}

func TestParseThenChain(t *testing.T) {
	ability := parseOne(t, "『登場時』カードを1枚引く。その後、自分の手札1枚を捨てる。")

	seq, ok := ability.Effect.(*cards.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Actions, 2)

	draw, ok := seq.Actions[0].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionDraw, draw.Type)

	trash, ok := seq.Actions[1].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionTrash, trash.Type)
	require.NotNil(t, trash.Target)
	assert.Equal(t, cards.ZoneHand, trash.Target.Zone)
	assert.Equal(t, cards.ScopeSelf, trash.Target.Player)
	assert.Equal(t, 1, trash.Target.Count)
}

func TestParseConditionalBranch(t *testing.T) {
	ability := parseOne(t, "『登場時』自分のライフが3枚以下の場合、カードを1枚引く。")

	branch, ok := ability.Effect.(*cards.Branch)
	require.True(t, ok)
	require.NotNil(t, branch.Condition)
	assert.Equal(t, cards.CondLifeCount, branch.Condition.Type)
	assert.Equal(t, 3, branch.Condition.Value)
	assert.Equal(t, cards.CompareLE, branch.Condition.Operator)

	inner, ok := branch.IfTrue.(*cards.Sequence)
	require.True(t, ok)
	require.Len(t, inner.Actions, 1)
	draw, ok := inner.Actions[0].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionDraw, draw.Type)
}

func TestParseTraitCondition(t *testing.T) {
	ability := parseOne(t, "『アタック時』自分のリーダーが特徴《五老星》を持つ場合、カードを1枚引く。")

	branch, ok := ability.Effect.(*cards.Branch)
	require.True(t, ok)
	require.NotNil(t, branch.Condition)
	assert.Equal(t, cards.CondHasTrait, branch.Condition.Type)
	assert.Equal(t, "五老星", branch.Condition.StrValue)
	assert.Equal(t, cards.CompareHas, branch.Condition.Operator)
}

func TestParseLookPattern(t *testing.T) {
	ability := parseOne(t,
		"『登場時』自分のデッキの上から3枚を見て、特徴《五老星》を持つカード1枚までを公開し、手札に加え、残りを好きな順番でデッキの下に置く。")

	seq, ok := ability.Effect.(*cards.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Actions, 3)

	look, ok := seq.Actions[0].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionLook, look.Type)
	assert.Equal(t, 3, look.Value.Base)
	assert.Equal(t, cards.ZoneDeck, look.SourceZone)
	assert.Equal(t, cards.ZoneTemp, look.DestZone)

	take, ok := seq.Actions[1].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionMoveToHand, take.Type)
	require.NotNil(t, take.Target)
	assert.Equal(t, cards.ZoneTemp, take.Target.Zone)
	assert.Equal(t, []string{"五老星"}, take.Target.Traits)
	assert.True(t, take.Target.IsUpTo)

	rest, ok := seq.Actions[2].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionDeckBottom, rest.Type)
	require.NotNil(t, rest.Target)
	assert.Equal(t, cards.SelectRemaining, rest.Target.SelectMode)
	assert.Equal(t, -1, rest.Target.Count)
	assert.Equal(t, cards.PositionBottom, rest.DestPosition)
}

func TestParseNumberExtraction(t *testing.T) {
	// full-width digits fold to ASCII before number extraction
	ability := parseOne(t, "『登場時』カードを２枚引く。")
	draw, ok := ability.Effect.(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionDraw, draw.Type)
	assert.Equal(t, 2, draw.Value.Base)

	// unicode minus variants fold to "-"
	ability = parseOne(t, "『ターン終了時』このキャラのパワー−2000。")
	buff, ok := ability.Effect.(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionBuff, buff.Type)
	assert.Equal(t, -2000, buff.Value.Base)
	assert.Equal(t, cards.DurationTurn, buff.Duration)
}

func TestParseKeywordGrant(t *testing.T) {
	ability := parseOne(t, "『自分のターン中』このキャラは《ブロッカー》を得る。")
	assert.Equal(t, cards.TriggerYourTurn, ability.Trigger)

	grant, ok := ability.Effect.(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionGrantKeyword, grant.Type)
	assert.Equal(t, "ブロッカー", grant.Keyword)
	// keyword grants modify the card itself, not a chosen target
	assert.Nil(t, grant.Target)
}

func TestParseReferenceTarget(t *testing.T) {
	ability := parseOne(t, "『登場時』相手のキャラ1枚を選び、レストにする。その後、そのキャラをKOする。")

	seq, ok := ability.Effect.(*cards.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Actions, 2)

	pick, ok := seq.Actions[0].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionRest, pick.Type)
	require.NotNil(t, pick.Target)
	assert.Equal(t, cards.ScopeOpponent, pick.Target.Player)
	assert.Equal(t, "last_target", pick.Target.SaveID)

	ko, ok := seq.Actions[1].(*cards.GameAction)
	require.True(t, ok)
	assert.Equal(t, cards.ActionKO, ko.Type)
	require.NotNil(t, ko.Target)
	assert.Equal(t, cards.SelectReference, ko.Target.SelectMode)
	assert.Equal(t, "last_target", ko.Target.RefID)
}

func TestParseMultipleAbilities(t *testing.T) {
	abilities := ParseAbilities("『登場時』カードを1枚引く。/『KO時』カードを1枚引く。")
	require.Len(t, abilities, 2)
	assert.Equal(t, cards.TriggerOnPlay, abilities[0].Trigger)
	assert.Equal(t, cards.TriggerOnKO, abilities[1].Trigger)

	// keyword-only segments carry no parseable clause and are dropped
	abilities = ParseAbilities("『ブロッカー』/『KO時』カードを1枚引く。")
	require.Len(t, abilities, 1)
	assert.Equal(t, cards.TriggerOnKO, abilities[0].Trigger)
}

func TestParseEmptyText(t *testing.T) {
	assert.Nil(t, ParseAbilities(""))
}

func TestManualCatalogIntegrity(t *testing.T) {
	ids := []string{
		"OP13-079", "OP13-080", "OP13-083", "OP13-086", "OP13-087",
		"OP13-089", "OP13-091", "OP13-092", "OP13-096", "OP13-097",
		"OP13-099",
	}
	for _, id := range ids {
		require.True(t, HasManualAbilities(id), id)
		for _, ability := range ManualAbilities(id) {
			assert.NotEqual(t, cards.TriggerUnknown, ability.Trigger, id)
			assert.NotNil(t, ability.Effect, id)
		}
	}

	assert.False(t, HasManualAbilities("OP01-001"))
	assert.Nil(t, ManualAbilities("OP01-001"))
}
