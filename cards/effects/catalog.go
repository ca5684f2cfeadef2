// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package effects

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/ptr"
)

// ManualAbilities returns the hand-written ability definitions for a card,
// or nil when the card has none. Hand-written entries take precedence over
// parsed text: they cover cards whose wording the parser cannot express,
// such as multi-option costs and cross-zone plays.
func ManualAbilities(cardID string) []*cards.Ability {
	return manualEffects[cardID]
}

// HasManualAbilities reports whether a manual definition exists for cardID.
func HasManualAbilities(cardID string) bool {
	_, ok := manualEffects[cardID]
	return ok
}

var manualEffects = map[string][]*cards.Ability{

	// リーダー「イム」: 起動メイン、ターン1回。場の《天竜人》か手札1枚を
	// トラッシュに置くことで1枚引く。
	"OP13-079": {
		{
			Trigger:   cards.TriggerActivateMain,
			Condition: &cards.Condition{Type: cards.CondTurnLimit, Value: 1},
			Cost: &cards.Choice{
				Message: "コストを選択してください",
				Options: []cards.EffectNode{
					&cards.GameAction{
						Type: cards.ActionTrash,
						Target: &cards.TargetQuery{
							Zone:       cards.ZoneField,
							Player:     cards.ScopeSelf,
							Traits:     []string{"天竜人"},
							Count:      1,
							SelectMode: cards.SelectChoose,
						},
						RawText: "自分の特徴《天竜人》を持つキャラをトラッシュに置く",
					},
					&cards.GameAction{
						Type: cards.ActionTrash,
						Target: &cards.TargetQuery{
							Zone:       cards.ZoneHand,
							Player:     cards.ScopeSelf,
							Count:      1,
							SelectMode: cards.SelectChoose,
						},
						RawText: "手札1枚をトラッシュに置く",
					},
				},
				OptionLabels: []string{
					"自分の特徴《天竜人》を持つキャラをトラッシュに置く",
					"手札1枚をトラッシュに置く",
				},
				Player: cards.ScopeSelf,
			},
			Effect: &cards.GameAction{
				Type:    cards.ActionDraw,
				Value:   cards.FixedValue(1),
				RawText: "カード1枚を引く",
			},
		},
	},

	// シャルリア宮: 登場時、デッキの上から3枚を見て《天竜人》1枚までを
	// 手札に加え、残りをトラッシュ。その後、手札1枚を捨てる。
	"OP13-086": {
		{
			Trigger: cards.TriggerOnPlay,
			Effect: &cards.Sequence{Actions: []cards.EffectNode{
				&cards.GameAction{
					Type:       cards.ActionLook,
					Value:      cards.FixedValue(3),
					SourceZone: cards.ZoneDeck,
					DestZone:   cards.ZoneTemp,
					RawText:    "自分のデッキの上から3枚を見る",
				},
				&cards.GameAction{
					Type: cards.ActionMoveToHand,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Traits:     []string{"天竜人"},
						ExcludeIDs: []string{"OP13-086"},
						Count:      1,
						IsUpTo:     true,
						SelectMode: cards.SelectChoose,
					},
					SourceZone: cards.ZoneTemp,
					DestZone:   cards.ZoneHand,
					RawText:    "「シャルリア宮」以外の特徴《天竜人》を持つカード1枚までを公開し、手札に加える",
				},
				&cards.GameAction{
					Type: cards.ActionTrash,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Count:      -1,
						SelectMode: cards.SelectRemaining,
					},
					SourceZone: cards.ZoneTemp,
					DestZone:   cards.ZoneTrash,
					RawText:    "残りをトラッシュに置く",
				},
				&cards.GameAction{
					Type: cards.ActionDiscard,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneHand,
						Player:     cards.ScopeSelf,
						Count:      1,
						SelectMode: cards.SelectChoose,
					},
					RawText: "自分の手札1枚を捨てる",
				},
			}},
		},
	},

	// チャルロス聖: 登場時、自分のデッキの上から1枚をトラッシュに置く。
	// ブロッカーはキーワードとして別途処理される。
	"OP13-087": {
		{
			Trigger: cards.TriggerOnPlay,
			Effect: &cards.GameAction{
				Type: cards.ActionTrash,
				Target: &cards.TargetQuery{
					Zone:   cards.ZoneDeck,
					Player: cards.ScopeSelf,
					Count:  1,
				},
				RawText: "自分のデッキの上から1枚をトラッシュに置く",
			},
		},
	},

	// ミョスガルド聖: 登場時、ライフが3枚以下なら、トラッシュのコスト1の
	// 《聖地マリージョア》ステージ1枚までを登場させる。
	"OP13-092": {
		{
			Trigger:   cards.TriggerOnPlay,
			Condition: &cards.Condition{Type: cards.CondLifeCount, Operator: cards.CompareLE, Value: 3},
			Effect: &cards.GameAction{
				Type: cards.ActionPlayCard,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneTrash,
					Player:     cards.ScopeSelf,
					CardTypes:  []cards.CardType{cards.CardTypeStage},
					Traits:     []string{"聖地マリージョア"},
					CostMin:    ptr.Any(1),
					CostMax:    ptr.Any(1),
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				SourceZone: cards.ZoneTrash,
				DestZone:   cards.ZoneField,
				RawText:    "自分のトラッシュからコスト1の特徴《聖地マリージョア》を持つステージカード1枚までを、登場させる",
			},
		},
	},

	// トップマン・ウォーキュリー聖: KO時、カード1枚を引く。
	"OP13-089": {
		{
			Trigger: cards.TriggerOnKO,
			Effect: &cards.GameAction{
				Type:    cards.ActionDraw,
				Value:   cards.FixedValue(1),
				RawText: "カード1枚を引く",
			},
		},
	},

	// ジェイガルシア・サターン聖: 登場時、デッキの上から5枚を見て
	// 《五老星》1枚までを手札に加え、残りをデッキの下へ。
	"OP13-083": {
		{
			Trigger: cards.TriggerOnPlay,
			Effect: &cards.Sequence{Actions: []cards.EffectNode{
				&cards.GameAction{
					Type:       cards.ActionLook,
					Value:      cards.FixedValue(5),
					SourceZone: cards.ZoneDeck,
					DestZone:   cards.ZoneTemp,
				},
				&cards.GameAction{
					Type: cards.ActionMoveToHand,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Traits:     []string{"五老星"},
						Count:      1,
						IsUpTo:     true,
						SelectMode: cards.SelectChoose,
					},
					SourceZone: cards.ZoneTemp,
					DestZone:   cards.ZoneHand,
					RawText:    "特徴《五老星》を持つカード1枚までを公開し、手札に加える",
				},
				&cards.GameAction{
					Type: cards.ActionDeckBottom,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Count:      -1,
						SelectMode: cards.SelectRemaining,
					},
					SourceZone:   cards.ZoneTemp,
					DestZone:     cards.ZoneDeck,
					DestPosition: cards.PositionBottom,
					RawText:      "残りを好きな順番でデッキの下に置く",
				},
			}},
		},
	},

	// イーザンバロン・V・ナス寿郎聖: アタック時、トラッシュが10枚以上
	// なら、相手のキャラ1枚までをこのターン中パワー-2000。
	"OP13-080": {
		{
			Trigger:   cards.TriggerOnAttack,
			Condition: &cards.Condition{Type: cards.CondTrashCount, Operator: cards.CompareGE, Value: 10},
			Effect: &cards.GameAction{
				Type: cards.ActionBuff,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneField,
					Player:     cards.ScopeOpponent,
					CardTypes:  []cards.CardType{cards.CardTypeCharacter},
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				Value:    cards.FixedValue(-2000),
				Duration: cards.DurationTurn,
				RawText:  "相手のキャラ1枚までを、このターン中、パワー-2000",
			},
		},
	},

	// マーカス・マーズ聖: 登場時、手札1枚を捨てることで、相手のコスト5
	// 以下のキャラ1枚までをKOする。
	"OP13-091": {
		{
			Trigger: cards.TriggerOnPlay,
			Cost: &cards.GameAction{
				Type: cards.ActionDiscard,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneHand,
					Player:     cards.ScopeSelf,
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				RawText: "自分の手札1枚を捨てることができる",
			},
			Effect: &cards.GameAction{
				Type: cards.ActionKO,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneField,
					Player:     cards.ScopeOpponent,
					CardTypes:  []cards.CardType{cards.CardTypeCharacter},
					CostMax:    ptr.Any(5),
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				RawText: "相手の元々のコスト5以下のキャラ1枚までを、KOする",
			},
		},
	},

	// "五老星"ここに!!!: メイン、デッキの上から3枚を見て《天竜人》1枚
	// までを手札に加え、残りをトラッシュに置く。
	"OP13-096": {
		{
			Trigger: cards.TriggerActivateMain,
			Effect: &cards.Sequence{Actions: []cards.EffectNode{
				&cards.GameAction{
					Type:       cards.ActionLook,
					Value:      cards.FixedValue(3),
					SourceZone: cards.ZoneDeck,
					DestZone:   cards.ZoneTemp,
				},
				&cards.GameAction{
					Type: cards.ActionMoveToHand,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Traits:     []string{"天竜人"},
						ExcludeIDs: []string{"OP13-096"},
						Count:      1,
						IsUpTo:     true,
						SelectMode: cards.SelectChoose,
					},
					SourceZone: cards.ZoneTemp,
					DestZone:   cards.ZoneHand,
				},
				&cards.GameAction{
					Type: cards.ActionTrash,
					Target: &cards.TargetQuery{
						Zone:       cards.ZoneTemp,
						Player:     cards.ScopeSelf,
						Count:      -1,
						SelectMode: cards.SelectRemaining,
					},
					SourceZone: cards.ZoneTemp,
					DestZone:   cards.ZoneTrash,
				},
			}},
		},
	},

	// 世界の均衡など…永遠には保てぬのだ: メイン、ドン!!5枚をレストに
	// することで、相手のコスト6以下のキャラ1枚までをKOする。
	"OP13-097": {
		{
			Trigger: cards.TriggerActivateMain,
			Cost: &cards.GameAction{
				Type: cards.ActionRest,
				Target: &cards.TargetQuery{
					Zone:   cards.ZoneCostArea,
					Player: cards.ScopeSelf,
					Count:  5,
				},
				RawText: "自分のドン!!5枚をレストにできる",
			},
			Effect: &cards.GameAction{
				Type: cards.ActionKO,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneField,
					Player:     cards.ScopeOpponent,
					CardTypes:  []cards.CardType{cards.CardTypeCharacter},
					CostMax:    ptr.Any(6),
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				RawText: "相手の元々のコスト6以下のキャラ1枚までを、KOする",
			},
		},
	},

	// 虚の玉座: 起動メイン、自身とドン!!3枚をレストにすることで、手札の
	// 黒の《五老星》キャラ1枚までを登場させる。
	"OP13-099": {
		{
			Trigger: cards.TriggerActivateMain,
			Cost: &cards.Sequence{Actions: []cards.EffectNode{
				&cards.GameAction{
					Type: cards.ActionRest,
					Target: &cards.TargetQuery{
						SelectMode: cards.SelectSource,
						Count:      1,
					},
					RawText: "このカードをレストにする",
				},
				&cards.GameAction{
					Type: cards.ActionRest,
					Target: &cards.TargetQuery{
						Zone:   cards.ZoneCostArea,
						Player: cards.ScopeSelf,
						Count:  3,
					},
					RawText: "ドン!!3枚をレストにする",
				},
			}},
			Effect: &cards.GameAction{
				Type: cards.ActionPlayCard,
				Target: &cards.TargetQuery{
					Zone:       cards.ZoneHand,
					Player:     cards.ScopeSelf,
					CardTypes:  []cards.CardType{cards.CardTypeCharacter},
					Traits:     []string{"五老星"},
					Colors:     []string{"黒"},
					Count:      1,
					IsUpTo:     true,
					SelectMode: cards.SelectChoose,
				},
				SourceZone: cards.ZoneHand,
				DestZone:   cards.ZoneField,
				RawText:    "手札から黒の特徴《五老星》を持つキャラカード1枚までを登場させる",
			},
		},
	},
}
