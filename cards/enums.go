// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

import "strings"

// Color is a card color. The constant values are the canonical Japanese
// forms used by the card database and the client, so they serialize as-is.
type Color string

const (
	ColorRed     Color = "赤"
	ColorGreen   Color = "緑"
	ColorBlue    Color = "青"
	ColorPurple  Color = "紫"
	ColorBlack   Color = "黒"
	ColorYellow  Color = "黄"
	ColorMulti   Color = "多色"
	ColorUnknown Color = "不明"
)

var allColors = []Color{
	ColorRed, ColorGreen, ColorBlue, ColorPurple, ColorBlack, ColorYellow, ColorMulti, ColorUnknown,
}

var colorNames = map[Color]string{
	ColorRed:     "RED",
	ColorGreen:   "GREEN",
	ColorBlue:    "BLUE",
	ColorPurple:  "PURPLE",
	ColorBlack:   "BLACK",
	ColorYellow:  "YELLOW",
	ColorMulti:   "MULTI",
	ColorUnknown: "UNKNOWN",
}

// ParseColor maps raw database text to a Color. Database rows carry either
// the Japanese form ("赤") or an English name ("Red"), sometimes embedded in
// longer text such as "赤/緑".
func ParseColor(raw string) Color {
	clean := NormalizeText(raw)
	upper := strings.ToUpper(clean)
	for _, c := range allColors {
		if strings.Contains(clean, string(c)) || strings.Contains(upper, colorNames[c]) {
			return c
		}
	}
	return ColorUnknown
}

// CardType is the printed card category.
type CardType string

const (
	CardTypeLeader    CardType = "リーダー"
	CardTypeCharacter CardType = "キャラクター"
	CardTypeEvent     CardType = "イベント"
	CardTypeStage     CardType = "ステージ"
	CardTypeUnknown   CardType = "不明"
)

var allCardTypes = []CardType{
	CardTypeLeader, CardTypeCharacter, CardTypeEvent, CardTypeStage, CardTypeUnknown,
}

var cardTypeNames = map[CardType]string{
	CardTypeLeader:    "LEADER",
	CardTypeCharacter: "CHARACTER",
	CardTypeEvent:     "EVENT",
	CardTypeStage:     "STAGE",
	CardTypeUnknown:   "UNKNOWN",
}

// ParseCardType maps raw database text to a CardType.
func ParseCardType(raw string) CardType {
	clean := NormalizeText(raw)
	upper := strings.ToUpper(clean)
	for _, t := range allCardTypes {
		if strings.Contains(clean, string(t)) || strings.Contains(upper, cardTypeNames[t]) {
			return t
		}
	}
	return CardTypeUnknown
}

// Attribute is the combat attribute printed on leaders and characters.
type Attribute string

const (
	AttributeSlash   Attribute = "斬"
	AttributeStrike  Attribute = "打"
	AttributeShoot   Attribute = "射"
	AttributeSpecial Attribute = "特"
	AttributeWisdom  Attribute = "知"
	AttributeNone    Attribute = "-"
)

var allAttributes = []Attribute{
	AttributeSlash, AttributeStrike, AttributeShoot, AttributeSpecial, AttributeWisdom, AttributeNone,
}

var attributeNames = map[Attribute]string{
	AttributeSlash:   "SLASH",
	AttributeStrike:  "STRIKE",
	AttributeShoot:   "SHOOT",
	AttributeSpecial: "SPECIAL",
	AttributeWisdom:  "WISDOM",
	AttributeNone:    "NONE",
}

// ParseAttribute maps raw database text to an Attribute.
func ParseAttribute(raw string) Attribute {
	clean := NormalizeText(raw)
	if clean == "" {
		return AttributeNone
	}
	upper := strings.ToUpper(clean)
	for _, a := range allAttributes {
		if strings.Contains(clean, string(a)) || strings.Contains(upper, attributeNames[a]) {
			return a
		}
	}
	return AttributeNone
}

// Zone identifies a card location. FIELD covers characters in play plus the
// leader and stage slots; COST_AREA holds don!! cards in play; TEMP is the
// scratch area used while an effect is looking at cards.
type Zone string

const (
	ZoneField    Zone = "FIELD"
	ZoneHand     Zone = "HAND"
	ZoneDeck     Zone = "DECK"
	ZoneTrash    Zone = "TRASH"
	ZoneLife     Zone = "LIFE"
	ZoneDonDeck  Zone = "DON_DECK"
	ZoneCostArea Zone = "COST_AREA"
	ZoneTemp     Zone = "TEMP"
	ZoneAny      Zone = "ANY"
)

// PlayerScope says whose side of the board a target query looks at,
// relative to the effect's controller.
type PlayerScope string

const (
	ScopeSelf     PlayerScope = "SELF"
	ScopeOpponent PlayerScope = "OPPONENT"
	ScopeOwner    PlayerScope = "OWNER"
	ScopeAll      PlayerScope = "ALL"
)

// TriggerType says when an ability fires. Values are the Japanese timing
// markers as printed on cards, which is also what the effect parser matches.
type TriggerType string

const (
	TriggerOnPlay       TriggerType = "登場時"
	TriggerOnAttack     TriggerType = "アタック時"
	TriggerOnBlock      TriggerType = "ブロック時"
	TriggerOnKO         TriggerType = "KO時"
	TriggerActivateMain TriggerType = "起動メイン"
	TriggerTurnEnd      TriggerType = "ターン終了時"
	TriggerOppTurnEnd   TriggerType = "相手のターン終了時"
	TriggerOnOppAttack  TriggerType = "相手のアタック時"
	TriggerTrigger      TriggerType = "トリガー"
	TriggerCounter      TriggerType = "カウンター"
	TriggerRule         TriggerType = "ルール"
	TriggerPassive      TriggerType = "常時"
	TriggerGameStart    TriggerType = "ゲーム開始時"
	TriggerYourTurn     TriggerType = "自分のターン中"
	TriggerOppTurn      TriggerType = "相手のターン中"
	TriggerUnknown      TriggerType = "不明"
)

// ActionType is the verb of a primitive game action inside an effect.
type ActionType string

const (
	ActionTrash           ActionType = "TRASH"
	ActionRest            ActionType = "REST"
	ActionMoveToHand      ActionType = "MOVE_TO_HAND"
	ActionKO              ActionType = "KO"
	ActionDraw            ActionType = "DRAW"
	ActionLook            ActionType = "LOOK"
	ActionPlayCard        ActionType = "PLAY_CARD"
	ActionDeckBottom      ActionType = "DECK_BOTTOM"
	ActionDeckTop         ActionType = "DECK_TOP"
	ActionBuff            ActionType = "BUFF"
	ActionActive          ActionType = "ACTIVE"
	ActionVictory         ActionType = "VICTORY"
	ActionShuffle         ActionType = "SHUFFLE"
	ActionSelectOption    ActionType = "SELECT_OPTION"
	ActionRuleProcessing  ActionType = "RULE_PROCESSING"
	ActionReplaceEffect   ActionType = "REPLACE_EFFECT"
	ActionRampDon         ActionType = "RAMP_DON"
	ActionModifyDonPhase  ActionType = "MODIFY_DON_PHASE"
	ActionLifeManipulate  ActionType = "LIFE_MANIPULATE"
	ActionLifeRecover     ActionType = "LIFE_RECOVER"
	ActionDiscard         ActionType = "DISCARD"
	ActionDealDamage      ActionType = "DEAL_DAMAGE"
	ActionAttackDisable   ActionType = "ATTACK_DISABLE"
	ActionSetCost         ActionType = "SET_COST"
	ActionCostChange      ActionType = "COST_CHANGE"
	ActionReturnDon       ActionType = "RETURN_DON"
	ActionRestriction     ActionType = "RESTRICTION"
	ActionRedirectAttack  ActionType = "REDIRECT_ATTACK"
	ActionPreventLeave    ActionType = "PREVENT_LEAVE"
	ActionPassiveEffect   ActionType = "PASSIVE_EFFECT"
	ActionNegateEffect    ActionType = "NEGATE_EFFECT"
	ActionMoveCard        ActionType = "MOVE_CARD"
	ActionMoveAttachedDon ActionType = "MOVE_ATTACHED_DON"
	ActionGrantKeyword    ActionType = "GRANT_KEYWORD"
	ActionFreeze          ActionType = "FREEZE"
	ActionExecuteMain     ActionType = "EXECUTE_MAIN_EFFECT"
	ActionOther           ActionType = "OTHER"
)

// CompareOperator compares a measured quantity against a condition value.
type CompareOperator string

const (
	CompareEQ  CompareOperator = "=="
	CompareNEQ CompareOperator = "!="
	CompareGT  CompareOperator = ">"
	CompareLT  CompareOperator = "<"
	CompareGE  CompareOperator = ">="
	CompareLE  CompareOperator = "<="
	CompareHas CompareOperator = "HAS"
)

// ConditionType is the measured quantity of an effect condition.
type ConditionType string

const (
	CondNone         ConditionType = "NONE"
	CondLifeCount    ConditionType = "LIFE_COUNT"
	CondHandCount    ConditionType = "HAND_COUNT"
	CondTrashCount   ConditionType = "TRASH_COUNT"
	CondFieldCount   ConditionType = "FIELD_COUNT"
	CondDeckCount    ConditionType = "DECK_COUNT"
	CondDonCount     ConditionType = "DON_COUNT"
	CondHasTrait     ConditionType = "HAS_TRAIT"
	CondHasAttribute ConditionType = "HAS_ATTRIBUTE"
	CondHasUnit      ConditionType = "HAS_UNIT"
	CondIsRested     ConditionType = "IS_RESTED"
	CondLeaderName   ConditionType = "LEADER_NAME"
	CondLeaderTrait  ConditionType = "LEADER_TRAIT"
	CondContext      ConditionType = "CONTEXT"
	CondTurnLimit    ConditionType = "TURN_LIMIT"
)

// Context condition values, checked against what already happened while
// resolving the current ability.
const (
	ContextTypeEvent         = "TYPE_EVENT"
	ContextTypeCharacter     = "TYPE_CHARACTER"
	ContextHasTrait          = "HAS_TRAIT"
	ContextCostCheck         = "COST_CHECK"
	ContextLastActionSuccess = "LAST_ACTION_SUCCESS"
	ContextLastActionFailure = "LAST_ACTION_FAILURE"
)

// SelectMode says how a target query picks from its candidates.
type SelectMode string

const (
	// SelectChoose asks the controller to pick targets interactively.
	SelectChoose SelectMode = "CHOOSE"
	// SelectAll takes every candidate without asking.
	SelectAll SelectMode = "ALL"
	// SelectRandom picks uniformly from candidates.
	SelectRandom SelectMode = "RANDOM"
	// SelectSource targets the card the ability lives on.
	SelectSource SelectMode = "SOURCE"
	// SelectReference re-targets cards saved earlier in the same resolution.
	SelectReference SelectMode = "REFERENCE"
	// SelectRemaining takes whatever is still in the temp area.
	SelectRemaining SelectMode = "REMAINING"
)

// Duration bounds how long a continuous modifier stays applied.
type Duration string

const (
	DurationInstant Duration = "INSTANT"
	DurationTurn    Duration = "TURN"
	DurationBattle  Duration = "BATTLE"
)

// Keyword abilities referenced by battle and refresh logic.
const (
	KeywordBlocker      = "ブロッカー"
	KeywordRush         = "速攻"
	KeywordDoubleAttack = "ダブルアタック"
	KeywordBanish       = "バニッシュ"
)

// Status flags set on a card instance by effects. Flag names reuse the
// action type that set them.
const (
	FlagFreeze        = string(ActionFreeze)
	FlagAttackDisable = string(ActionAttackDisable)
	FlagPreventLeave  = string(ActionPreventLeave)
)
