// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

// Package effects turns printed card text into executable ability trees.
// Card text is written in a constrained grammar: a timing marker such as
// 『登場時』, an optional cost before ":", then one or more clauses joined
// by "。" and "その後、". The parser is deliberately tolerant; anything it
// cannot classify becomes an OTHER action that resolves as a no-op, and
// cards needing exact semantics get a manual catalog entry instead.
package effects

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

// lastTargetKey is the context key linking "それ" style references back to
// the cards picked by the previous clause.
const lastTargetKey = "last_target"

var (
	parenContentPattern     = regexp.MustCompile(`\(.*?\)`)
	wideParenContentPattern = regexp.MustCompile(`(.*?)`)
	whitespacePattern       = regexp.MustCompile(`\s+`)
	timingMarkerPattern     = regexp.MustCompile(`『[^』]+』`)
	conditionClausePattern  = regexp.MustCompile(`^(.+?)(場合|なら|することで)、(.+)$`)
	thenSplitPattern        = regexp.MustCompile(`その後、|、その後`)
	lookSplitPattern        = regexp.MustCompile(`見て|見る`)
	remainderTailPattern    = regexp.MustCompile(`残りを.*`)
	signedNumberPattern     = regexp.MustCompile(`([-−‐‑‒–—―+]?)([0-9]+)`)
	trailingParticlePattern = regexp.MustCompile(`[をにが]、?$`)
	grantKeywordPattern     = regexp.MustCompile(`《([^》]+)》`)
)

var textReplacer = strings.NewReplacer(
	"[", "『", "]", "』",
	"<", "《", ">", "》",
	"【", "『", "】", "』",
	"−", "-", "‒", "-", "–", "-",
	"➕", "+",
)

// cleanupPatterns strip action verbs, particles and buff numbers so that
// only the target noun phrase is left for ParseTarget. Longer, more specific
// patterns come first.
var cleanupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[をにへ]、?持ち主のデッキの下に?(好きな順番で)?(置く|戻す|加え)`),
	regexp.MustCompile(`[をにへ]、?持ち主のデッキの上か下に?(好きな順番で)?(置く|戻す|加え)`),
	regexp.MustCompile(`[をにへ]、?持ち主のデッキの上に?(好きな順番で)?(置く|戻す|加え)`),
	regexp.MustCompile(`[をにへ]、?持ち主の手札に?(戻す|加える)`),
	regexp.MustCompile(`[をにへ]、?手札に?(戻す|加える)`),
	regexp.MustCompile(`[をにへ]、?トラッシュに?(置く|捨てる)`),
	regexp.MustCompile(`[をにへ]、?ライフの上に?(表向きで|裏向きで)?(置く|加える)`),
	regexp.MustCompile(`[をにへ]、?ライフの下に?(表向きで|裏向きで)?(置く|加える)`),
	regexp.MustCompile(`[をにへ]、?ライフの上か下に?(表向きで|裏向きで)?(置く|加える)`),
	regexp.MustCompile(`[をにへ]、?レストで登場させる`),
	regexp.MustCompile(`[をにへ]、?アクティブで登場させる`),
	regexp.MustCompile(`[をにへ]、?登場させる`),
	regexp.MustCompile(`[をにへ]、?KOする`),
	regexp.MustCompile(`[をにへ]、?レストにする`),
	regexp.MustCompile(`[をにへ]、?アクティブにする`),
	regexp.MustCompile(`[をにへ]、?公開(する|し)`),
	regexp.MustCompile(`、?手札に?加える`),
	regexp.MustCompile(`、?手札に?戻す`),
	regexp.MustCompile(`、?デッキの下に?置く`),
	regexp.MustCompile(`、?登場させる`),
	regexp.MustCompile(`、?KOする`),
	regexp.MustCompile(`このターン中、?`),
	regexp.MustCompile(`このバトル中、?`),
	regexp.MustCompile(`パワー\s*[+\-+]?\s*[0-9]+`),
	regexp.MustCompile(`コスト\s*[+\-+]?\s*[0-9]+`),
	regexp.MustCompile(`にする`),
	regexp.MustCompile(`できる`),
	regexp.MustCompile(`持つ`),
	regexp.MustCompile(`いる`),
	regexp.MustCompile(`枚?まで[を、]*`),
	regexp.MustCompile(`^[、,]+`),
	regexp.MustCompile(`[、,]+$`),
}

// Actions that never take a card target.
var noTargetActions = map[cards.ActionType]bool{
	cards.ActionDraw:           true,
	cards.ActionRampDon:        true,
	cards.ActionShuffle:        true,
	cards.ActionLifeRecover:    true,
	cards.ActionVictory:        true,
	cards.ActionRuleProcessing: true,
	cards.ActionSelectOption:   true,
	cards.ActionReplaceEffect:  true,
	cards.ActionModifyDonPhase: true,
	cards.ActionPassiveEffect:  true,
}

// Phrases marking calculations or rule interventions rather than targeting.
var calculationMarkers = []string{"につき", "時", "できない", "されない", "得る", "いる"}

// ParseAbilities parses one card's effect text into abilities. Multiple
// abilities on one card are separated by "/". Returns nil for empty or
// unparseable text.
func ParseAbilities(rawText string) []*cards.Ability {
	if rawText == "" {
		return nil
	}
	normalized := normalizeEffectText(rawText)
	var abilities []*cards.Ability
	for _, part := range strings.Split(normalized, "/") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		trigger := detectTrigger(part)
		body := timingMarkerPattern.ReplaceAllString(part, "")

		var cost, effect cards.EffectNode
		if idx := strings.Index(body, ":"); idx >= 0 {
			cost = sequenceOf(parseClauses(body[:idx], true))
			effect = sequenceOf(parseClauses(body[idx+1:], false))
		} else {
			effect = sequenceOf(parseClauses(body, false))
		}
		if cost == nil && effect == nil {
			continue
		}
		abilities = append(abilities, &cards.Ability{
			Trigger: trigger,
			Cost:    cost,
			Effect:  effect,
			RawText: part,
		})
	}
	return abilities
}

func normalizeEffectText(text string) string {
	text = norm.NFKC.String(text)
	text = parenContentPattern.ReplaceAllString(text, "")
	text = wideParenContentPattern.ReplaceAllString(text, "")
	text = textReplacer.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "ドン!!", "ドン")
	text = strings.ReplaceAll(text, "DON!!", "ドン")
	return text
}

func detectTrigger(text string) cards.TriggerType {
	switch {
	case strings.Contains(text, "『登場時』"):
		return cards.TriggerOnPlay
	case strings.Contains(text, "『起動メイン』"):
		return cards.TriggerActivateMain
	case strings.Contains(text, "『アタック時』"):
		return cards.TriggerOnAttack
	case strings.Contains(text, "『ブロック時』"):
		return cards.TriggerOnBlock
	case strings.Contains(text, "『KO時』"):
		return cards.TriggerOnKO
	case strings.Contains(text, "『ターン終了時』"):
		return cards.TriggerTurnEnd
	case strings.Contains(text, "『相手のターン終了時』"):
		return cards.TriggerOppTurnEnd
	case strings.Contains(text, "『自分のターン中』"):
		return cards.TriggerYourTurn
	case strings.Contains(text, "『相手のターン中』"):
		return cards.TriggerOppTurn
	case strings.Contains(text, "『カウンター』"):
		return cards.TriggerCounter
	case strings.Contains(text, "『トリガー』"):
		return cards.TriggerTrigger
	}
	return cards.TriggerUnknown
}

// parseClauses splits text into sentence clauses and parses each one,
// keeping "その後" chains in order. Clauses following a conditional stay
// nested inside that condition's branch.
func parseClauses(text string, isCost bool) []cards.EffectNode {
	if text == "" {
		return nil
	}
	var root []cards.EffectNode
	tail := &root
	for _, sentence := range strings.Split(text, "。") {
		if sentence == "" {
			continue
		}
		for _, part := range thenSplitPattern.Split(sentence, -1) {
			if part == "" {
				continue
			}
			for _, node := range parseLogicBlock(part, isCost) {
				*tail = append(*tail, node)
				tail = deepestTail(tail)
			}
		}
	}
	return root
}

// deepestTail descends into a trailing branch so that follow-up clauses
// execute inside the conditional.
func deepestTail(tail *[]cards.EffectNode) *[]cards.EffectNode {
	for {
		if len(*tail) == 0 {
			return tail
		}
		branch, ok := (*tail)[len(*tail)-1].(*cards.Branch)
		if !ok {
			return tail
		}
		seq, ok := branch.IfTrue.(*cards.Sequence)
		if !ok {
			return tail
		}
		tail = &seq.Actions
	}
}

func parseLogicBlock(text string, isCost bool) []cards.EffectNode {
	if m := conditionClausePattern.FindStringSubmatch(text); m != nil {
		condition := parseCondition(m[1])
		children := parseClauses(m[3], isCost)
		return []cards.EffectNode{&cards.Branch{
			Condition: condition,
			IfTrue:    &cards.Sequence{Actions: children},
		}}
	}
	return parseAtomicAction(text, isCost)
}

func parseAtomicAction(text string, isCost bool) []cards.EffectNode {
	if strings.Contains(text, "デッキ") &&
		(strings.Contains(text, "見て") || strings.Contains(text, "見る")) {
		return parseLookAction(text)
	}

	actType := detectActionType(text)
	value := extractNumber(text)

	var target *cards.TargetQuery
	isCalculation := false
	for _, kw := range calculationMarkers {
		if strings.Contains(text, kw) {
			isCalculation = true
			break
		}
	}

	if !noTargetActions[actType] && !isCalculation {
		if strings.Contains(text, "それ") || strings.Contains(text, "そのカード") || strings.Contains(text, "そのキャラ") {
			target = &cards.TargetQuery{
				SelectMode: cards.SelectReference,
				RefID:      lastTargetKey,
				RawText:    lastTargetKey,
			}
		} else {
			defaultPlayer := cards.ScopeSelf
			switch actType {
			case cards.ActionKO, cards.ActionDealDamage, cards.ActionRest, cards.ActionAttackDisable:
				if !strings.Contains(text, "自分") {
					defaultPlayer = cards.ScopeOpponent
				}
			}
			target = ParseTarget(cleanupTargetText(text), defaultPlayer)
			if strings.Contains(text, "選び") || strings.Contains(text, "対象とし") {
				target.SaveID = lastTargetKey
			}
			if strings.Contains(text, "まで") {
				target.IsUpTo = true
			}
		}
	}

	action := &cards.GameAction{
		Type:    actType,
		Target:  target,
		Value:   cards.FixedValue(value),
		RawText: text,
	}
	if actType == cards.ActionGrantKeyword {
		if m := grantKeywordPattern.FindStringSubmatch(text); m != nil {
			action.Keyword = m[1]
		}
	}
	if actType == cards.ActionBuff || actType == cards.ActionCostChange {
		action.Duration = cards.DurationTurn
	}
	return []cards.EffectNode{action}
}

func detectActionType(text string) cards.ActionType {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if !strings.Contains(text, s) {
				return false
			}
		}
		return true
	}
	anyOf := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("アタック", "対象", "変更"):
		return cards.ActionRedirectAttack
	case has("ドン", "戻す", "ドンデッキ"):
		return cards.ActionReturnDon
	case has("付与されているドン", "付与する"):
		return cards.ActionMoveAttachedDon
	case has("ドンフェイズ"):
		return cards.ActionModifyDonPhase
	case has("ダメージ") && anyOf("与え", "受ける"):
		return cards.ActionDealDamage
	case has("アクティブにならない"):
		return cards.ActionFreeze
	case has("代わりに"):
		return cards.ActionReplaceEffect
	case has("選ぶ") && anyOf("つ", "から"):
		return cards.ActionSelectOption
	case has("シャッフル"):
		return cards.ActionShuffle
	case has("コスト", "にする"):
		return cards.ActionSetCost
	case has("場を離れない"):
		return cards.ActionPreventLeave
	case has("デッキ", "上") && anyOf("置く", "戻す", "加える"):
		return cards.ActionDeckTop
	case anyOf("できない", "不可", "加えられない"):
		return cards.ActionRestriction
	case has("発動する") && anyOf("効果", "イベント"):
		return cards.ActionExecuteMain
	case has("勝利する") && anyOf("ゲーム", "敗北"):
		return cards.ActionVictory
	case anyOf("としても扱う", "何枚でも", "カウンター"):
		return cards.ActionRuleProcessing
	case has("アタック") && anyOf("できない", "不可"):
		return cards.ActionAttackDisable
	case has("無効"):
		return cards.ActionNegateEffect
	case has("ライフ") && anyOf("加える", "置く", "向き"):
		return cards.ActionLifeManipulate
	case has("コスト") && anyOf("-", "下げる", "+", "上げる"):
		return cards.ActionCostChange
	case has("得る"):
		return cards.ActionGrantKeyword
	case has("ドン", "追加"):
		return cards.ActionRampDon
	case has("引く"):
		return cards.ActionDraw
	case has("登場"):
		return cards.ActionPlayCard
	case has("KO"):
		return cards.ActionKO
	case has("手札") && anyOf("戻す", "加える"):
		return cards.ActionMoveToHand
	case anyOf("トラッシュ", "捨てる"):
		return cards.ActionTrash
	case has("デッキ", "下"):
		return cards.ActionDeckBottom
	case has("パワー"):
		return cards.ActionBuff
	case has("レスト"):
		return cards.ActionRest
	case has("アクティブ"):
		return cards.ActionActive
	}
	return cards.ActionOther
}

func extractNumber(text string) int {
	m := signedNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	if m[1] != "" && m[1] != "+" {
		return -n
	}
	return n
}

func cleanupTargetText(text string) string {
	cleaned := text
	for _, p := range cleanupPatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	cleaned = trailingParticlePattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func parseCondition(text string) *cards.Condition {
	cond := &cards.Condition{
		Type:     cards.CondNone,
		Operator: cards.CompareEQ,
		RawText:  text,
	}
	clean := cleanupTargetText(text)

	switch {
	case strings.Contains(text, "公開したカード"):
		cond.Type = cards.CondContext
		switch {
		case strings.Contains(text, "イベント"):
			cond.StrValue = cards.ContextTypeEvent
		case strings.Contains(text, "キャラ"):
			cond.StrValue = cards.ContextTypeCharacter
		case strings.Contains(text, "特徴"):
			cond.StrValue = cards.ContextHasTrait
			if m := regexp.MustCompile(`[《<]([^》>]+)[》>]`).FindStringSubmatch(text); m != nil {
				cond.Target = &cards.TargetQuery{RawText: m[0], Traits: []string{m[1]}}
			}
		case strings.Contains(text, "コスト"):
			cond.StrValue = cards.ContextCostCheck
			if m := signedNumberPattern.FindStringSubmatch(text); m != nil {
				minCost, _ := strconv.Atoi(m[2])
				cond.Target = &cards.TargetQuery{RawText: text, CostMin: &minCost}
			}
		}
	case strings.Contains(text, "そうしなかった"):
		cond.Type = cards.CondContext
		cond.StrValue = cards.ContextLastActionFailure
	case strings.Contains(text, "そうした"), strings.Contains(text, "登場させた"):
		cond.Type = cards.CondContext
		cond.StrValue = cards.ContextLastActionSuccess
	case strings.Contains(text, "ライフ"):
		cond.Type = cards.CondLifeCount
	case strings.Contains(text, "ドン"):
		cond.Type = cards.CondDonCount
	case strings.Contains(text, "手札"):
		cond.Type = cards.CondHandCount
	case strings.Contains(text, "トラッシュ"):
		cond.Type = cards.CondTrashCount
	case strings.Contains(text, "デッキ"):
		cond.Type = cards.CondDeckCount
	case strings.Contains(text, "特徴"):
		cond.Type = cards.CondHasTrait
	case strings.Contains(text, "リーダー"):
		cond.Type = cards.CondLeaderName
	case strings.Contains(text, "キャラ"), strings.Contains(text, "持つ"):
		cond.Type = cards.CondHasUnit
	}

	if cond.Type != cards.CondContext && cond.Type != cards.CondNone {
		if cond.Type == cards.CondHasTrait || cond.Type == cards.CondHasUnit {
			cond.Target = ParseTarget(clean, cards.ScopeSelf)
		}
		if m := regexp.MustCompile(`[0-9]+`).FindString(text); m != "" {
			cond.Value, _ = strconv.Atoi(m)
		}
	}

	if strings.Contains(text, "以上") {
		cond.Operator = cards.CompareGE
	} else if strings.Contains(text, "以下") {
		cond.Operator = cards.CompareLE
	}

	if m := regexp.MustCompile(`[「『]([^」』]+)[」』]`).FindStringSubmatch(text); m != nil {
		cond.StrValue = m[1]
		if cond.Type == cards.CondNone {
			cond.Type = cards.CondLeaderName
		}
	}
	if m := regexp.MustCompile(`[《<]([^》>]+)[》>]`).FindStringSubmatch(text); m != nil {
		if cond.Type != cards.CondContext {
			cond.StrValue = m[1]
			cond.Type = cards.CondHasTrait
			cond.Operator = cards.CompareHas
		}
	}

	if cond.Type == cards.CondLeaderName {
		cond.Operator = cards.CompareEQ
	}
	return cond
}

// parseLookAction builds the LOOK / pick-to-hand / rest-to-deck-bottom chain
// for "デッキの上からN枚を見て..." clauses.
func parseLookAction(text string) []cards.EffectNode {
	count := extractNumber(text)
	if count <= 0 {
		count = 1
	}

	seq := &cards.Sequence{}
	seq.Actions = append(seq.Actions, &cards.GameAction{
		Type:       cards.ActionLook,
		Value:      cards.FixedValue(count),
		SourceZone: cards.ZoneDeck,
		DestZone:   cards.ZoneTemp,
		RawText:    fmt.Sprintf("デッキの上から%d枚を見る", count),
	})

	parts := lookSplitPattern.Split(text, 2)
	post := ""
	if len(parts) > 1 {
		post = parts[1]
	}

	if strings.Contains(post, "加える") || strings.Contains(post, "公開") {
		cleanPost := cleanupTargetText(post)
		cleanPost = remainderTailPattern.ReplaceAllString(cleanPost, "")
		moveTarget := ParseTarget(cleanPost, cards.ScopeSelf)
		moveTarget.Zone = cards.ZoneTemp
		moveTarget.SaveID = lastTargetKey
		if strings.Contains(post, "まで") {
			moveTarget.IsUpTo = true
		}
		seq.Actions = append(seq.Actions, &cards.GameAction{
			Type:       cards.ActionMoveToHand,
			Target:     moveTarget,
			SourceZone: cards.ZoneTemp,
			DestZone:   cards.ZoneHand,
			RawText:    "選択して手札に加える",
		})
	}

	if strings.Contains(text, "残り") || strings.Contains(text, "下") {
		seq.Actions = append(seq.Actions, &cards.GameAction{
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
			RawText:      "残りをデッキの下に置く",
		})
	}

	return []cards.EffectNode{seq}
}

func sequenceOf(nodes []cards.EffectNode) cards.EffectNode {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return &cards.Sequence{Actions: nodes}
}
