// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package effects

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

var (
	quotedNamePattern = regexp.MustCompile(`「([^」]+)」`)
	traitPattern      = regexp.MustCompile(`特徴[《<]([^》>]+)[》>]`)
	attributePattern  = regexp.MustCompile(`属性[((]([^))]+)[))]`)
	costRangePattern  = regexp.MustCompile(`コスト\D?(\d+)(以下|以上)?`)
	powerRangePattern = regexp.MustCompile(`パワー\D?(\d+)(以下|以上)?`)
	countPattern      = regexp.MustCompile(`(\d+)枚`)
)

var targetColors = []string{"赤", "緑", "青", "紫", "黒", "黄"}

// ParseTarget extracts a target query from cleaned effect text. The text must
// already be normalized and stripped of action verbs; only the noun phrase
// describing the target remains.
func ParseTarget(text string, defaultPlayer cards.PlayerScope) *cards.TargetQuery {
	tq := cards.NewTargetQuery()
	tq.Player = defaultPlayer
	tq.RawText = text

	if text == "このキャラ" || text == "自身" {
		tq.SelectMode = cards.SelectSource
		return tq
	}

	if strings.Contains(text, "残り") {
		tq.SelectMode = cards.SelectRemaining
		tq.Count = -1
		tq.Zone = cards.ZoneTemp
		return tq
	}

	switch {
	case strings.Contains(text, "お互い"):
		tq.Player = cards.ScopeAll
	case strings.Contains(text, "持ち主"):
		tq.Player = cards.ScopeOwner
	case strings.Contains(text, "相手"):
		tq.Player = cards.ScopeOpponent
	case strings.Contains(text, "自分"), strings.Contains(text, "自身"):
		tq.Player = cards.ScopeSelf
	}

	switch {
	case strings.Contains(text, "手札"):
		tq.Zone = cards.ZoneHand
	case strings.Contains(text, "トラッシュ"):
		tq.Zone = cards.ZoneTrash
	case strings.Contains(text, "ライフ"):
		tq.Zone = cards.ZoneLife
	case strings.Contains(text, "デッキ"):
		tq.Zone = cards.ZoneDeck
	case strings.Contains(text, "ドン"):
		tq.Zone = cards.ZoneCostArea
	default:
		tq.Zone = cards.ZoneField
	}

	if strings.Contains(text, "リーダー") {
		tq.CardTypes = append(tq.CardTypes, cards.CardTypeLeader)
	}
	if strings.Contains(text, "キャラ") {
		tq.CardTypes = append(tq.CardTypes, cards.CardTypeCharacter)
	}
	if strings.Contains(text, "イベント") {
		tq.CardTypes = append(tq.CardTypes, cards.CardTypeEvent)
	}
	if strings.Contains(text, "ステージ") {
		tq.CardTypes = append(tq.CardTypes, cards.CardTypeStage)
	}

	if m := quotedNamePattern.FindStringSubmatch(text); m != nil {
		// "「X」以外の..." is an exclusion, not a name filter.
		if !strings.Contains(text, m[0]+"以外の") {
			tq.Names = append(tq.Names, m[1])
		}
	}

	for _, m := range traitPattern.FindAllStringSubmatch(text, -1) {
		tq.Traits = append(tq.Traits, m[1])
	}
	for _, m := range attributePattern.FindAllStringSubmatch(text, -1) {
		tq.Attributes = append(tq.Attributes, m[1])
	}
	for _, c := range targetColors {
		if strings.Contains(text, c+"の") {
			tq.Colors = append(tq.Colors, c)
		}
	}

	if m := costRangePattern.FindStringSubmatch(text); m != nil {
		val, _ := strconv.Atoi(m[1])
		if m[2] == "以上" {
			tq.CostMin = &val
		} else {
			tq.CostMax = &val
		}
	}
	if m := powerRangePattern.FindStringSubmatch(text); m != nil {
		val, _ := strconv.Atoi(m[1])
		if m[2] == "以上" {
			tq.PowerMin = &val
		} else {
			tq.PowerMax = &val
		}
	}

	if strings.Contains(text, "レスト") {
		rested := true
		tq.IsRest = &rested
	} else if strings.Contains(text, "アクティブ") {
		active := false
		tq.IsRest = &active
	}

	if strings.Contains(text, "すべて") || strings.Contains(text, "全て") {
		tq.Count = -1
		tq.SelectMode = cards.SelectAll
	} else if m := countPattern.FindStringSubmatch(text); m != nil {
		tq.Count, _ = strconv.Atoi(m[1])
	} else {
		tq.Count = 1
	}

	return tq
}
