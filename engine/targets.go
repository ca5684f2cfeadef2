// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strings"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

// findTargets materializes a target query against the board. p is the
// player resolving the effect: SELF scope is that player even while the
// turn belongs to someone else, as with counter events.
func (g *Game) findTargets(p *Player, q *cards.TargetQuery, source *cards.CardInstance, ctx *EffectContext) []*cards.CardInstance {
	if q == nil {
		return nil
	}

	switch q.SelectMode {
	case cards.SelectSource:
		return []*cards.CardInstance{source}
	case cards.SelectReference:
		key := q.RefID
		if key == "" {
			return ctx.LastTargets
		}
		return ctx.Saved[key]
	case cards.SelectRemaining:
		return append([]*cards.CardInstance{}, p.Temp...)
	}

	var scoped []*Player
	switch q.Player {
	case cards.ScopeSelf:
		scoped = []*Player{p}
	case cards.ScopeOpponent:
		scoped = []*Player{g.otherPlayer(p)}
	case cards.ScopeAll:
		scoped = []*Player{g.P1, g.P2}
	case cards.ScopeOwner:
		if owner, _ := g.findCardLocation(source); owner != nil {
			scoped = []*Player{owner}
		}
	default:
		scoped = []*Player{p}
	}

	var candidates []*cards.CardInstance
	for _, sp := range scoped {
		switch q.Zone {
		case cards.ZoneField:
			candidates = append(candidates, sp.Field...)
			if sp.Leader != nil && (len(q.CardTypes) == 0 || hasCardType(q.CardTypes, cards.CardTypeLeader)) {
				candidates = append(candidates, sp.Leader)
			}
			if sp.Stage != nil {
				candidates = append(candidates, sp.Stage)
			}
		case cards.ZoneHand:
			candidates = append(candidates, sp.Hand...)
		case cards.ZoneTrash:
			candidates = append(candidates, sp.Trash...)
		case cards.ZoneLife:
			candidates = append(candidates, sp.Life...)
		case cards.ZoneDeck:
			candidates = append(candidates, sp.Deck...)
		case cards.ZoneTemp:
			candidates = append(candidates, sp.Temp...)
		}
	}

	results := filterCandidates(candidates, q)

	switch q.SelectMode {
	case cards.SelectRandom:
		return g.pickRandom(results, q.Count)
	case cards.SelectChoose:
		// The full candidate list goes to the player; the selection step
		// enforces the count.
		return results
	}
	if q.Count >= 0 && len(results) > q.Count {
		results = results[:q.Count]
	}
	return results
}

func filterCandidates(candidates []*cards.CardInstance, q *cards.TargetQuery) []*cards.CardInstance {
	var results []*cards.CardInstance
	for _, card := range candidates {
		if card == nil {
			continue
		}
		if len(q.CardTypes) > 0 && !hasCardType(q.CardTypes, card.Master.Type) {
			continue
		}
		if len(q.Colors) > 0 && !matchesAnyColor(card, q.Colors) {
			continue
		}
		if len(q.Attributes) > 0 && !containsString(q.Attributes, string(card.Master.Attribute)) {
			continue
		}
		if q.CostMax != nil && card.CurrentCost() > *q.CostMax {
			continue
		}
		if q.CostMin != nil && card.CurrentCost() < *q.CostMin {
			continue
		}
		if q.PowerMax != nil && card.EffectivePower(true) > *q.PowerMax {
			continue
		}
		if q.PowerMin != nil && card.EffectivePower(true) < *q.PowerMin {
			continue
		}
		if len(q.Names) > 0 && !containsString(q.Names, card.Master.Name) {
			continue
		}
		if len(q.Traits) > 0 && !hasAnyTrait(card, q.Traits) {
			continue
		}
		if len(q.CardIDs) > 0 && !containsString(q.CardIDs, card.Master.ID) {
			continue
		}
		if len(q.ExcludeIDs) > 0 && containsString(q.ExcludeIDs, card.Master.ID) {
			continue
		}
		if q.IsRest != nil && card.IsRest != *q.IsRest {
			continue
		}
		results = append(results, card)
	}
	return results
}

func (g *Game) pickRandom(candidates []*cards.CardInstance, count int) []*cards.CardInstance {
	if count < 0 || count >= len(candidates) {
		return candidates
	}
	pool := append([]*cards.CardInstance{}, candidates...)
	g.rng.Shuffle("effects", len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:count]
}

func hasCardType(types []cards.CardType, t cards.CardType) bool {
	for _, ct := range types {
		if ct == t {
			return true
		}
	}
	return false
}

func matchesAnyColor(card *cards.CardInstance, colors []string) bool {
	for _, c := range colors {
		if strings.Contains(string(card.Master.Color), c) {
			return true
		}
	}
	return false
}

func hasAnyTrait(card *cards.CardInstance, traits []string) bool {
	for _, t := range traits {
		if card.Master.HasTrait(t) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
