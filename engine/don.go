// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

// rampDon moves up to count don!! from the don deck into play, active by
// default or straight to the rested pile. Returns how many actually moved.
func (g *Game) rampDon(p *Player, count int, rested bool) int {
	moved := 0
	for i := 0; i < count && len(p.DonDeck) > 0; i++ {
		don := p.DonDeck[0]
		p.DonDeck = p.DonDeck[1:]
		if rested {
			don.IsRest = true
			p.DonRested = append(p.DonRested, don)
		} else {
			don.IsRest = false
			p.DonActive = append(p.DonActive, don)
		}
		moved++
	}
	return moved
}

// returnDon sends up to count in-play don!! back to the don deck, taking
// active first, then rested, then attached.
func (g *Game) returnDon(p *Player, count int) int {
	returned := 0
	for returned < count {
		var don *cards.DonInstance
		switch {
		case len(p.DonActive) > 0:
			don = p.DonActive[0]
			p.DonActive = p.DonActive[1:]
		case len(p.DonRested) > 0:
			don = p.DonRested[0]
			p.DonRested = p.DonRested[1:]
		case len(p.DonAttached) > 0:
			don = p.DonAttached[0]
			p.DonAttached = p.DonAttached[1:]
			if card := g.FindCardByUUID(don.AttachedTo); card != nil && card.AttachedDon > 0 {
				card.AttachedDon--
			}
		default:
			return returned
		}
		don.IsRest = false
		don.AttachedTo = ""
		p.DonDeck = append(p.DonDeck, don)
		returned++
	}
	return returned
}

// restDon rests up to count active don!!.
func (g *Game) restDon(p *Player, count int) int {
	if count < 0 {
		count = len(p.DonActive)
	}
	rested := 0
	for i := 0; i < count && len(p.DonActive) > 0; i++ {
		don := p.DonActive[0]
		p.DonActive = p.DonActive[1:]
		don.IsRest = true
		p.DonRested = append(p.DonRested, don)
		rested++
	}
	return rested
}

// moveAttachedDon retargets one don!! attached to from onto to.
func (g *Game) moveAttachedDon(from *cards.CardInstance, to *cards.CardInstance) bool {
	for _, p := range []*Player{g.P1, g.P2} {
		for _, don := range p.DonAttached {
			if don.AttachedTo != from.UUID {
				continue
			}
			don.AttachedTo = to.UUID
			if from.AttachedDon > 0 {
				from.AttachedDon--
			}
			to.AttachedDon++
			return true
		}
	}
	return false
}
