// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
)

// DonDeckSize is how many don!! cards each player starts with.
const DonDeckSize = 10

// InitialHandSize is how many cards each player draws during setup.
const InitialHandSize = 5

// Player is one side of the board: the leader, all card zones and the don!!
// economy. Zone slices are ordered; index 0 is the top of deck and life.
type Player struct {
	ID   string
	Name string

	Leader *cards.CardInstance
	Stage  *cards.CardInstance

	Deck  []*cards.CardInstance
	Hand  []*cards.CardInstance
	Field []*cards.CardInstance
	Trash []*cards.CardInstance
	Life  []*cards.CardInstance
	// Temp holds cards an effect is currently looking at.
	Temp []*cards.CardInstance

	DonDeck     []*cards.DonInstance
	DonActive   []*cards.DonInstance
	DonRested   []*cards.DonInstance
	DonAttached []*cards.DonInstance
}

// NewPlayer builds a player with a full don!! deck. The leader starts face
// up; deck cards stay face down until an effect or draw reveals them.
func NewPlayer(id string, name string, leader *cards.CardInstance, deck []*cards.CardInstance) *Player {
	p := &Player{
		ID:     id,
		Name:   name,
		Leader: leader,
		Deck:   deck,
	}
	if leader != nil {
		leader.IsFaceUp = true
	}
	for i := 0; i < DonDeckSize; i++ {
		p.DonDeck = append(p.DonDeck, cards.NewDonInstance(id))
	}
	return p
}

// PlaceLife moves leader.Life cards from the top of the deck face down onto
// the life pile.
func (p *Player) PlaceLife() {
	if p.Leader == nil {
		return
	}
	for i := 0; i < p.Leader.Master.Life; i++ {
		if len(p.Deck) == 0 {
			break
		}
		card := p.Deck[0]
		p.Deck = p.Deck[1:]
		card.IsFaceUp = false
		p.Life = append(p.Life, card)
	}
}

// DrawInitialHand draws the opening hand.
func (p *Player) DrawInitialHand() {
	for i := 0; i < InitialHandSize; i++ {
		if len(p.Deck) == 0 {
			break
		}
		card := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, card)
	}
}

// AllUnits returns the leader, every field character and the stage, skipping
// empty slots. This is the set turn triggers and refresh walk over.
func (p *Player) AllUnits() []*cards.CardInstance {
	units := make([]*cards.CardInstance, 0, len(p.Field)+2)
	if p.Leader != nil {
		units = append(units, p.Leader)
	}
	units = append(units, p.Field...)
	if p.Stage != nil {
		units = append(units, p.Stage)
	}
	return units
}

// DonTotal counts don!! in play: active, rested and attached.
func (p *Player) DonTotal() int {
	return len(p.DonActive) + len(p.DonRested) + len(p.DonAttached)
}

// HasUntappedBlocker reports whether any active field character currently
// has the blocker keyword.
func (p *Player) HasUntappedBlocker() bool {
	for _, c := range p.Field {
		if !c.IsRest && c.HasKeyword(cards.KeywordBlocker) {
			return true
		}
	}
	return false
}

// zoneList maps a zone to its backing slice. Leader and stage are slots, not
// lists, and are handled by the callers directly.
func (p *Player) zoneList(zone cards.Zone) *[]*cards.CardInstance {
	switch zone {
	case cards.ZoneHand:
		return &p.Hand
	case cards.ZoneField:
		return &p.Field
	case cards.ZoneTrash:
		return &p.Trash
	case cards.ZoneLife:
		return &p.Life
	case cards.ZoneDeck:
		return &p.Deck
	case cards.ZoneTemp:
		return &p.Temp
	default:
		return nil
	}
}

// findDon locates a don!! by uuid across the three in-play piles. The
// returned slice pointer identifies which pile it was found in.
func (p *Player) findDon(donUUID string) (*cards.DonInstance, *[]*cards.DonInstance) {
	for _, pile := range []*[]*cards.DonInstance{&p.DonActive, &p.DonRested, &p.DonAttached} {
		for _, don := range *pile {
			if don.UUID == donUUID {
				return don, pile
			}
		}
	}
	return nil, nil
}

func removeDon(pile *[]*cards.DonInstance, don *cards.DonInstance) {
	for i, d := range *pile {
		if d == don {
			*pile = append((*pile)[:i], (*pile)[i+1:]...)
			return
		}
	}
}

func removeCard(list *[]*cards.CardInstance, card *cards.CardInstance) bool {
	for i, c := range *list {
		if c == card {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}
