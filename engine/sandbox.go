// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strings"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// SandboxGame is the free-manipulation mode: no rules enforcement, both
// boards fully visible, cards movable anywhere. Turn structure still exists
// so the refresh, draw and don!! phases can be stepped through.
type SandboxGame struct {
	ID string

	P1 *Player
	P2 *Player

	ActivePlayerID string
	TurnCount      int

	rng    *GameRand
	logger log.Logger
}

// sandboxDonLimit caps don!! in play, matching the physical game's pool.
const sandboxDonLimit = 10

// NewSandboxGame builds a sandbox with shuffled decks, life set from the
// leaders and five-card opening hands.
func NewSandboxGame(id string, p1 *Player, p2 *Player, rng *GameRand, logger log.Logger) *SandboxGame {
	s := &SandboxGame{
		ID:             id,
		P1:             p1,
		P2:             p2,
		ActivePlayerID: p1.ID,
		TurnCount:      1,
		rng:            rng,
		logger:         logger.WithTags(tag.GameID(id)),
	}
	for _, p := range []*Player{p1, p2} {
		deck := p.Deck
		rng.Shuffle("deck."+p.ID, len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		p.PlaceLife()
		p.DrawInitialHand()
	}
	s.startTurn()
	return s
}

// Seed exposes the master seed the sandbox was created with.
func (s *SandboxGame) Seed() int64 {
	return s.rng.MasterSeed()
}

func (s *SandboxGame) activePlayer() *Player {
	if s.ActivePlayerID == s.P2.ID {
		return s.P2
	}
	return s.P1
}

func (s *SandboxGame) playerByID(id string) *Player {
	switch id {
	case s.P1.ID:
		return s.P1
	case s.P2.ID:
		return s.P2
	}
	return nil
}

// ApplyPlayerAction dispatches one sandbox action. Sandbox actions are not
// validated against any pending request; any observer may drive any card.
func (s *SandboxGame) ApplyPlayerAction(playerID string, action *data_models.PlayerAction) error {
	if action == nil {
		return NewRuleError(ErrCodeUnsupportedAction, "アクションが指定されていません。")
	}
	switch action.Type {
	case data_models.ActionTypeMoveCard:
		index := -1
		if action.Index != nil {
			index = *action.Index
		}
		return s.MoveCard(action.CardUUID, action.DestPlayerID, action.DestZone, index)

	case data_models.ActionTypeToggleRest:
		return s.ToggleRest(action.CardUUID)

	case data_models.ActionTypeTurnEnd, data_models.ActionTypeEndTurn:
		s.EndTurn()
		return nil

	case data_models.ActionTypeDraw:
		pid := action.PlayerID
		if pid == "" {
			pid = s.ActivePlayerID
		}
		return s.ManualDraw(pid)
	}
	return NewRuleError(ErrCodeUnsupportedAction, "サンドボックスでは未対応のアクションです: %v", action.Type)
}

// EndTurn hands the turn to the other player and runs their refresh, draw
// and don!! phases.
func (s *SandboxGame) EndTurn() {
	s.logger.Info("sandbox turn ended",
		tag.Turn(s.TurnCount), tag.PlayerID(s.ActivePlayerID))
	if s.ActivePlayerID == s.P1.ID {
		s.ActivePlayerID = s.P2.ID
	} else {
		s.ActivePlayerID = s.P1.ID
	}
	s.TurnCount++
	s.startTurn()
}

func (s *SandboxGame) startTurn() {
	s.refreshPhase()
	s.drawPhase()
	s.donPhase()
}

// refreshPhase un-rests the active player's whole board and returns every
// don!! to the active pile.
func (s *SandboxGame) refreshPhase() {
	p := s.activePlayer()
	if p.Leader != nil {
		p.Leader.IsRest = false
		p.Leader.AttachedDon = 0
	}
	if p.Stage != nil {
		p.Stage.IsRest = false
	}
	for _, c := range p.Field {
		c.IsRest = false
		c.AttachedDon = 0
	}

	p.DonActive = append(p.DonActive, p.DonAttached...)
	p.DonAttached = nil
	p.DonActive = append(p.DonActive, p.DonRested...)
	p.DonRested = nil
	for _, d := range p.DonActive {
		d.IsRest = false
		d.AttachedTo = ""
	}
	s.logger.Info("sandbox refresh", tag.PlayerID(p.ID))
}

func (s *SandboxGame) drawPhase() {
	if s.TurnCount == 1 {
		return
	}
	p := s.activePlayer()
	if len(p.Deck) > 0 {
		card := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, card)
		s.logger.Info("sandbox draw", tag.PlayerID(p.ID))
	}
}

func (s *SandboxGame) donPhase() {
	p := s.activePlayer()
	add := 2
	if s.TurnCount == 1 {
		add = 1
	}
	if room := sandboxDonLimit - p.DonTotal(); add > room {
		add = room
	}
	for i := 0; i < add; i++ {
		if len(p.DonDeck) == 0 {
			break
		}
		don := p.DonDeck[0]
		p.DonDeck = p.DonDeck[1:]
		don.IsRest = false
		p.DonActive = append(p.DonActive, don)
	}
}

// ManualDraw draws one card for the named player.
func (s *SandboxGame) ManualDraw(playerID string) error {
	p := s.playerByID(playerID)
	if p == nil {
		return NewRuleError(ErrCodeWrongPlayer, "不明なプレイヤーです: %v", playerID)
	}
	if len(p.Deck) > 0 {
		card := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, card)
	}
	return nil
}

// ToggleRest flips the rest state of a card or a don!!. Unattached don!!
// also switch between the active and rested piles so the counts stay true.
func (s *SandboxGame) ToggleRest(cardUUID string) error {
	for _, p := range []*Player{s.P1, s.P2} {
		if card := findSandboxCard(p, cardUUID); card != nil {
			card.IsRest = !card.IsRest
			s.logger.Info("sandbox rest toggled", tag.CardUUID(cardUUID))
			return nil
		}
		if don, pile := p.findDon(cardUUID); don != nil {
			don.IsRest = !don.IsRest
			if pile == &p.DonActive {
				removeDon(pile, don)
				p.DonRested = append(p.DonRested, don)
			} else if pile == &p.DonRested {
				removeDon(pile, don)
				p.DonActive = append(p.DonActive, don)
			}
			s.logger.Info("sandbox rest toggled", tag.CardUUID(cardUUID))
			return nil
		}
	}
	return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
}

// MoveCard moves any card to any zone of either player. index places the
// card inside ordered zones, -1 appends. Moving clears rest state and
// attached don!!; a stage moving onto an occupied stage slot trashes the
// old stage, and so does a leader replacing a leader.
func (s *SandboxGame) MoveCard(cardUUID string, destPlayerID string, destZone string, index int) error {
	dest := s.playerByID(destPlayerID)
	if dest == nil {
		return NewRuleError(ErrCodeWrongPlayer, "不明なプレイヤーです: %v", destPlayerID)
	}

	card, src := s.takeCard(cardUUID)
	if card == nil {
		return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
	}

	card.IsRest = false
	if card.AttachedDon > 0 {
		// Attached don!! go home rested, as when a unit leaves the field.
		var kept []*cards.DonInstance
		for _, don := range src.DonAttached {
			if don.AttachedTo == card.UUID {
				don.AttachedTo = ""
				don.IsRest = true
				src.DonRested = append(src.DonRested, don)
			} else {
				kept = append(kept, don)
			}
		}
		src.DonAttached = kept
		card.AttachedDon = 0
	}

	zone := strings.ToLower(strings.TrimSpace(destZone))
	switch zone {
	case "leader":
		if dest.Leader != nil && dest.Leader != card {
			dest.Trash = append(dest.Trash, dest.Leader)
		}
		dest.Leader = card
	case "stage":
		if dest.Stage != nil && dest.Stage != card {
			dest.Trash = append(dest.Trash, dest.Stage)
		}
		dest.Stage = card
	case "hand", "field", "trash", "life", "deck", "temp":
		list := dest.zoneList(cards.Zone(strings.ToUpper(zone)))
		if index < 0 || index >= len(*list) {
			*list = append(*list, card)
		} else {
			*list = append((*list)[:index], append([]*cards.CardInstance{card}, (*list)[index:]...)...)
		}
	default:
		// The card has already been taken out; put it back where a lost
		// card is at least visible.
		src.Trash = append(src.Trash, card)
		return NewRuleError(ErrCodeInvalidZone, "不明なゾーンです: %v", destZone)
	}

	s.logger.Info("sandbox card moved",
		tag.CardUUID(cardUUID), tag.PlayerID(destPlayerID), tag.Value(zone))
	return nil
}

// takeCard removes the card from wherever it currently is and returns it
// with its former owner. Leader and stage slots empty out when taken.
func (s *SandboxGame) takeCard(cardUUID string) (*cards.CardInstance, *Player) {
	for _, p := range []*Player{s.P1, s.P2} {
		if p.Leader != nil && p.Leader.UUID == cardUUID {
			card := p.Leader
			p.Leader = nil
			return card, p
		}
		if p.Stage != nil && p.Stage.UUID == cardUUID {
			card := p.Stage
			p.Stage = nil
			return card, p
		}
		for _, list := range []*[]*cards.CardInstance{&p.Hand, &p.Field, &p.Trash, &p.Life, &p.Deck, &p.Temp} {
			for _, c := range *list {
				if c.UUID == cardUUID {
					removeCard(list, c)
					return c, p
				}
			}
		}
	}
	return nil, nil
}

func findSandboxCard(p *Player, cardUUID string) *cards.CardInstance {
	if p.Leader != nil && p.Leader.UUID == cardUUID {
		return p.Leader
	}
	if p.Stage != nil && p.Stage.UUID == cardUUID {
		return p.Stage
	}
	for _, list := range [][]*cards.CardInstance{p.Hand, p.Field, p.Trash, p.Life, p.Deck, p.Temp} {
		for _, c := range list {
			if c.UUID == cardUUID {
				return c
			}
		}
	}
	return nil
}
