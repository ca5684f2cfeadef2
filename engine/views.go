// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// Viewer is the perspective a state view is rendered for. The driving
// client created the game and sees both hands; a seat viewer sees their own
// hand; spectators see only public zones. Hidden cards serialize masked,
// with just their uuid and owner.
type Viewer struct {
	// PlayerID is the seat this viewer owns, empty for none.
	PlayerID string
	// Omniscient reveals both hands and all effect candidates.
	Omniscient bool
}

// BuildStateView renders the game for one viewer.
func BuildStateView(g *Game, viewer Viewer) *data_models.GameStateView {
	var winner *string
	if g.Winner != "" {
		w := g.Winner
		winner = &w
	}

	var battle *data_models.BattleView
	if g.Battle != nil {
		battle = &data_models.BattleView{
			AttackerUUID: g.Battle.Attacker.UUID,
			TargetUUID:   g.Battle.Target.UUID,
			CounterBuff:  g.Battle.CounterBuff,
		}
	}

	return &data_models.GameStateView{
		GameID: g.ID,
		Mode:   data_models.GameModeStandard,
		TurnInfo: data_models.TurnInfoView{
			TurnCount:      g.TurnCount,
			CurrentPhase:   string(g.Phase),
			ActivePlayerID: g.TurnPlayer.ID,
			Winner:         winner,
			PendingRequest: pendingRequestView(g.PendingRequest(), viewer),
		},
		Players: map[string]data_models.PlayerView{
			g.P1.ID: playerView(g.P1, viewer, false),
			g.P2.ID: playerView(g.P2, viewer, false),
		},
		ActiveBattle: battle,
	}
}

// BuildSandboxStateView renders a sandbox game. Sandbox hides nothing: both
// hands and both decks are fully visible to every viewer.
func BuildSandboxStateView(s *SandboxGame) *data_models.GameStateView {
	omniscient := Viewer{Omniscient: true}
	return &data_models.GameStateView{
		GameID: s.ID,
		Mode:   data_models.GameModeSandbox,
		TurnInfo: data_models.TurnInfoView{
			TurnCount:      s.TurnCount,
			CurrentPhase:   string(PhaseSandbox),
			ActivePlayerID: s.ActivePlayerID,
			Winner:         nil,
			PendingRequest: nil,
		},
		Players: map[string]data_models.PlayerView{
			s.P1.ID: playerView(s.P1, omniscient, true),
			s.P2.ID: playerView(s.P2, omniscient, true),
		},
		ActiveBattle: nil,
	}
}

func playerView(p *Player, viewer Viewer, withDeck bool) data_models.PlayerView {
	handVisible := viewer.Omniscient || viewer.PlayerID == p.ID

	var leader *data_models.CardView
	if p.Leader != nil {
		v := cardView(p.Leader, true)
		leader = &v
	}
	var stage *data_models.CardView
	if p.Stage != nil {
		v := cardView(p.Stage, true)
		stage = &v
	}

	zones := data_models.ZonesView{
		Field: cardViews(p.Field, true),
		Hand:  handViews(p.Hand, handVisible),
		Life:  maskedViews(p.Life),
		Trash: cardViews(p.Trash, true),
		Stage: stage,
	}
	if withDeck {
		zones.Deck = maskedViews(p.Deck)
	}

	return data_models.PlayerView{
		PlayerID:     p.ID,
		Name:         p.Name,
		LifeCount:    len(p.Life),
		HandCount:    len(p.Hand),
		DonDeckCount: len(p.DonDeck),
		DonActive:    donViews(p.DonActive),
		DonRested:    donViews(p.DonRested),
		Leader:       leader,
		Stage:        stage,
		Zones:        zones,
	}
}

func pendingRequestView(req *PendingRequest, viewer Viewer) *data_models.PendingRequestView {
	if req == nil {
		return nil
	}
	view := &data_models.PendingRequestView{
		PlayerID:        req.PlayerID,
		Action:          string(req.Action),
		Message:         req.Message,
		SelectableUUIDs: req.SelectableUUIDs,
		CanSkip:         req.CanSkip,
		Options:         req.Options,
		RequestID:       req.RequestID,
	}
	// Candidate cards may come from hidden zones; only the player being
	// asked gets to see them.
	if viewer.Omniscient || viewer.PlayerID == req.PlayerID {
		view.Candidates = cardViews(req.Candidates, true)
	}
	return view
}

// cardView serializes one card. A card that is neither face up on the board
// nor revealed by the zone it sits in serializes masked: uuid and owner
// only, so hidden information never crosses the wire.
func cardView(c *cards.CardInstance, faceUp bool) data_models.CardView {
	if !faceUp && !c.IsFaceUp {
		return data_models.CardView{
			UUID:    c.UUID,
			OwnerID: c.OwnerID,
		}
	}
	return data_models.CardView{
		UUID:        c.UUID,
		CardID:      c.Master.ID,
		Name:        c.Master.Name,
		Power:       c.EffectivePower(true),
		Counter:     c.Master.Counter,
		Attribute:   string(c.Master.Attribute),
		Cost:        c.CurrentCost(),
		Traits:      c.Master.Traits,
		Text:        c.Master.EffectText,
		Type:        string(c.Master.Type),
		IsRest:      c.IsRest,
		IsFaceUp:    true,
		AttachedDon: c.AttachedDon,
		OwnerID:     c.OwnerID,
		Keywords:    c.CurrentKeywords,
	}
}

func cardViews(list []*cards.CardInstance, faceUp bool) []data_models.CardView {
	views := make([]data_models.CardView, 0, len(list))
	for _, c := range list {
		views = append(views, cardView(c, faceUp))
	}
	return views
}

func handViews(hand []*cards.CardInstance, visible bool) []data_models.CardView {
	if visible {
		return cardViews(hand, true)
	}
	return maskedViews(hand)
}

func maskedViews(list []*cards.CardInstance) []data_models.CardView {
	views := make([]data_models.CardView, 0, len(list))
	for _, c := range list {
		views = append(views, data_models.CardView{
			UUID:    c.UUID,
			OwnerID: c.OwnerID,
		})
	}
	return views
}

func donViews(list []*cards.DonInstance) []data_models.DonView {
	views := make([]data_models.DonView, 0, len(list))
	for _, d := range list {
		view := data_models.DonView{
			UUID:    d.UUID,
			OwnerID: d.OwnerID,
			IsRest:  d.IsRest,
		}
		if d.AttachedTo != "" {
			attached := d.AttachedTo
			view.AttachedTo = &attached
		}
		views = append(views, view)
	}
	return views
}
