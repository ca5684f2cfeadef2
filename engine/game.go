// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
)

// Battle is the attack currently being resolved. TargetOwner's board may
// redirect Target during the block step; CounterBuff accumulates counter
// power played during the counter step.
type Battle struct {
	Attacker      *cards.CardInstance
	Target        *cards.CardInstance
	AttackerOwner *Player
	TargetOwner   *Player
	CounterBuff   int
}

// Game runs one match of the standard rules. All methods must be called
// under the owning session's lock; the struct itself is not goroutine safe.
type Game struct {
	ID string

	P1 *Player
	P2 *Player

	TurnPlayer *Player
	OppPlayer  *Player
	TurnCount  int
	Phase      Phase

	// Winner holds the winning player's id once the game is decided.
	Winner string

	Battle      *Battle
	Interaction *Interaction

	// setupPending is set when a game-start leader ability suspended
	// before life and opening hands were dealt.
	setupPending bool

	rng    *GameRand
	logger log.Logger
}

// NewGame wires two players into a fresh game in the setup phase. Call
// Start to shuffle, deal and enter turn one.
func NewGame(id string, p1 *Player, p2 *Player, rng *GameRand, logger log.Logger) *Game {
	return &Game{
		ID:         id,
		P1:         p1,
		P2:         p2,
		TurnPlayer: p1,
		OppPlayer:  p2,
		Phase:      PhaseSetup,
		rng:        rng,
		logger:     logger.WithTags(tag.GameID(id)),
	}
}

// Seed exposes the master seed the game was created with.
func (g *Game) Seed() int64 {
	return g.rng.MasterSeed()
}

// Finished reports whether a winner has been decided.
func (g *Game) Finished() bool {
	return g.Winner != ""
}

// Start shuffles both decks, resolves game-start leader abilities and deals
// the opening board. firstPlayerID picks who goes first; empty defaults to
// p1. A game-start ability that needs a selection leaves the game waiting
// on that interaction; setup finishes when it resolves.
func (g *Game) Start(firstPlayerID string) {
	g.logger.Info("game starting", tag.Seed(g.rng.MasterSeed()))

	g.shuffleDeck(g.P1)
	g.shuffleDeck(g.P2)

	g.setFirstPlayer(firstPlayerID)

	for _, p := range []*Player{g.P1, g.P2} {
		if p.Leader == nil {
			continue
		}
		for _, ability := range p.Leader.Master.AbilitiesFor(cards.TriggerGameStart) {
			g.logger.Info("resolving game start ability",
				tag.PlayerID(p.ID), tag.CardID(p.Leader.Master.ID))
			g.resolveAbility(p, ability, p.Leader)
			if g.Interaction != nil {
				g.setupPending = true
				return
			}
		}
	}

	g.finishSetup()
	g.logger.Info("first player decided", tag.PlayerID(g.TurnPlayer.ID))
	g.TurnCount = 1
	g.refreshPhase()
}

func (g *Game) setFirstPlayer(firstPlayerID string) {
	if firstPlayerID == g.P2.ID {
		g.TurnPlayer, g.OppPlayer = g.P2, g.P1
		return
	}
	g.TurnPlayer, g.OppPlayer = g.P1, g.P2
}

// finishSetup deals life and opening hands for both players.
func (g *Game) finishSetup() {
	g.logger.Info("dealing life and opening hands")
	g.P1.PlaceLife()
	g.P1.DrawInitialHand()
	g.P2.PlaceLife()
	g.P2.DrawInitialHand()
}

func (g *Game) shuffleDeck(p *Player) {
	deck := p.Deck
	g.rng.Shuffle("deck."+p.ID, len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// EndTurn finishes the turn player's main phase, fires turn-end abilities
// and hands the turn over.
func (g *Game) EndTurn() error {
	if err := g.validateAction(g.TurnPlayer, ActionClassMain); err != nil {
		return err
	}
	g.Phase = PhaseEnd
	g.logger.Info("turn ending", tag.Turn(g.TurnCount), tag.PlayerID(g.TurnPlayer.ID))
	for _, card := range g.TurnPlayer.AllUnits() {
		for _, ability := range card.Master.AbilitiesFor(cards.TriggerTurnEnd) {
			g.resolveAbility(g.TurnPlayer, ability, card)
		}
	}
	g.switchTurn()
	return nil
}

func (g *Game) switchTurn() {
	g.TurnPlayer, g.OppPlayer = g.OppPlayer, g.TurnPlayer
	g.TurnCount++
	g.logger.Info("turn switched", tag.Turn(g.TurnCount), tag.PlayerID(g.TurnPlayer.ID))
	g.refreshPhase()
}

// refreshPhase clears the opponent's turn modifiers, refreshes the turn
// player's board and don!!, then rolls into draw and don phases.
func (g *Game) refreshPhase() {
	g.Phase = PhaseRefresh
	for _, card := range g.OppPlayer.AllUnits() {
		card.ResetTurnStatus()
	}
	g.refreshAll(g.TurnPlayer)
	g.drawPhase()
}

func (g *Game) refreshAll(p *Player) {
	for _, card := range p.AllUnits() {
		frozen := card.HasFlag(cards.FlagFreeze)
		card.ResetTurnStatus()
		if !frozen {
			card.IsRest = false
		}
	}

	for _, don := range p.DonRested {
		don.IsRest = false
		p.DonActive = append(p.DonActive, don)
	}
	p.DonRested = nil

	for _, don := range p.DonAttached {
		don.IsRest = false
		don.AttachedTo = ""
		p.DonActive = append(p.DonActive, don)
	}
	p.DonAttached = nil
}

func (g *Game) drawPhase() {
	g.Phase = PhaseDraw
	if g.TurnCount > 1 {
		g.DrawCard(g.TurnPlayer, 1)
	}
	g.donPhase()
}

func (g *Game) donPhase() {
	g.Phase = PhaseDon
	count := 2
	if g.TurnCount == 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if len(g.TurnPlayer.DonDeck) == 0 {
			break
		}
		don := g.TurnPlayer.DonDeck[0]
		g.TurnPlayer.DonDeck = g.TurnPlayer.DonDeck[1:]
		g.TurnPlayer.DonActive = append(g.TurnPlayer.DonActive, don)
	}
	g.mainPhase()
}

func (g *Game) mainPhase() {
	g.Phase = PhaseMain
	g.applyPassiveEffects(g.TurnPlayer)
}

// applyPassiveEffects recomputes continuous modifiers for the player's
// board: cost and base-power modifiers reset first, then every your-turn
// ability reapplies on top.
func (g *Game) applyPassiveEffects(p *Player) {
	affected := append([]*cards.CardInstance{}, p.AllUnits()...)
	affected = append(affected, p.Hand...)
	for _, c := range affected {
		c.CostBuff = 0
		c.BasePowerOverride = nil
	}

	for _, card := range p.AllUnits() {
		for _, ability := range card.Master.AbilitiesFor(cards.TriggerYourTurn) {
			g.logger.Debug("applying passive ability",
				tag.PlayerID(p.ID), tag.CardID(card.Master.ID))
			g.resolveAbility(p, ability, card)
		}
	}
}

// DrawCard moves count cards from deck to hand and checks the deck-out
// victory condition.
func (g *Game) DrawCard(p *Player, count int) {
	for i := 0; i < count; i++ {
		if len(p.Deck) == 0 {
			break
		}
		card := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, card)
		g.logger.Info("card drawn", tag.PlayerID(p.ID))
	}
	if len(p.Deck) == 0 && g.Winner == "" {
		g.checkVictory()
	}
}

// checkVictory awards the game to the opponent of whoever decked out.
func (g *Game) checkVictory() {
	if len(g.P1.Deck) == 0 {
		g.setWinner(g.P2)
	} else if len(g.P2.Deck) == 0 {
		g.setWinner(g.P1)
	}
}

func (g *Game) setWinner(p *Player) {
	if g.Winner != "" {
		return
	}
	g.Winner = p.ID
	g.logger.Info("game decided", tag.PlayerID(p.ID))
}

// PlayerByID resolves "p1"/"p2" to the player, nil when unknown.
func (g *Game) PlayerByID(id string) *Player {
	switch id {
	case g.P1.ID:
		return g.P1
	case g.P2.ID:
		return g.P2
	}
	return nil
}

func (g *Game) otherPlayer(p *Player) *Player {
	if p == g.P1 {
		return g.P2
	}
	return g.P1
}

// FindCardByUUID searches every zone of both players.
func (g *Game) FindCardByUUID(uuid string) *cards.CardInstance {
	for _, p := range []*Player{g.P1, g.P2} {
		if p.Leader != nil && p.Leader.UUID == uuid {
			return p.Leader
		}
		if p.Stage != nil && p.Stage.UUID == uuid {
			return p.Stage
		}
		for _, zone := range [][]*cards.CardInstance{p.Hand, p.Field, p.Trash, p.Life, p.Deck, p.Temp} {
			for _, c := range zone {
				if c.UUID == uuid {
					return c
				}
			}
		}
	}
	return nil
}

// findCardLocation returns the owning player and the zone slice holding the
// card. Leader and stage return a nil slice pointer.
func (g *Game) findCardLocation(card *cards.CardInstance) (*Player, *[]*cards.CardInstance) {
	for _, p := range []*Player{g.P1, g.P2} {
		if p.Leader == card || p.Stage == card {
			return p, nil
		}
		for _, zone := range []*[]*cards.CardInstance{&p.Hand, &p.Field, &p.Life, &p.Trash, &p.Deck, &p.Temp} {
			for _, c := range *zone {
				if c == card {
					return p, zone
				}
			}
		}
	}
	return nil, nil
}

// MoveCard relocates a card between zones, applying the detach and reset
// rules that come with leaving or entering particular zones. destPosition
// PositionTop inserts at the front of ordered zones.
func (g *Game) MoveCard(card *cards.CardInstance, destZone cards.Zone, destPlayer *Player, destPosition string) {
	owner, sourceList := g.findCardLocation(card)

	if destZone == cards.ZoneTrash || destZone == cards.ZoneHand {
		card.ResetTurnStatus()
	}

	// Leaving the field returns attached don!! to the owner rested.
	if owner != nil && sourceList == &owner.Field {
		var kept []*cards.DonInstance
		for _, don := range owner.DonAttached {
			if don.AttachedTo == card.UUID {
				don.AttachedTo = ""
				don.IsRest = true
				owner.DonRested = append(owner.DonRested, don)
			} else {
				kept = append(kept, don)
			}
		}
		owner.DonAttached = kept
		card.AttachedDon = 0
	}

	if sourceList != nil {
		removeCard(sourceList, card)
	} else if owner != nil && owner.Stage == card {
		owner.Stage = nil
	}

	if destZone == cards.ZoneField && card.Master.Type == cards.CardTypeStage {
		if destPlayer.Stage != nil {
			g.MoveCard(destPlayer.Stage, cards.ZoneTrash, destPlayer, cards.PositionBottom)
		}
		destPlayer.Stage = card
		return
	}

	targetList := destPlayer.zoneList(destZone)
	if targetList == nil {
		return
	}
	if destPosition == cards.PositionTop {
		*targetList = append([]*cards.CardInstance{card}, *targetList...)
	} else {
		*targetList = append(*targetList, card)
	}
}

// PayCost rests don!! to cover cost. donUUIDs names the exact don!! to pay
// with, drawn from the active or attached piles; empty pays with the first
// active don!!.
func (g *Game) PayCost(p *Player, cost int, donUUIDs []string) error {
	if len(donUUIDs) > 0 {
		if len(donUUIDs) < cost {
			return NewRuleError(ErrCodeInsufficientDon, "指定されたドン!!の数が不足しています。")
		}
		for _, id := range donUUIDs {
			don, pile := p.findDon(id)
			if don == nil || pile == &p.DonRested {
				continue
			}
			removeDon(pile, don)
			don.IsRest = true
			don.AttachedTo = ""
			p.DonRested = append(p.DonRested, don)
		}
		return nil
	}

	if len(p.DonActive) < cost {
		return NewRuleError(ErrCodeInsufficientDon, "ドン!!が不足しています。")
	}
	for i := 0; i < cost; i++ {
		don := p.DonActive[0]
		p.DonActive = p.DonActive[1:]
		don.IsRest = true
		p.DonRested = append(p.DonRested, don)
	}
	return nil
}

// PlayCard plays a card from hand during the main phase. Events resolve
// their on-play and main abilities then go to the trash; everything else
// enters play. Cost payment happens before this in the action layer.
func (g *Game) PlayCard(p *Player, card *cards.CardInstance) error {
	if !containsCard(p.Hand, card) {
		return NewRuleError(ErrCodeCardNotFound, "手札にないカードはプレイできません。")
	}
	if err := g.validateAction(p, ActionClassMain); err != nil {
		return err
	}
	g.logger.Info("card played",
		tag.PlayerID(p.ID), tag.CardID(card.Master.ID), tag.CardUUID(card.UUID))

	if card.Master.Type == cards.CardTypeEvent {
		for _, ability := range card.Master.Abilities {
			if ability.Trigger == cards.TriggerOnPlay || ability.Trigger == cards.TriggerActivateMain {
				g.resolveAbility(p, ability, card)
			}
		}
		g.MoveCard(card, cards.ZoneTrash, p, cards.PositionBottom)
		return nil
	}

	g.MoveCard(card, cards.ZoneField, p, cards.PositionBottom)
	card.AttachedDon = 0
	card.IsNewlyPlayed = true
	card.IsFaceUp = true
	if !card.AbilityDisabled {
		for _, ability := range card.Master.AbilitiesFor(cards.TriggerOnPlay) {
			g.resolveAbility(p, ability, card)
		}
	}
	g.applyPassiveEffects(p)
	return nil
}

// AttachDon gives one active don!! to a leader or character for +1000 power
// on the owner's turns.
func (g *Game) AttachDon(p *Player, donUUID string, cardUUID string) error {
	if err := g.validateAction(p, ActionClassMain); err != nil {
		return err
	}
	card := g.FindCardByUUID(cardUUID)
	if card == nil {
		return NewRuleError(ErrCodeCardNotFound, "対象のカードが見つかりません。")
	}
	owner, list := g.findCardLocation(card)
	onBoard := owner == p && (card == p.Leader || (list != nil && list == &p.Field))
	if !onBoard || !card.Master.IsUnit() {
		return NewRuleError(ErrCodeInvalidTarget, "ドン!!はリーダーか自分のキャラにのみ付与できます。")
	}

	don, pile := p.findDon(donUUID)
	if don == nil || pile != &p.DonActive {
		return NewRuleError(ErrCodeInsufficientDon, "アクティブなドン!!を指定してください。")
	}
	removeDon(pile, don)
	don.AttachedTo = card.UUID
	p.DonAttached = append(p.DonAttached, don)
	card.AttachedDon++
	g.logger.Info("don attached",
		tag.PlayerID(p.ID), tag.CardUUID(card.UUID))
	return nil
}

// ActivateAbility fires an activate-main ability by index on a card the
// player controls. Abilities are once per turn; the cost node resolves
// before the effect.
func (g *Game) ActivateAbility(p *Player, card *cards.CardInstance, abilityIndex int) error {
	if err := g.validateAction(p, ActionClassMain); err != nil {
		return err
	}
	owner, list := g.findCardLocation(card)
	controlled := owner == p &&
		(card == p.Leader || card == p.Stage || (list != nil && list == &p.Field))
	if !controlled {
		return NewRuleError(ErrCodeInvalidTarget, "自分の場のカードのみ起動できます。")
	}
	if abilityIndex < 0 || abilityIndex >= len(card.Master.Abilities) {
		return NewRuleError(ErrCodeAbilityNotUsable, "指定された能力が存在しません。")
	}
	ability := card.Master.Abilities[abilityIndex]
	if ability.Trigger != cards.TriggerActivateMain {
		return NewRuleError(ErrCodeAbilityNotUsable, "起動メイン能力ではありません。")
	}
	if card.Negated || card.AbilityDisabled {
		return NewRuleError(ErrCodeAbilityNotUsable, "このカードの能力は無効化されています。")
	}
	if card.AbilityUsedThisTurn[abilityIndex] > 0 {
		return NewRuleError(ErrCodeAbilityNotUsable, "この能力は1ターンに1度しか使用できません。")
	}
	card.AbilityUsedThisTurn[abilityIndex]++
	g.logger.Info("ability activated",
		tag.PlayerID(p.ID), tag.CardID(card.Master.ID), tag.CardUUID(card.UUID))
	g.resolveAbility(p, ability, card)
	return nil
}

// resolveAbility runs one ability through the effect resolver unless the
// source card's abilities are switched off.
func (g *Game) resolveAbility(p *Player, ability *cards.Ability, source *cards.CardInstance) {
	if source.Negated || source.AbilityDisabled {
		return
	}
	newEffectResolver(g).resolveAbility(p, ability, source)
}

// Concede ends the game in the opponent's favor.
func (g *Game) Concede(p *Player) {
	g.setWinner(g.otherPlayer(p))
}

func containsCard(list []*cards.CardInstance, card *cards.CardInstance) bool {
	for _, c := range list {
		if c == card {
			return true
		}
	}
	return false
}
