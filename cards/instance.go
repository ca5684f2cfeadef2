// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

import (
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
)

// CardInstance is one physical copy of a card inside a game. All mutable
// per-game state lives here; the printed definition stays on Master.
type CardInstance struct {
	Master  *CardMaster
	OwnerID string
	UUID    string

	IsRest        bool
	IsNewlyPlayed bool
	IsFaceUp      bool
	AttachedDon   int

	PowerBuff         int
	CostBuff          int
	BasePowerOverride *int

	// Flags are status markers set by effects, keyed by the action type
	// that set them (FREEZE, ATTACK_DISABLE, ...).
	Flags map[string]bool
	// Negated suppresses the card's abilities until it leaves the board.
	Negated         bool
	AbilityDisabled bool
	// AbilityUsedThisTurn counts activations per ability index, for
	// once-per-turn limits.
	AbilityUsedThisTurn map[int]int

	// CurrentKeywords is the effective keyword set: printed keywords plus
	// granted ones, empty while abilities are disabled.
	CurrentKeywords []string
	granted         []string
}

// NewCardInstance creates a fresh face-down instance owned by ownerID.
func NewCardInstance(master *CardMaster, ownerID string) *CardInstance {
	c := &CardInstance{
		Master:              master,
		OwnerID:             ownerID,
		UUID:                uuid.New(),
		Flags:               map[string]bool{},
		AbilityUsedThisTurn: map[int]int{},
	}
	c.RefreshKeywords()
	return c
}

// RefreshKeywords recomputes CurrentKeywords from the printed set and any
// granted keywords. A card with negated or disabled abilities has no
// keywords at all.
func (c *CardInstance) RefreshKeywords() {
	if c.AbilityDisabled || c.Negated {
		c.CurrentKeywords = nil
		return
	}
	keywords := make([]string, 0, len(c.Master.Keywords)+len(c.granted))
	keywords = append(keywords, c.Master.Keywords...)
	for _, kw := range c.granted {
		if !contains(keywords, kw) {
			keywords = append(keywords, kw)
		}
	}
	c.CurrentKeywords = keywords
}

// GrantKeyword adds a keyword until the next turn status reset.
func (c *CardInstance) GrantKeyword(keyword string) {
	if !contains(c.granted, keyword) {
		c.granted = append(c.granted, keyword)
	}
	c.RefreshKeywords()
}

// GrantedKeywords returns the keywords added by effects this turn.
func (c *CardInstance) GrantedKeywords() []string {
	return c.granted
}

// RestoreGrantedKeywords reinstates granted keywords from a snapshot.
func (c *CardInstance) RestoreGrantedKeywords(granted []string) {
	c.granted = granted
	c.RefreshKeywords()
}

// HasKeyword reports whether the keyword is currently effective.
func (c *CardInstance) HasKeyword(keyword string) bool {
	return contains(c.CurrentKeywords, keyword)
}

// EffectivePower is the card's power in a battle. Only leaders and
// characters have power; attached don!! count 1000 each, but only on the
// owner's own turn.
func (c *CardInstance) EffectivePower(isMyTurn bool) int {
	if !c.Master.IsUnit() {
		return 0
	}
	base := c.Master.Power
	if c.BasePowerOverride != nil {
		base = *c.BasePowerOverride
	}
	power := base + c.PowerBuff
	if isMyTurn {
		power += c.AttachedDon * 1000
	}
	return power
}

// CurrentCost is the printed cost adjusted by cost modifiers, never below 0.
func (c *CardInstance) CurrentCost() int {
	cost := c.Master.Cost + c.CostBuff
	if cost < 0 {
		return 0
	}
	return cost
}

// ResetTurnStatus clears every until-end-of-turn modifier: buffs, flags,
// negation, per-turn ability usage, granted keywords and attached don!!.
// Rest state and face orientation are not touched.
func (c *CardInstance) ResetTurnStatus() {
	c.PowerBuff = 0
	c.CostBuff = 0
	c.BasePowerOverride = nil
	c.Flags = map[string]bool{}
	c.Negated = false
	c.AbilityDisabled = false
	c.AbilityUsedThisTurn = map[int]int{}
	c.AttachedDon = 0
	c.IsNewlyPlayed = false
	c.granted = nil
	c.RefreshKeywords()
}

// HasFlag reports whether a status flag is set.
func (c *CardInstance) HasFlag(flag string) bool {
	return c.Flags[flag]
}

// SetFlag marks a status flag.
func (c *CardInstance) SetFlag(flag string) {
	if c.Flags == nil {
		c.Flags = map[string]bool{}
	}
	c.Flags[flag] = true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// DonInstance is one don!! card. Don!! have no master data; they are
// interchangeable cost tokens that can be active, rested or attached to a
// unit for +1000 power.
type DonInstance struct {
	OwnerID string
	UUID    string
	IsRest  bool
	// AttachedTo holds the UUID of the unit this don!! is given to,
	// empty when not attached.
	AttachedTo string
}

// NewDonInstance creates an active, unattached don!! owned by ownerID.
func NewDonInstance(ownerID string) *DonInstance {
	return &DonInstance{
		OwnerID: ownerID,
		UUID:    uuid.New(),
	}
}
