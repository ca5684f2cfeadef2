// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

// CardMaster is the immutable printed definition of a card. Instances on the
// board reference a shared master; nothing mutates it after loading.
type CardMaster struct {
	ID          string
	Name        string
	Type        CardType
	Color       Color
	Cost        int
	Power       int
	Counter     int
	Life        int
	Attribute   Attribute
	Traits      []string
	EffectText  string
	TriggerText string
	// Keywords lists the printed keyword abilities, e.g. ブロッカー.
	Keywords  []string
	Abilities []*Ability
}

// IsUnit reports whether the card fights on the board with a power value.
func (m *CardMaster) IsUnit() bool {
	return m.Type == CardTypeLeader || m.Type == CardTypeCharacter
}

// HasTrait reports whether the card carries the exact trait.
func (m *CardMaster) HasTrait(trait string) bool {
	for _, t := range m.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// AbilitiesFor returns the card's abilities with the given trigger timing.
func (m *CardMaster) AbilitiesFor(trigger TriggerType) []*Ability {
	var out []*Ability
	for _, a := range m.Abilities {
		if a.Trigger == trigger {
			out = append(out, a)
		}
	}
	return out
}
