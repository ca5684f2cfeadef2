// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func characterMaster() *CardMaster {
	return &CardMaster{
		ID:       "TEST-001",
		Name:     "テストキャラ",
		Type:     CardTypeCharacter,
		Color:    ColorBlack,
		Cost:     3,
		Power:    5000,
		Counter:  1000,
		Traits:   []string{"五老星"},
		Keywords: []string{KeywordBlocker},
	}
}

func TestEffectivePower(t *testing.T) {
	c := NewCardInstance(characterMaster(), "p1")

	assert.Equal(t, 5000, c.EffectivePower(true))
	assert.Equal(t, 5000, c.EffectivePower(false))

	c.PowerBuff = 1000
	assert.Equal(t, 6000, c.EffectivePower(true))

	c.AttachedDon = 2
	assert.Equal(t, 8000, c.EffectivePower(true))
	// don bonus only applies on the owner's own turn
	assert.Equal(t, 6000, c.EffectivePower(false))

	override := 2000
	c.BasePowerOverride = &override
	assert.Equal(t, 5000, c.EffectivePower(true))

	event := NewCardInstance(&CardMaster{ID: "TEST-E", Type: CardTypeEvent, Power: 9999}, "p1")
	assert.Equal(t, 0, event.EffectivePower(true))
}

func TestCurrentCost(t *testing.T) {
	c := NewCardInstance(characterMaster(), "p1")
	assert.Equal(t, 3, c.CurrentCost())

	c.CostBuff = -1
	assert.Equal(t, 2, c.CurrentCost())

	c.CostBuff = -10
	assert.Equal(t, 0, c.CurrentCost())
}

func TestKeywords(t *testing.T) {
	c := NewCardInstance(characterMaster(), "p1")
	assert.True(t, c.HasKeyword(KeywordBlocker))
	assert.False(t, c.HasKeyword(KeywordRush))

	c.GrantKeyword(KeywordRush)
	assert.True(t, c.HasKeyword(KeywordRush))

	c.AbilityDisabled = true
	c.RefreshKeywords()
	assert.False(t, c.HasKeyword(KeywordBlocker))
	assert.False(t, c.HasKeyword(KeywordRush))

	c.AbilityDisabled = false
	c.RefreshKeywords()
	assert.True(t, c.HasKeyword(KeywordBlocker))
	assert.True(t, c.HasKeyword(KeywordRush))
}

func TestResetTurnStatus(t *testing.T) {
	c := NewCardInstance(characterMaster(), "p1")
	c.IsRest = true
	c.IsNewlyPlayed = true
	c.AttachedDon = 2
	c.PowerBuff = 2000
	c.CostBuff = -1
	override := 0
	c.BasePowerOverride = &override
	c.SetFlag(FlagFreeze)
	c.Negated = true
	c.AbilityDisabled = true
	c.AbilityUsedThisTurn[0] = 1
	c.GrantKeyword(KeywordRush)

	c.ResetTurnStatus()

	assert.Equal(t, 0, c.PowerBuff)
	assert.Equal(t, 0, c.CostBuff)
	assert.Nil(t, c.BasePowerOverride)
	assert.Equal(t, 0, c.AttachedDon)
	assert.False(t, c.IsNewlyPlayed)
	assert.False(t, c.HasFlag(FlagFreeze))
	assert.False(t, c.Negated)
	assert.False(t, c.AbilityDisabled)
	assert.Empty(t, c.AbilityUsedThisTurn)
	assert.False(t, c.HasKeyword(KeywordRush))
	assert.True(t, c.HasKeyword(KeywordBlocker))
	// rest state survives turn resets; refresh handles it separately
	assert.True(t, c.IsRest)
}
