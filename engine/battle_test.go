// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func declareAttack(t *testing.T, g *Game, attackerUUID string, targetUUID string) {
	t.Helper()
	require.NoError(t, act(g, g.TurnPlayer.ID, &data_models.PlayerAction{
		Type:         data_models.ActionTypeAttack,
		AttackerUUID: attackerUUID,
		TargetUUID:   targetUUID,
	}))
}

func TestAttackLeaderDealsLifeDamage(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A01", 3, 5000, 0))

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)

	assert.True(t, attacker.IsRest)
	// no blockers on board, straight to the counter step
	require.Equal(t, PhaseBattleCounter, g.Phase)
	pending := g.PendingRequest()
	require.NotNil(t, pending)
	assert.Equal(t, "p2", pending.PlayerID)
	assert.Equal(t, data_models.ActionTypeSelectCounter, pending.Action)
	assert.True(t, pending.CanSkip)

	lifeBefore := len(g.P2.Life)
	handBefore := len(g.P2.Hand)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	// the damaged life card goes to the hand
	assert.Len(t, g.P2.Life, lifeBefore-1)
	assert.Len(t, g.P2.Hand, handBefore+1)
	assert.Equal(t, PhaseMain, g.Phase)
	assert.Nil(t, g.Battle)
}

func TestAttackWeakerThanLeaderMisses(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A02", 2, 4000, 0))

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	lifeBefore := len(g.P2.Life)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	assert.Len(t, g.P2.Life, lifeBefore)
	assert.Equal(t, PhaseMain, g.Phase)
}

func TestBlockerIntercepts(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A03", 3, 5000, 0))

	blockerMaster := charMaster("TEST-B01", 2, 3000, 1000)
	blockerMaster.Keywords = []string{cards.KeywordBlocker}
	blocker := putOnField(g.P2, blockerMaster)

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)

	require.Equal(t, PhaseBlockStep, g.Phase)
	pending := g.PendingRequest()
	require.NotNil(t, pending)
	assert.Equal(t, "p2", pending.PlayerID)
	assert.Equal(t, data_models.ActionTypeSelectBlocker, pending.Action)
	assert.Contains(t, pending.SelectableUUIDs, blocker.UUID)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{
		Type:        data_models.ActionTypeBlock,
		BlockerUUID: blocker.UUID,
	}))
	assert.True(t, blocker.IsRest)
	assert.Equal(t, blocker, g.Battle.Target)

	lifeBefore := len(g.P2.Life)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	// the blocker ate the hit, the leader's life is untouched
	assert.Len(t, g.P2.Life, lifeBefore)
	assert.Contains(t, g.P2.Trash, blocker)
	assert.NotContains(t, g.P2.Field, blocker)
}

func TestBlockStepCanBeSkipped(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A04", 3, 5000, 0))

	blockerMaster := charMaster("TEST-B02", 2, 3000, 1000)
	blockerMaster.Keywords = []string{cards.KeywordBlocker}
	blocker := putOnField(g.P2, blockerMaster)

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	require.Equal(t, PhaseBlockStep, g.Phase)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))
	assert.Equal(t, PhaseBattleCounter, g.Phase)
	assert.Equal(t, g.P2.Leader, g.Battle.Target)
	assert.False(t, blocker.IsRest)
}

func TestCounterSavesTarget(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A05", 3, 5000, 0))
	target := putOnField(g.P2, charMaster("TEST-T01", 3, 4000, 1000))
	target.IsRest = true

	counterCard := putInHand(g.P2, charMaster("TEST-K01", 4, 5000, 2000))

	declareAttack(t, g, attacker.UUID, target.UUID)
	require.Equal(t, PhaseBattleCounter, g.Phase)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{
		Type:     data_models.ActionTypeCounter,
		CardUUID: counterCard.UUID,
	}))
	// more counters may follow until the defender passes
	assert.Equal(t, PhaseBattleCounter, g.Phase)
	assert.Equal(t, 2000, g.Battle.CounterBuff)
	assert.Contains(t, g.P2.Trash, counterCard)

	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	// 5000 vs 4000+2000: the attack fails
	assert.Contains(t, g.P2.Field, target)
	assert.Equal(t, PhaseMain, g.Phase)
	assert.Nil(t, g.Battle)
}

func TestAttackKOsRestedCharacter(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A06", 3, 5000, 0))
	target := putOnField(g.P2, charMaster("TEST-T02", 3, 5000, 1000))
	target.IsRest = true

	declareAttack(t, g, attacker.UUID, target.UUID)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	assert.Contains(t, g.P2.Trash, target)
	assert.NotContains(t, g.P2.Field, target)
}

func TestActiveCharacterCannotBeAttacked(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A07", 3, 5000, 0))
	target := putOnField(g.P2, charMaster("TEST-T03", 3, 4000, 1000))

	err := act(g, "p1", &data_models.PlayerAction{
		Type:         data_models.ActionTypeAttack,
		AttackerUUID: attacker.UUID,
		TargetUUID:   target.UUID,
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidTarget, ruleErr.Code)
	assert.False(t, attacker.IsRest)
}

func TestRestedAttackerCannotAttack(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A08", 3, 5000, 0))
	attacker.IsRest = true

	err := act(g, "p1", &data_models.PlayerAction{
		Type:         data_models.ActionTypeAttack,
		AttackerUUID: attacker.UUID,
		TargetUUID:   g.P2.Leader.UUID,
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeAttackNotAllowed, ruleErr.Code)
}

func TestAttackDisabledByEffect(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A09", 3, 5000, 0))
	attacker.SetFlag(cards.FlagAttackDisable)

	err := act(g, "p1", &data_models.PlayerAction{
		Type:         data_models.ActionTypeAttack,
		AttackerUUID: attacker.UUID,
		TargetUUID:   g.P2.Leader.UUID,
	})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeAttackNotAllowed, ruleErr.Code)
}

func TestDoubleAttackDealsTwoLife(t *testing.T) {
	g := newStartedGame(t)
	master := charMaster("TEST-A10", 5, 6000, 0)
	master.Keywords = []string{cards.KeywordDoubleAttack}
	attacker := putOnField(g.P1, master)

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	lifeBefore := len(g.P2.Life)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	assert.Len(t, g.P2.Life, lifeBefore-2)
}

func TestBanishSendsLifeToTrash(t *testing.T) {
	g := newStartedGame(t)
	master := charMaster("TEST-A11", 5, 6000, 0)
	master.Keywords = []string{cards.KeywordBanish}
	attacker := putOnField(g.P1, master)

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	lifeBefore := len(g.P2.Life)
	handBefore := len(g.P2.Hand)
	trashBefore := len(g.P2.Trash)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	assert.Len(t, g.P2.Life, lifeBefore-1)
	assert.Len(t, g.P2.Hand, handBefore)
	assert.Len(t, g.P2.Trash, trashBefore+1)
}

func TestLastLifeWinsGame(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A12", 3, 5000, 0))
	g.P2.Life = nil

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))

	assert.Equal(t, "p1", g.Winner)
	assert.True(t, g.Finished())
}

func TestOnAttackTriggerFires(t *testing.T) {
	g := newStartedGame(t)
	master := charMaster("TEST-A13", 3, 4000, 0)
	master.Abilities = []*cards.Ability{{
		Trigger: cards.TriggerOnAttack,
		Effect: &cards.GameAction{
			Type:   cards.ActionBuff,
			Target: &cards.TargetQuery{SelectMode: cards.SelectSource},
			Value:  cards.FixedValue(2000),
		},
	}}
	attacker := putOnField(g.P1, master)

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)
	assert.Equal(t, 6000, attacker.EffectivePower(true))

	lifeBefore := len(g.P2.Life)
	require.NoError(t, act(g, "p2", &data_models.PlayerAction{Type: data_models.ActionTypePass}))
	// the buffed 6000 beats the 5000 leader
	assert.Len(t, g.P2.Life, lifeBefore-1)
}

func TestWrongPlayerCannotAnswerCounterStep(t *testing.T) {
	g := newStartedGame(t)
	attacker := putOnField(g.P1, charMaster("TEST-A14", 3, 5000, 0))

	declareAttack(t, g, attacker.UUID, g.P2.Leader.UUID)

	err := act(g, "p1", &data_models.PlayerAction{Type: data_models.ActionTypePass})
	require.Error(t, err)
	ruleErr, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWrongPlayer, ruleErr.Code)
}
