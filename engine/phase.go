// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

// Phase is the position inside a turn. The string values are what the state
// view serializes into turn_info.current_phase.
type Phase string

const (
	PhaseSetup         Phase = "SETUP"
	PhaseRefresh       Phase = "REFRESH"
	PhaseDraw          Phase = "DRAW"
	PhaseDon           Phase = "DON"
	PhaseMain          Phase = "MAIN"
	PhaseBlockStep     Phase = "BLOCK_STEP"
	PhaseBattleCounter Phase = "BATTLE_COUNTER"
	PhaseEnd           Phase = "END"
	// PhaseSandbox is the only phase a sandbox session ever reports.
	PhaseSandbox Phase = "SANDBOX"
)

// Messages shown with pending requests. The client displays them verbatim.
const (
	msgMainAction    = "アクションを選択してください"
	msgSelectBlocker = "ブロッカーを選択してください"
	msgSelectCounter = "カウンターを選択してください"
	msgSelectTarget  = "対象を選択してください"
	msgDefaultChoice = "選択してください"
)
