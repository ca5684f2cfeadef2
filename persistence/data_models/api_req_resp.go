// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

// PlayerActionType is the "type" discriminator of a submitted action. The
// same family names the action a pending request expects, so validation is a
// straight comparison.
type PlayerActionType string

const (
	// Standard game actions.
	ActionTypeMainAction             PlayerActionType = "MAIN_ACTION"
	ActionTypePlayCard               PlayerActionType = "PLAY_CARD"
	ActionTypeAttack                 PlayerActionType = "ATTACK"
	ActionTypeBlock                  PlayerActionType = "BLOCK"
	ActionTypeCounter                PlayerActionType = "COUNTER"
	ActionTypePass                   PlayerActionType = "PASS"
	ActionTypeActivateAbility        PlayerActionType = "ACTIVATE_ABILITY"
	ActionTypeAttachDon              PlayerActionType = "ATTACH_DON"
	ActionTypeEndTurn                PlayerActionType = "END_TURN"
	ActionTypeResolveEffectSelection PlayerActionType = "RESOLVE_EFFECT_SELECTION"
	ActionTypeConcede                PlayerActionType = "CONCEDE"

	// Pending request kinds with no matching submit type.
	ActionTypeSelectBlocker   PlayerActionType = "SELECT_BLOCKER"
	ActionTypeSelectCounter   PlayerActionType = "SELECT_COUNTER"
	ActionTypeSearchAndSelect PlayerActionType = "SEARCH_AND_SELECT"
	ActionTypeChoice          PlayerActionType = "CHOICE"

	// Sandbox-only actions.
	ActionTypeMoveCard   PlayerActionType = "MOVE_CARD"
	ActionTypeToggleRest PlayerActionType = "TOGGLE_REST"
	ActionTypeDraw       PlayerActionType = "DRAW"
	ActionTypeTurnEnd    PlayerActionType = "TURN_END"
)

// PlayerAction is the body of one submitted action. Which fields matter
// depends on Type; unknown fields are ignored.
type PlayerAction struct {
	Type PlayerActionType `json:"type"`

	CardUUID     string   `json:"card_uuid,omitempty"`
	DonUUIDs     []string `json:"don_uuids,omitempty"`
	AttackerUUID string   `json:"attacker_uuid,omitempty"`
	TargetUUID   string   `json:"target_uuid,omitempty"`
	BlockerUUID  string   `json:"blocker_uuid,omitempty"`
	AbilityIndex *int     `json:"ability_index,omitempty"`
	DonUUID      string   `json:"don_uuid,omitempty"`

	// Sandbox move fields.
	PlayerID     string `json:"player_id,omitempty"`
	DestPlayerID string `json:"dest_player_id,omitempty"`
	DestZone     string `json:"dest_zone,omitempty"`
	Index        *int   `json:"index,omitempty"`

	// Interaction resolution fields.
	SelectedUUIDs       []string `json:"selected_uuids,omitempty"`
	SelectedOptionIndex *int     `json:"selected_option_index,omitempty"`
	Skip                bool     `json:"skip,omitempty"`
}

type CreateGameRequest struct {
	Player1Name string `json:"player1Name,omitempty"`
	Player2Name string `json:"player2Name,omitempty"`
	Deck1       string `json:"deck1,omitempty"`
	Deck2       string `json:"deck2,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`
	Sandbox     bool   `json:"sandbox,omitempty"`
}

type CreateGameResponse struct {
	Success    bool           `json:"success"`
	GameId     string         `json:"gameId"`
	ObserverId string         `json:"observerId"`
	State      *GameStateView `json:"state"`
}

type GameStateResponse struct {
	Success bool           `json:"success"`
	State   *GameStateView `json:"state"`
}

type GameActionRequest struct {
	RequestId string       `json:"requestId"`
	Action    PlayerAction `json:"action"`
}

type GameActionResponse struct {
	Success bool           `json:"success"`
	State   *GameStateView `json:"state"`
	// Error carries the rule violation when Success is false. The HTTP
	// status stays 200; only malformed requests get a 4xx.
	Error map[string]string `json:"error,omitempty"`
}

// ApiErrorResponse is the body of non-200 responses.
type ApiErrorResponse struct {
	Detail string `json:"detail"`
}
