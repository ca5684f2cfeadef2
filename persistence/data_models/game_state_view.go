// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package data_models

// The view types are the wire schema of a serialized game. Field names are
// snake_case because that is what the simulator clients already consume.

type CardView struct {
	UUID        string   `json:"uuid"`
	CardID      string   `json:"card_id"`
	Name        string   `json:"name"`
	Power       int      `json:"power"`
	Counter     int      `json:"counter"`
	Attribute   string   `json:"attribute"`
	Cost        int      `json:"cost"`
	Traits      []string `json:"traits"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
	IsRest      bool     `json:"is_rest"`
	IsFaceUp    bool     `json:"is_face_up"`
	AttachedDon int      `json:"attached_don"`
	OwnerID     string   `json:"owner_id"`
	Keywords    []string `json:"keywords"`
}

type DonView struct {
	UUID    string `json:"uuid"`
	OwnerID string `json:"owner_id"`
	IsRest  bool   `json:"is_rest"`
	// AttachedTo is null unless the don!! is given to a unit.
	AttachedTo *string `json:"attached_to"`
}

type ZonesView struct {
	Field []CardView `json:"field"`
	Hand  []CardView `json:"hand"`
	Life  []CardView `json:"life"`
	Trash []CardView `json:"trash"`
	Stage *CardView  `json:"stage"`
	// Deck is only serialized in sandbox mode.
	Deck []CardView `json:"deck,omitempty"`
}

type PlayerView struct {
	PlayerID     string    `json:"player_id"`
	Name         string    `json:"name"`
	LifeCount    int       `json:"life_count"`
	HandCount    int       `json:"hand_count"`
	DonDeckCount int       `json:"don_deck_count"`
	DonActive    []DonView `json:"don_active"`
	DonRested    []DonView `json:"don_rested"`
	Leader       *CardView `json:"leader"`
	Stage        *CardView `json:"stage"`
	Zones        ZonesView `json:"zones"`
}

// PendingRequestView tells the client which player must act next and what
// kind of input the engine is waiting for.
type PendingRequestView struct {
	PlayerID        string     `json:"player_id"`
	Action          string     `json:"action"`
	Message         string     `json:"message"`
	SelectableUUIDs []string   `json:"selectable_uuids"`
	CanSkip         bool       `json:"can_skip"`
	Candidates      []CardView `json:"candidates,omitempty"`
	Options         []string   `json:"options,omitempty"`
	RequestID       string     `json:"request_id"`
}

type BattleView struct {
	AttackerUUID string `json:"attacker_uuid"`
	TargetUUID   string `json:"target_uuid"`
	CounterBuff  int    `json:"counter_buff"`
}

type TurnInfoView struct {
	TurnCount      int                 `json:"turn_count"`
	CurrentPhase   string              `json:"current_phase"`
	ActivePlayerID string              `json:"active_player_id"`
	Winner         *string             `json:"winner"`
	PendingRequest *PendingRequestView `json:"pending_request"`
}

type GameStateView struct {
	GameID       string                `json:"game_id"`
	Mode         GameMode              `json:"mode"`
	TurnInfo     TurnInfoView          `json:"turn_info"`
	Players      map[string]PlayerView `json:"players"`
	ActiveBattle *BattleView           `json:"active_battle"`
}
