// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// PlayerFactory builds a fresh pair of players. Reset calls it again with
// the same rng seed stream so the rebuilt game shuffles identically.
type PlayerFactory func() (*Player, *Player, error)

// actionCacheLimit bounds the per-session idempotency cache.
const actionCacheLimit = 128

type cachedAction struct {
	err error
}

// Session owns one live game and serializes all access to it. It tracks the
// observers allowed to look at the game, the replay log, and the request-id
// cache that makes action submission idempotent.
type Session struct {
	sync.Mutex

	ID   string
	Mode data_models.GameMode

	game    *Game
	sandbox *SandboxGame

	// observers maps an observer id to the seat it may see. The creator's
	// observer id drives both seats and sees everything; the literal seat
	// ids give scoped views.
	observers         map[string]Viewer
	CreatorObserverID string

	seed    int64
	factory PlayerFactory
	logger  log.Logger

	createdAt    time.Time
	lastActiveAt time.Time

	replaySeq    int
	replayEvents []data_models.ReplayEvent

	actionCache map[string]*cachedAction
	actionOrder []string
}

// NewSession creates a session, builds its game and starts it.
func NewSession(id string, mode data_models.GameMode, seed int64, factory PlayerFactory, logger log.Logger) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:                id,
		Mode:              mode,
		CreatorObserverID: uuid.New(),
		seed:              seed,
		factory:           factory,
		logger:            logger.WithTags(tag.GameID(id)),
		createdAt:         now,
		lastActiveAt:      now,
		actionCache:       map[string]*cachedAction{},
	}
	if err := s.buildGame(); err != nil {
		return nil, err
	}
	s.observers = map[string]Viewer{
		s.CreatorObserverID: {Omniscient: true},
		s.playerOneID():     {PlayerID: s.playerOneID()},
		s.playerTwoID():     {PlayerID: s.playerTwoID()},
	}
	s.recordEvent("system", "game_created", "", nil)
	return s, nil
}

func (s *Session) buildGame() error {
	p1, p2, err := s.factory()
	if err != nil {
		return err
	}
	rng := NewGameRand(s.seed)
	if s.Mode == data_models.GameModeSandbox {
		s.sandbox = NewSandboxGame(s.ID, p1, p2, rng, s.logger)
		s.game = nil
		return nil
	}
	game := NewGame(s.ID, p1, p2, rng, s.logger)
	game.Start("")
	s.game = game
	s.sandbox = nil
	return nil
}

func (s *Session) playerOneID() string {
	if s.sandbox != nil {
		return s.sandbox.P1.ID
	}
	return s.game.P1.ID
}

func (s *Session) playerTwoID() string {
	if s.sandbox != nil {
		return s.sandbox.P2.ID
	}
	return s.game.P2.ID
}

// Seed is the master seed this session's games are built from.
func (s *Session) Seed() int64 {
	return s.seed
}

// CreatedAt is when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActiveAt is the time of the last action or reset.
func (s *Session) LastActiveAt() time.Time {
	s.Lock()
	defer s.Unlock()
	return s.lastActiveAt
}

// Finished reports whether the game has a winner. Sandboxes never finish on
// their own.
func (s *Session) Finished() bool {
	s.Lock()
	defer s.Unlock()
	return s.finishedLocked()
}

func (s *Session) finishedLocked() bool {
	return s.game != nil && s.game.Finished()
}

// Winner returns the winning player's id, empty while running.
func (s *Session) Winner() string {
	s.Lock()
	defer s.Unlock()
	if s.game == nil {
		return ""
	}
	return s.game.Winner
}

// viewerFor resolves an observer id. Unknown ids get a spectator view.
func (s *Session) viewerFor(observerID string) Viewer {
	if viewer, ok := s.observers[observerID]; ok {
		return viewer
	}
	return Viewer{}
}

// StateFor renders the current state for an observer.
func (s *Session) StateFor(observerID string) *data_models.GameStateView {
	s.Lock()
	defer s.Unlock()
	return s.stateForLocked(observerID)
}

func (s *Session) stateForLocked(observerID string) *data_models.GameStateView {
	if s.sandbox != nil {
		return BuildSandboxStateView(s.sandbox)
	}
	return BuildStateView(s.game, s.viewerFor(observerID))
}

// Act applies one submitted action and returns the resulting state as the
// submitting observer sees it. A request id that was already applied does
// not reapply; the recorded outcome and the current state come back
// instead.
func (s *Session) Act(observerID string, requestID string, action *data_models.PlayerAction) (*data_models.GameStateView, error) {
	s.Lock()
	defer s.Unlock()

	if requestID != "" {
		if cached, ok := s.actionCache[requestID]; ok {
			s.logger.Info("duplicate action request ignored", tag.RequestID(requestID))
			return s.stateForLocked(observerID), cached.err
		}
	}

	actorID := s.resolveActor(observerID, action)
	err := s.applyLocked(actorID, action)
	if err == nil {
		s.lastActiveAt = time.Now()
		s.recordAction(actorID, action)
	}
	s.cacheOutcome(requestID, err)
	return s.stateForLocked(observerID), err
}

// resolveActor decides which seat an action is played from. Seat observers
// always act as their seat. The driving client acts as whichever player the
// engine is waiting on, or as the player named in the action.
func (s *Session) resolveActor(observerID string, action *data_models.PlayerAction) string {
	viewer := s.viewerFor(observerID)
	if viewer.PlayerID != "" {
		return viewer.PlayerID
	}
	if action != nil && action.PlayerID != "" {
		return action.PlayerID
	}
	if s.sandbox != nil {
		return s.sandbox.ActivePlayerID
	}
	if pending := s.game.PendingRequest(); pending != nil {
		return pending.PlayerID
	}
	return s.game.TurnPlayer.ID
}

func (s *Session) applyLocked(actorID string, action *data_models.PlayerAction) error {
	if s.sandbox != nil {
		return s.sandbox.ApplyPlayerAction(actorID, action)
	}
	return s.game.ApplyPlayerAction(actorID, action)
}

func (s *Session) cacheOutcome(requestID string, err error) {
	if requestID == "" {
		return
	}
	s.actionCache[requestID] = &cachedAction{err: err}
	s.actionOrder = append(s.actionOrder, requestID)
	if len(s.actionOrder) > actionCacheLimit {
		oldest := s.actionOrder[0]
		s.actionOrder = s.actionOrder[1:]
		delete(s.actionCache, oldest)
	}
}

// Reset rebuilds the game from the original decks and seed. The shuffles
// repeat, so the rebuilt game opens identically. The replay log restarts.
func (s *Session) Reset() error {
	s.Lock()
	defer s.Unlock()
	if err := s.buildGame(); err != nil {
		return err
	}
	s.lastActiveAt = time.Now()
	s.replaySeq = 0
	s.replayEvents = nil
	s.actionCache = map[string]*cachedAction{}
	s.actionOrder = nil
	s.recordEvent("system", "game_reset", "", nil)
	s.logger.Info("session reset")
	return nil
}

func (s *Session) recordAction(actorID string, action *data_models.PlayerAction) {
	if action == nil {
		return
	}
	payload, err := json.Marshal(action)
	if err != nil {
		payload = nil
	}
	s.recordEvent(actorID, string(action.Type), "", payload)

	if s.finishedLocked() {
		s.recordEvent("system", "game_finished", s.game.Winner, nil)
	}
}

func (s *Session) recordEvent(playerID string, action string, message string, payload json.RawMessage) {
	s.replaySeq++
	s.replayEvents = append(s.replayEvents, data_models.ReplayEvent{
		Seq:         s.replaySeq,
		TimestampMs: time.Now().UnixMilli(),
		PlayerID:    playerID,
		Action:      action,
		Message:     message,
		Payload:     payload,
	})
}

// ReplaySnapshot copies the replay log for archival.
func (s *Session) ReplaySnapshot() *data_models.ReplayLog {
	s.Lock()
	defer s.Unlock()

	events := make([]data_models.ReplayEvent, len(s.replayEvents))
	copy(events, s.replayEvents)
	replay := &data_models.ReplayLog{
		GameID:        s.ID,
		Mode:          s.Mode,
		Seed:          s.seed,
		CreatedAtUnix: s.createdAt.Unix(),
		Events:        events,
	}
	if s.game != nil && s.game.Finished() {
		replay.Winner = s.game.Winner
		replay.FinishedAtUnix = s.lastActiveAt.Unix()
	}
	return replay
}

// Snapshot renders the session into its persistence row. The state json is
// the omniscient view, so a resumed or inspected session loses nothing.
func (s *Session) Snapshot() (*data_models.GameSnapshot, error) {
	s.Lock()
	defer s.Unlock()

	view := s.stateForLocked(s.CreatorObserverID)
	stateJson, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	status := data_models.GameStatusRunning
	if s.finishedLocked() {
		status = data_models.GameStatusFinished
	}
	snapshot := &data_models.GameSnapshot{
		GameId:    s.ID,
		Status:    status,
		Mode:      s.Mode,
		StateJson: stateJson,
		CreatedAt: s.createdAt,
		UpdatedAt: s.lastActiveAt,
	}
	if s.sandbox != nil {
		snapshot.TurnCount = int32(s.sandbox.TurnCount)
		snapshot.Phase = string(PhaseSandbox)
	} else {
		snapshot.TurnCount = int32(s.game.TurnCount)
		snapshot.Phase = string(s.game.Phase)
	}
	return snapshot, nil
}
