// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cards"
	"github.com/gx5gyqe2-art/opcg-sim-backend/cards/carddb"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/httperror"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/urlautofix"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/uuid"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/engine"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
	"github.com/gx5gyqe2-art/opcg-sim-backend/service/async"
)

type serviceImpl struct {
	cfg      config.Config
	registry engine.SessionRegistry
	decks    *carddb.DeckLoader

	taskStore persistence.TaskStore
	// snapshotStore is nil when no database is configured
	snapshotStore persistence.GameSnapshotStore
	eventFeed     persistence.GameEventFeed
	// membership is nil outside of cluster mode; notifications then go to
	// the configured async client address
	membership async.Membership

	logger log.Logger
}

func NewServiceImpl(
	cfg config.Config, registry engine.SessionRegistry, decks *carddb.DeckLoader,
	taskStore persistence.TaskStore, snapshotStore persistence.GameSnapshotStore,
	eventFeed persistence.GameEventFeed, membership async.Membership, logger log.Logger,
) Service {
	return &serviceImpl{
		cfg:           cfg,
		registry:      registry,
		decks:         decks,
		taskStore:     taskStore,
		snapshotStore: snapshotStore,
		eventFeed:     eventFeed,
		membership:    membership,
		logger:        logger,
	}
}

func (s *serviceImpl) CreateGame(
	ctx context.Context, request data_models.CreateGameRequest,
) (*data_models.CreateGameResponse, *ErrorWithStatus) {
	gameId := uuid.New()

	mode := data_models.GameModeStandard
	if request.Sandbox {
		mode = data_models.GameModeSandbox
	}
	seed := newSeed()
	if request.Seed != nil {
		seed = *request.Seed
	}

	p1Name := orDefault(request.Player1Name, "Player 1")
	p2Name := orDefault(request.Player2Name, "Player 2")
	deck1 := s.resolveDeckName(request.Deck1)
	deck2 := s.resolveDeckName(request.Deck2)

	factory := func() (*engine.Player, *engine.Player, error) {
		p1, err := s.buildPlayer("p1", p1Name, deck1)
		if err != nil {
			return nil, nil, err
		}
		p2, err := s.buildPlayer("p2", p2Name, deck2)
		if err != nil {
			return nil, nil, err
		}
		return p1, p2, nil
	}

	session, err := engine.NewSession(gameId, mode, seed, factory, s.logger)
	if err != nil {
		// session build only fails on deck resolution, which is client input
		return nil, NewErrorWithStatus(http.StatusBadRequest, err.Error())
	}

	if err := s.registry.Add(session); err != nil {
		if errors.Is(err, engine.ErrTooManySessions) {
			return nil, NewErrorWithStatus(http.StatusServiceUnavailable, err.Error())
		}
		return nil, s.handleUnknownError(err)
	}

	s.logger.Info("created game session",
		tag.GameID(gameId), tag.Deck(deck1), tag.Deck(deck2), tag.Seed(seed),
		tag.Value(string(mode)))

	s.scheduleSessionExpiry(ctx, session)
	s.writeSnapshot(ctx, session)
	s.publishEvent(session, data_models.GameEventMessage{
		GameId:    gameId,
		Mode:      mode,
		EventType: data_models.GameEventTypeCreated,
	})

	return &data_models.CreateGameResponse{
		Success:    true,
		GameId:     gameId,
		ObserverId: session.CreatorObserverID,
		State:      session.StateFor(session.CreatorObserverID),
	}, nil
}

func (s *serviceImpl) GetGameState(
	_ context.Context, gameId string, observerId string,
) (*data_models.GameStateResponse, *ErrorWithStatus) {
	session, ok := s.registry.Get(gameId)
	if !ok {
		return &data_models.GameStateResponse{Success: false, State: nil}, nil
	}
	return &data_models.GameStateResponse{
		Success: true,
		State:   session.StateFor(observerId),
	}, nil
}

func (s *serviceImpl) ApplyGameAction(
	ctx context.Context, gameId string, observerId string, request data_models.GameActionRequest,
) (*data_models.GameActionResponse, *ErrorWithStatus) {
	session, ok := s.registry.Get(gameId)
	if !ok {
		return &data_models.GameActionResponse{Success: false, State: nil}, nil
	}

	wasFinished := session.Finished()
	state, err := session.Act(observerId, request.RequestId, &request.Action)
	if err != nil {
		if ruleErr, ok := engine.AsRuleError(err); ok {
			return &data_models.GameActionResponse{
				Success: false,
				State:   state,
				Error: map[string]string{
					"code":    ruleErr.Code,
					"message": ruleErr.Message,
				},
			}, nil
		}
		return nil, s.handleUnknownError(err)
	}

	s.afterAction(ctx, session, wasFinished, request.Action)

	return &data_models.GameActionResponse{Success: true, State: state}, nil
}

func (s *serviceImpl) ResetGame(
	ctx context.Context, gameId string, observerId string,
) (*data_models.GameStateResponse, *ErrorWithStatus) {
	session, ok := s.registry.Get(gameId)
	if !ok {
		return &data_models.GameStateResponse{Success: false, State: nil}, nil
	}
	if err := session.Reset(); err != nil {
		return nil, s.handleUnknownError(err)
	}
	s.writeSnapshot(ctx, session)
	if observerId == "" {
		observerId = session.CreatorObserverID
	}
	s.logger.Info("game session reset",
		tag.GameID(gameId), tag.ObserverID(observerId))
	return &data_models.GameStateResponse{
		Success: true,
		State:   session.StateFor(observerId),
	}, nil
}

// afterAction runs the write-through and notification hooks of a
// successfully applied action. None of them can fail the action itself, the
// in-memory session is the source of truth.
func (s *serviceImpl) afterAction(
	ctx context.Context, session *engine.Session, wasFinished bool, action data_models.PlayerAction,
) {
	s.writeSnapshot(ctx, session)
	s.publishEvent(session, data_models.GameEventMessage{
		GameId:    session.ID,
		Mode:      session.Mode,
		EventType: data_models.GameEventTypeAction,
		PlayerId:  action.PlayerID,
		Action:    string(action.Type),
	})

	if !wasFinished && session.Finished() {
		winner := session.Winner()
		s.publishEvent(session, data_models.GameEventMessage{
			GameId:    session.ID,
			Mode:      session.Mode,
			EventType: data_models.GameEventTypeFinished,
			Winner:    winner,
		})
		s.enqueueArchiveTask(ctx, session)
	}
}

// scheduleSessionExpiry writes the idle expiry timer of a new session. The
// expiry processor re-arms it for sessions that stay active, so one timer at
// create time is enough.
func (s *serviceImpl) scheduleSessionExpiry(ctx context.Context, session *engine.Session) {
	shardId := s.registry.ShardOf(session.ID)
	deadline := session.LastActiveAt().Add(s.cfg.Game.IdleSessionTimeout).Unix()

	err := s.taskStore.AddTimerTask(ctx, data_models.AddTimerTaskRequest{
		Task: data_models.TimerTask{
			ShardId:              shardId,
			FireTimestampSeconds: deadline,
			TaskType:             data_models.TimerTaskTypeSessionExpiry,
			GameId:               session.ID,
			TimerTaskInfo:        data_models.TimerTaskInfoJson{IdleDeadlineUnix: deadline},
		},
	})
	if err != nil {
		// the session still plays without its expiry timer, it will just
		// linger until a restart
		s.logger.Error("failed to schedule session expiry timer",
			tag.GameID(session.ID), tag.Error(err))
		return
	}
	s.notifyAsyncService(shardId, async.PathNotifySessionExpiry, data_models.NotifyTimerTasksRequest{
		ShardId:        shardId,
		FireTimestamps: []int64{deadline},
	})
}

// enqueueArchiveTask makes a finished game's replay durable: the async
// service archives it and then removes the session from the registry.
func (s *serviceImpl) enqueueArchiveTask(ctx context.Context, session *engine.Session) {
	shardId := s.registry.ShardOf(session.ID)

	err := s.taskStore.AddImmediateTask(ctx, data_models.AddImmediateTaskRequest{
		Task: data_models.ImmediateTask{
			ShardId:  shardId,
			TaskType: data_models.ImmediateTaskTypeArchiveReplay,
			GameId:   session.ID,
			ImmediateTaskInfo: data_models.ImmediateTaskInfoJson{
				Reason:         data_models.ArchiveReasonFinished,
				FinishedAtUnix: time.Now().Unix(),
			},
		},
	})
	if err != nil {
		// the expiry timer is the fallback, it archives whatever it finds
		s.logger.Error("failed to enqueue archive task",
			tag.GameID(session.ID), tag.Error(err))
		return
	}
	s.notifyAsyncService(shardId, async.PathNotifyArchiveTasks, data_models.NotifyImmediateTasksRequest{
		ShardId: shardId,
		GameIds: []string{session.ID},
	})
}

func (s *serviceImpl) writeSnapshot(ctx context.Context, session *engine.Session) {
	if s.snapshotStore == nil {
		return
	}
	snapshot, err := session.Snapshot()
	if err != nil {
		s.logger.Error("failed to render game snapshot", tag.GameID(session.ID), tag.Error(err))
		return
	}
	snapshot.ShardId = s.registry.ShardOf(session.ID)
	err = s.snapshotStore.UpsertGameSnapshot(ctx, data_models.UpsertGameSnapshotRequest{
		Snapshot: *snapshot,
	})
	if err != nil {
		s.logger.Error("failed to write game snapshot", tag.GameID(session.ID), tag.Error(err))
	}
}

func (s *serviceImpl) publishEvent(session *engine.Session, message data_models.GameEventMessage) {
	message.TimestampMs = time.Now().UnixMilli()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := s.eventFeed.Publish(ctx, message); err != nil {
			s.logger.Error("failed to publish game event",
				tag.GameID(session.ID), tag.Value(message.EventType), tag.Error(err))
		}
	}()
}

// notifyAsyncService pokes the async service owning shardId so its queue
// polls earlier than the next scheduled interval. Best effort in the
// background, a missed notification is repaired by the next poll.
func (s *serviceImpl) notifyAsyncService(shardId int32, path string, body any) {
	go func() {
		address := s.asyncAddressFor(shardId)
		url := urlautofix.FixAsyncServiceUrl(address) + path

		payload, err := json.Marshal(body)
		if err != nil {
			s.logger.Error("failed to serialize async notification", tag.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			s.logger.Error("failed to create async notification request",
				tag.Value(url), tag.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
		}
		if httperror.CheckHttpResponseAndError(err, resp, s.logger) {
			s.logger.Error("failed to notify async service",
				tag.Shard(shardId), tag.Value(url), tag.Error(err))
		}
	}()
}

func (s *serviceImpl) asyncAddressFor(shardId int32) string {
	if s.membership != nil {
		return s.membership.GetAsyncServerAddressForShard(shardId)
	}
	return s.cfg.AsyncService.ClientAddress
}

func (s *serviceImpl) handleUnknownError(err error) *ErrorWithStatus {
	s.logger.Error("unknown error on operation", tag.Error(err))
	return NewErrorWithStatus(http.StatusInternalServerError, err.Error())
}

// buildPlayer loads the deck for one seat. Deck files take precedence over
// the built-in demo decks of the same name.
func (s *serviceImpl) buildPlayer(id string, name string, deckName string) (*engine.Player, error) {
	leader, deck, err := s.loadDeck(deckName, id)
	if err != nil {
		return nil, err
	}
	return engine.NewPlayer(id, name, leader, deck), nil
}

func (s *serviceImpl) loadDeck(deckName string, ownerID string) (
	*cards.CardInstance, []*cards.CardInstance, error,
) {
	if s.cfg.Game.DeckDirectory != "" {
		fileName := deckName
		if !strings.HasSuffix(fileName, ".json") {
			fileName += ".json"
		}
		path := filepath.Join(s.cfg.Game.DeckDirectory, fileName)
		if _, err := os.Stat(path); err == nil {
			return s.decks.LoadFile(path, ownerID)
		}
	}
	return s.decks.Demo(deckName, ownerID)
}

func (s *serviceImpl) resolveDeckName(requested string) string {
	if requested != "" {
		return requested
	}
	if s.cfg.Game.DefaultDeck != "" {
		return s.cfg.Game.DefaultDeck
	}
	return carddb.DefaultDemoDeck
}

func orDefault(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}

// newSeed draws a non-negative random seed for a game whose create request
// did not pin one.
func newSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
}
