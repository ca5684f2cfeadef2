// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistencetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func TestDirReplayArchiveRoundTrip(t *testing.T) {
	ass := assert.New(t)
	archive, err := persistence.NewDirReplayArchive(t.TempDir(), log.NewLogger(zap.NewNop()))
	ass.Nil(err)

	replay := &data_models.ReplayLog{
		GameID:         "g1",
		Mode:           data_models.GameModeStandard,
		Seed:           42,
		CreatedAtUnix:  time.Now().Unix(),
		FinishedAtUnix: time.Now().Unix(),
		Winner:         "p1",
		Events: []data_models.ReplayEvent{
			{Seq: 1, TimestampMs: 1000, PlayerID: "p1", Action: "PLAY_CARD"},
			{Seq: 2, TimestampMs: 2000, PlayerID: "p2", Action: "PASS", Message: "turn passed"},
		},
	}
	ass.Nil(archive.Store(context.Background(), replay))

	got, err := archive.Read(context.Background(), "g1")
	ass.Nil(err)
	ass.Equal(replay, got)

	_, err = archive.Read(context.Background(), "missing")
	ass.NotNil(err)
}

func TestNoopReplayArchive(t *testing.T) {
	ass := assert.New(t)
	archive := persistence.NewNoopReplayArchive()
	ass.Nil(archive.Store(context.Background(), &data_models.ReplayLog{GameID: "g1"}))
	_, err := archive.Read(context.Background(), "g1")
	ass.NotNil(err)
}

func TestNewReplayArchiveModes(t *testing.T) {
	ass := assert.New(t)
	logger := log.NewLogger(zap.NewNop())

	archive, err := persistence.NewReplayArchive(config.ArchiveConfig{Mode: config.ArchiveModeOff}, logger)
	ass.Nil(err)
	ass.Nil(archive.Store(context.Background(), &data_models.ReplayLog{GameID: "g"}))

	archive, err = persistence.NewReplayArchive(config.ArchiveConfig{
		Mode: config.ArchiveModeDir,
		Dir:  t.TempDir(),
	}, logger)
	ass.Nil(err)
	ass.NotNil(archive)

	_, err = persistence.NewReplayArchive(config.ArchiveConfig{Mode: "bogus"}, logger)
	ass.NotNil(err)
}
