// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type dirReplayArchive struct {
	dir    string
	logger log.Logger
}

// NewDirReplayArchive writes one compressed replay file per game into dir.
func NewDirReplayArchive(dir string, logger log.Logger) (ReplayArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &dirReplayArchive{
		dir:    dir,
		logger: logger,
	}, nil
}

func (a *dirReplayArchive) Store(_ context.Context, replay *data_models.ReplayLog) error {
	compressed, err := encodeReplay(replay)
	if err != nil {
		return err
	}
	path := filepath.Join(a.dir, replayObjectName(replay.GameID))
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return err
	}
	a.logger.Debug("stored replay file", tag.GameID(replay.GameID), tag.Value(path))
	return nil
}

func (a *dirReplayArchive) Read(_ context.Context, gameId string) (*data_models.ReplayLog, error) {
	compressed, err := os.ReadFile(filepath.Join(a.dir, replayObjectName(gameId)))
	if err != nil {
		return nil, err
	}
	return decodeReplay(compressed)
}
