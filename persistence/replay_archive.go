// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

// NewReplayArchive builds the archive for the configured mode. With archiving
// off the no-op archive is returned, so the async service can run the same
// task pipeline in every mode.
func NewReplayArchive(cfg config.ArchiveConfig, logger log.Logger) (ReplayArchive, error) {
	switch cfg.Mode {
	case config.ArchiveModeOff:
		return NewNoopReplayArchive(), nil
	case config.ArchiveModeDir:
		return NewDirReplayArchive(cfg.Dir, logger)
	case config.ArchiveModeS3:
		return NewS3ReplayArchive(*cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown archive mode %v", cfg.Mode)
	}
}

// replayEncoder and replayDecoder are shared across archives and goroutines.
// EncodeAll and DecodeAll are safe for concurrent use.
var (
	replayEncoder *zstd.Encoder
	replayDecoder *zstd.Decoder
)

func init() {
	var err error
	replayEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("zstd encoder initialization failed: " + err.Error())
	}
	replayDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("zstd decoder initialization failed: " + err.Error())
	}
}

func encodeReplay(replay *data_models.ReplayLog) ([]byte, error) {
	raw, err := replay.ToBytes()
	if err != nil {
		return nil, err
	}
	return replayEncoder.EncodeAll(raw, nil), nil
}

func decodeReplay(compressed []byte) (*data_models.ReplayLog, error) {
	raw, err := replayDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, err
	}
	replay, err := data_models.BytesToReplayLog(raw)
	if err != nil {
		return nil, err
	}
	return &replay, nil
}

func replayObjectName(gameId string) string {
	return gameId + ".json.zst"
}
