// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"
	"fmt"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type noopReplayArchive struct{}

// NewNoopReplayArchive discards replays. Store succeeds so that archive
// tasks still complete and sessions get removed from the registry when
// archiving is turned off.
func NewNoopReplayArchive() ReplayArchive {
	return noopReplayArchive{}
}

func (noopReplayArchive) Store(context.Context, *data_models.ReplayLog) error {
	return nil
}

func (noopReplayArchive) Read(_ context.Context, gameId string) (*data_models.ReplayLog, error) {
	return nil, fmt.Errorf("replay archiving is disabled, no replay for game %v", gameId)
}
