// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type noopGameEventFeed struct{}

func NewNoopGameEventFeed() GameEventFeed {
	return noopGameEventFeed{}
}

func (noopGameEventFeed) Publish(context.Context, data_models.GameEventMessage) error {
	return nil
}

func (noopGameEventFeed) Close() {}
