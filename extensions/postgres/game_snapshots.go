// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

const upsertGameSnapshotQuery = `INSERT INTO game_snapshots
	(game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at) VALUES
	(:game_id, :shard_id, :status, :mode, :turn_count, :phase, :state_json, :created_at, :updated_at)
	ON CONFLICT (game_id) DO UPDATE SET
	status = EXCLUDED.status,
	turn_count = EXCLUDED.turn_count,
	phase = EXCLUDED.phase,
	state_json = EXCLUDED.state_json,
	updated_at = EXCLUDED.updated_at`

func (d dbSession) UpsertGameSnapshot(ctx context.Context, row extensions.GameSnapshotRow) error {
	row.CreatedAt = ToPostgresDateTime(row.CreatedAt)
	row.UpdatedAt = ToPostgresDateTime(row.UpdatedAt)
	_, err := d.db.NamedExecContext(ctx, upsertGameSnapshotQuery, row)
	return err
}

const selectGameSnapshotQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots WHERE game_id = $1`

func (d dbSession) SelectGameSnapshot(ctx context.Context, gameId string) (*extensions.GameSnapshotRow, error) {
	var row extensions.GameSnapshotRow
	err := d.db.GetContext(ctx, &row, selectGameSnapshotQuery, gameId)
	if err != nil {
		return nil, err
	}
	row.CreatedAt = FromPostgresDateTime(row.CreatedAt)
	row.UpdatedAt = FromPostgresDateTime(row.UpdatedAt)
	return &row, nil
}

const selectGameSnapshotsQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots ORDER BY updated_at DESC LIMIT $1`

const selectGameSnapshotsByStatusQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots WHERE status = $1 ORDER BY updated_at DESC LIMIT $2`

func (d dbSession) SelectGameSnapshots(
	ctx context.Context, filter extensions.GameSnapshotSelectFilter,
) ([]extensions.GameSnapshotRow, error) {
	var rows []extensions.GameSnapshotRow
	var err error
	if filter.OptionalStatus != nil {
		err = d.db.SelectContext(ctx, &rows, selectGameSnapshotsByStatusQuery, *filter.OptionalStatus, filter.PageSize)
	} else {
		err = d.db.SelectContext(ctx, &rows, selectGameSnapshotsQuery, filter.PageSize)
	}
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CreatedAt = FromPostgresDateTime(rows[i].CreatedAt)
		rows[i].UpdatedAt = FromPostgresDateTime(rows[i].UpdatedAt)
	}
	return rows, nil
}
