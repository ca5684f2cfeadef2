// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
)

const upsertGameSnapshotQuery = `INSERT INTO game_snapshots
	(game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at) VALUES
	(:game_id, :shard_id, :status, :mode, :turn_count, :phase, :state_json, :created_at, :updated_at)
	ON CONFLICT (game_id) DO UPDATE SET
	status = excluded.status,
	turn_count = excluded.turn_count,
	phase = excluded.phase,
	state_json = excluded.state_json,
	updated_at = excluded.updated_at`

func (d dbSession) UpsertGameSnapshot(ctx context.Context, row extensions.GameSnapshotRow) error {
	row.CreatedAt = ToSQLiteDateTime(row.CreatedAt)
	row.UpdatedAt = ToSQLiteDateTime(row.UpdatedAt)
	_, err := d.db.NamedExecContext(ctx, upsertGameSnapshotQuery, row)
	return err
}

const selectGameSnapshotQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots WHERE game_id = ?`

func (d dbSession) SelectGameSnapshot(ctx context.Context, gameId string) (*extensions.GameSnapshotRow, error) {
	var row extensions.GameSnapshotRow
	err := d.db.GetContext(ctx, &row, selectGameSnapshotQuery, gameId)
	if err != nil {
		return nil, err
	}
	row.CreatedAt = FromSQLiteDateTime(row.CreatedAt)
	row.UpdatedAt = FromSQLiteDateTime(row.UpdatedAt)
	return &row, nil
}

const selectGameSnapshotsQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots ORDER BY updated_at DESC LIMIT ?`

const selectGameSnapshotsByStatusQuery = `SELECT
    game_id, shard_id, status, mode, turn_count, phase, state_json, created_at, updated_at
	FROM game_snapshots WHERE status = ? ORDER BY updated_at DESC LIMIT ?`

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
		rows[i].CreatedAt = FromSQLiteDateTime(rows[i].CreatedAt)
		rows[i].UpdatedAt = FromSQLiteDateTime(rows[i].UpdatedAt)
	}
	return rows, nil
}
