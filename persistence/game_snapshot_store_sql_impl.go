// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/extensions"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type sqlGameSnapshotStoreImpl struct {
	session extensions.SQLDBSession
	logger  log.Logger
}

func NewSQLGameSnapshotStore(sqlConfig config.SQL, logger log.Logger) (GameSnapshotStore, error) {
	session, err := extensions.NewSQLSession(&sqlConfig)
	return &sqlGameSnapshotStoreImpl{
		session: session,
		logger:  logger,
	}, err
}

func (p sqlGameSnapshotStoreImpl) Close() error {
	return p.session.Close()
}

func (p sqlGameSnapshotStoreImpl) UpsertGameSnapshot(
	ctx context.Context, request data_models.UpsertGameSnapshotRequest,
) error {
	snapshot := request.Snapshot
	return p.session.UpsertGameSnapshot(ctx, extensions.GameSnapshotRow{
		GameId:    snapshot.GameId,
		ShardId:   snapshot.ShardId,
		Status:    snapshot.Status,
		Mode:      string(snapshot.Mode),
		TurnCount: snapshot.TurnCount,
		Phase:     snapshot.Phase,
		StateJson: snapshot.StateJson,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	})
}

func (p sqlGameSnapshotStoreImpl) GetGameSnapshot(
	ctx context.Context, request data_models.GetGameSnapshotRequest,
) (*data_models.GetGameSnapshotResponse, error) {
	row, err := p.session.SelectGameSnapshot(ctx, request.GameId)
	if err != nil {
		if p.session.IsNotFoundError(err) {
			return &data_models.GetGameSnapshotResponse{
				NotExists: true,
			}, nil
		}
		return nil, err
	}
	return &data_models.GetGameSnapshotResponse{
		Snapshot: fromGameSnapshotRow(*row),
	}, nil
}

func (p sqlGameSnapshotStoreImpl) ListGameSnapshots(
	ctx context.Context, request data_models.ListGameSnapshotsRequest,
) (*data_models.ListGameSnapshotsResponse, error) {
	filter := extensions.GameSnapshotSelectFilter{
		PageSize: request.PageSize,
	}
	if request.StatusFilter != data_models.GameStatusUndefined {
		filter.OptionalStatus = &request.StatusFilter
	}
	rows, err := p.session.SelectGameSnapshots(ctx, filter)
	if err != nil {
		return nil, err
	}
	var snapshots []data_models.GameSnapshot
	for _, row := range rows {
		snapshots = append(snapshots, fromGameSnapshotRow(row))
	}
	return &data_models.ListGameSnapshotsResponse{
		Snapshots: snapshots,
	}, nil
}

func fromGameSnapshotRow(row extensions.GameSnapshotRow) data_models.GameSnapshot {
	return data_models.GameSnapshot{
		GameId:    row.GameId,
		ShardId:   row.ShardId,
		Status:    row.Status,
		Mode:      data_models.GameMode(row.Mode),
		TurnCount: row.TurnCount,
		Phase:     row.Phase,
		StateJson: row.StateJson,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
