// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"context"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type Server interface {
	// Start will start running on the background
	Start() error
	Stop(ctx context.Context) error
}

type Service interface {
	Start() error
	// NotifyPollingImmediateTask triggers an early poll of the archive task
	// queue of the shard. Fails when this instance does not own the shard.
	NotifyPollingImmediateTask(request data_models.NotifyImmediateTasksRequest) error
	// NotifyPollingTimerTask feeds newly written expiry deadlines to the
	// timer queue of the shard. Fails when this instance does not own the shard.
	NotifyPollingTimerTask(request data_models.NotifyTimerTasksRequest) error
	// NotifyRemoteImmediateTaskAsyncInCluster forwards a notification to the
	// owning node, best effort in the background.
	NotifyRemoteImmediateTaskAsyncInCluster(request data_models.NotifyImmediateTasksRequest, targetAddress string)
	// NotifyRemoteTimerTaskAsyncInCluster forwards a notification to the
	// owning node, best effort in the background.
	NotifyRemoteTimerTaskAsyncInCluster(request data_models.NotifyTimerTasksRequest, targetAddress string)
	// ReBalance moves this instance to exactly the given shard ownership set,
	// stopping the queues of lost shards and starting queues for new ones.
	ReBalance(assignedShardIds []int32)
	Stop(ctx context.Context) error
}

// Membership is the cluster view of one server. The async service uses it to
// decide which notifications to serve locally and which to forward; the API
// service uses it to route notifications to the owning async node.
type Membership interface {
	// Start creates the memberlist node and joins the cluster
	Start() error
	// GetServerAddress is the address this server is known by in the ring
	GetServerAddress() string
	// GetAsyncServerAddressForShard resolves the async server owning a shard
	GetAsyncServerAddressForShard(shardId int32) string
	Stop(ctx context.Context) error
}
