// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package async

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/hashicorp/memberlist"
	"github.com/serialx/hashring"

	"github.com/gx5gyqe2-art/opcg-sim-backend/cluster"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
)

// ClusterEventDelegate maintains the consistent hashing ring of async
// servers and rebalances the local shard ownership on every change. Only
// nodes of the async server type enter the ring; API servers join the
// memberlist as observers so they can route notifications, but they never
// own shards. AsyncService is nil on such observer nodes.
type ClusterEventDelegate struct {
	ringLock   sync.RWMutex
	consistent *hashring.HashRing

	Logger        log.Logger
	Shard         int
	ServerAddress string
	AsyncService  Service
}

func (d *ClusterEventDelegate) NotifyJoin(node *memberlist.Node) {
	meta, err := cluster.ParseClusterDelegateMetaData(node.Meta)
	if err != nil {
		d.Logger.Fatal(fmt.Sprintf("failed to parse ClusterDelegateMetaData %s", node.Meta))
	}

	hostPort := BuildHostAddress(node)
	d.Logger.Info(fmt.Sprintf("ClusterEvent JOIN %s: advertise address %s, server type %s, server address %s",
		d.ServerAddress, hostPort, meta.ServerType, meta.ServerAddress))

	if meta.ServerType != ServerTypeAsync {
		return
	}

	d.ringLock.Lock()
	if d.consistent == nil {
		d.consistent = hashring.New([]string{meta.ServerAddress})
	} else {
		d.consistent = d.consistent.AddNode(meta.ServerAddress)
	}
	d.ringLock.Unlock()

	d.reBalance()
}

func (d *ClusterEventDelegate) NotifyLeave(node *memberlist.Node) {
	meta, err := cluster.ParseClusterDelegateMetaData(node.Meta)
	if err != nil {
		d.Logger.Fatal(fmt.Sprintf("failed to parse ClusterDelegateMetaData %s", node.Meta))
	}

	hostPort := BuildHostAddress(node)
	d.Logger.Info(fmt.Sprintf("ClusterEvent LEAVE %s: advertise address %s, server type %s, server address %s",
		d.ServerAddress, hostPort, meta.ServerType, meta.ServerAddress))

	if meta.ServerType != ServerTypeAsync {
		return
	}

	d.ringLock.Lock()
	if d.consistent != nil {
		d.consistent = d.consistent.RemoveNode(meta.ServerAddress)
	}
	d.ringLock.Unlock()

	d.reBalance()
}

func (d *ClusterEventDelegate) NotifyUpdate(node *memberlist.Node) {
	// skip
}

func (d *ClusterEventDelegate) GetAsyncServerAddressFor(shardId int32) string {
	d.ringLock.RLock()
	defer d.ringLock.RUnlock()

	if d.consistent == nil {
		d.Logger.Fatal("no async server has joined the ring yet")
	}
	node, ok := d.consistent.GetNode(strconv.Itoa(int(shardId)))
	if !ok {
		d.Logger.Fatal(fmt.Sprintf("failed to search shardId %d", shardId))
	}
	return node
}

// reBalance recomputes the shards this node owns under the current ring.
// Observer nodes carry no async service and skip it.
func (d *ClusterEventDelegate) reBalance() {
	if d.AsyncService == nil {
		return
	}

	var assignedShardIds []int32
	for i := 0; i < d.Shard; i++ {
		if d.GetAsyncServerAddressFor(int32(i)) == d.ServerAddress {
			assignedShardIds = append(assignedShardIds, int32(i))
		}
	}

	d.AsyncService.ReBalance(assignedShardIds)
}

func BuildHostAddress(node *memberlist.Node) string {
	return fmt.Sprintf("%s:%d", node.Addr.To4().String(), node.Port)
}
