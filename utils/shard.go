// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"hash/fnv"
)

const (
	DefaultAdvertiseAddress = "0:0"
)

// GetShardIdForGame maps a game id onto a shard. The mapping must be stable
// across processes because the API service and the async service compute it
// independently.
func GetShardIdForGame(gameId string, shardCount int) int32 {
	if shardCount <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(gameId))
	return int32(h.Sum32() % uint32(shardCount))
}
