// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryAddGetDelete(t *testing.T) {
	registry := NewSessionRegistry(4, 0)

	require.NoError(t, registry.Add(&Session{ID: "g1"}))
	require.NoError(t, registry.Add(&Session{ID: "g2"}))
	assert.Error(t, registry.Add(&Session{ID: "g1"}), "duplicate id must be rejected")

	session, ok := registry.Get("g1")
	require.True(t, ok)
	assert.Equal(t, "g1", session.ID)
	assert.Equal(t, 2, registry.Count())
	assert.Len(t, registry.List(), 2)

	registry.Delete("g1")
	_, ok = registry.Get("g1")
	assert.False(t, ok)
	assert.Equal(t, 1, registry.Count())
}

func TestSessionRegistryLimit(t *testing.T) {
	registry := NewSessionRegistry(1, 2)

	require.NoError(t, registry.Add(&Session{ID: "g1"}))
	require.NoError(t, registry.Add(&Session{ID: "g2"}))

	err := registry.Add(&Session{ID: "g3"})
	assert.ErrorIs(t, err, ErrTooManySessions)

	registry.Delete("g1")
	assert.NoError(t, registry.Add(&Session{ID: "g3"}))
}

func TestSessionRegistryShardOf(t *testing.T) {
	registry := NewSessionRegistry(4, 0)

	for i := 0; i < 100; i++ {
		gameId := fmt.Sprintf("game-%d", i)
		shard := registry.ShardOf(gameId)
		assert.GreaterOrEqual(t, shard, int32(0))
		assert.Less(t, shard, int32(4))
		assert.Equal(t, shard, registry.ShardOf(gameId), "shard assignment must be stable")
	}

	single := NewSessionRegistry(1, 0)
	assert.Equal(t, int32(0), single.ShardOf("anything"))
}
