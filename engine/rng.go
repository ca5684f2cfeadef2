// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"sync"
)

// GameRand derives an independent random stream per purpose label from one
// master seed. Each stream's position depends only on how often that purpose
// was used, so adding a shuffle somewhere does not shift every later shuffle
// of a replayed game.
type GameRand struct {
	masterSeed int64

	mu    sync.Mutex
	rands map[string]*rand.Rand
}

func NewGameRand(masterSeed int64) *GameRand {
	return &GameRand{
		masterSeed: masterSeed,
		rands:      make(map[string]*rand.Rand),
	}
}

// MasterSeed returns the seed this GameRand was created with, so it can be
// recorded in the replay log.
func (g *GameRand) MasterSeed() int64 {
	return g.masterSeed
}

// ForPurpose returns the stream for a label, creating it on first use with
// seed fnv1a(label) XOR masterSeed.
func (g *GameRand) ForPurpose(label string) *rand.Rand {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.rands[label]; ok {
		return r
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	seed := int64(h.Sum64()) ^ g.masterSeed
	r := rand.New(rand.NewSource(seed))
	g.rands[label] = r
	return r
}

// Shuffle shuffles n elements using the stream of the given purpose.
func (g *GameRand) Shuffle(label string, n int, swap func(i, j int)) {
	g.ForPurpose(label).Shuffle(n, swap)
}

// Intn draws from the stream of the given purpose.
func (g *GameRand) Intn(label string, n int) int {
	return g.ForPurpose(label).Intn(n)
}

// NewMasterSeed returns a crypto-random seed for games created without an
// explicit one. The value is recorded so the game stays replayable.
func NewMasterSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is unrecoverable for anything this
		// process does, not just seeding.
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
