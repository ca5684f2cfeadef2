// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gx5gyqe2-art/opcg-sim-backend/utils"
)

// ErrTooManySessions is returned by Add when the configured session cap is
// reached. Callers should surface it as a retryable condition.
var ErrTooManySessions = errors.New("session limit reached")

type sessionRegistryImpl struct {
	sync.RWMutex
	sessions map[string]*Session

	shardCount  int
	maxSessions int
}

// NewSessionRegistry creates the in-memory registry. maxSessions of zero
// means unbounded.
func NewSessionRegistry(shardCount int, maxSessions int) SessionRegistry {
	if shardCount < 1 {
		shardCount = 1
	}
	return &sessionRegistryImpl{
		sessions:    make(map[string]*Session),
		shardCount:  shardCount,
		maxSessions: maxSessions,
	}
}

func (r *sessionRegistryImpl) Add(session *Session) error {
	r.Lock()
	defer r.Unlock()
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return ErrTooManySessions
	}
	if _, ok := r.sessions[session.ID]; ok {
		return fmt.Errorf("session %v already exists", session.ID)
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *sessionRegistryImpl) Get(gameId string) (*Session, bool) {
	r.RLock()
	defer r.RUnlock()
	session, ok := r.sessions[gameId]
	return session, ok
}

func (r *sessionRegistryImpl) Delete(gameId string) {
	r.Lock()
	defer r.Unlock()
	delete(r.sessions, gameId)
}

func (r *sessionRegistryImpl) List() []*Session {
	r.RLock()
	defer r.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session)
	}
	return out
}

func (r *sessionRegistryImpl) Count() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.sessions)
}

func (r *sessionRegistryImpl) ShardOf(gameId string) int32 {
	return utils.GetShardIdForGame(gameId, r.shardCount)
}
