// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalTimerGateFire(t *testing.T) {
	gate := NewLocalTimerGate(testLogger())
	defer gate.Close()

	assert.False(t, gate.IsActive())
	assert.True(t, gate.Update(time.Now().Add(50*time.Millisecond)))
	assert.True(t, gate.IsActive())

	select {
	case <-gate.FireChan():
	case <-time.After(5 * time.Second):
		t.Fatal("timer gate did not fire")
	}
	assert.False(t, gate.IsActive())
}

func TestLocalTimerGateUpdateEarlier(t *testing.T) {
	gate := NewLocalTimerGate(testLogger())
	defer gate.Close()

	assert.True(t, gate.Update(time.Now().Add(time.Hour)))
	// a sooner deadline reschedules the pending timer
	assert.True(t, gate.Update(time.Now().Add(50*time.Millisecond)))

	select {
	case <-gate.FireChan():
	case <-time.After(5 * time.Second):
		t.Fatal("timer gate did not fire")
	}
}

func TestLocalTimerGateKeepsEarlierDeadline(t *testing.T) {
	gate := NewLocalTimerGate(testLogger())
	defer gate.Close()

	assert.True(t, gate.Update(time.Now().Add(200*time.Millisecond)))
	// a later deadline does not displace the pending earlier one
	assert.False(t, gate.Update(time.Now().Add(time.Hour)))

	select {
	case <-gate.FireChan():
	case <-time.After(5 * time.Second):
		t.Fatal("timer gate did not fire")
	}
}

func TestLocalTimerGateFireAfter(t *testing.T) {
	gate := NewLocalTimerGate(testLogger())
	defer gate.Close()

	deadline := time.Now().Add(time.Hour)
	gate.Update(deadline)

	assert.True(t, gate.FireAfter(deadline.Add(-time.Minute)))
	assert.False(t, gate.FireAfter(deadline.Add(time.Minute)))
}
