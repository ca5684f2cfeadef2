// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmediateTaskPagesEmpty(t *testing.T) {
	var completedPages []*immediateTaskPage
	pages := mergeImmediateTaskPages(completedPages)

	assert.Equal(t, 0, len(pages))
}

func TestImmediateTaskPages(t *testing.T) {
	var completedPages []*immediateTaskPage
	completedPages = append(completedPages,
		&immediateTaskPage{
			minTaskSequence: 1,
			maxTaskSequence: 2,
		},
		&immediateTaskPage{
			minTaskSequence: 7,
			maxTaskSequence: 8,
		},
		&immediateTaskPage{
			minTaskSequence: 3,
			maxTaskSequence: 4,
		})
	pages := mergeImmediateTaskPages(completedPages)

	assert.Equal(t, 2, len(pages))
	assert.Equal(t, &immediateTaskPage{
		minTaskSequence: 1,
		maxTaskSequence: 4,
	}, pages[0])
	assert.Equal(t, &immediateTaskPage{
		minTaskSequence: 7,
		maxTaskSequence: 8,
	}, pages[1])
}

func TestImmediateTaskPagesOverlap(t *testing.T) {
	var completedPages []*immediateTaskPage
	completedPages = append(completedPages,
		&immediateTaskPage{
			minTaskSequence: 5,
			maxTaskSequence: 9,
		},
		&immediateTaskPage{
			minTaskSequence: 1,
			maxTaskSequence: 6,
		})
	pages := mergeImmediateTaskPages(completedPages)

	assert.Equal(t, 1, len(pages))
	assert.Equal(t, &immediateTaskPage{
		minTaskSequence: 1,
		maxTaskSequence: 9,
	}, pages[0])
}
