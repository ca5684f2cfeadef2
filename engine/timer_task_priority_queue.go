// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"container/heap"

	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

func NewTimerTaskPriorityQueue(tasks []data_models.TimerTask) TimerTaskPriorityQueue {
	hq := make(TimerTaskPriorityQueue, 0, len(tasks))
	for _, task := range tasks {
		t := task
		hq = append(hq, &t)
	}
	heap.Init(&hq)
	return hq
}

// A TimerTaskPriorityQueue implements heap.Interface, ordered by fire time.
type TimerTaskPriorityQueue []*data_models.TimerTask

func (pq *TimerTaskPriorityQueue) Len() int { return len(*pq) }

func (pq *TimerTaskPriorityQueue) Less(i, j int) bool {
	return (*pq)[i].FireTimestampSeconds < (*pq)[j].FireTimestampSeconds
}

func (pq *TimerTaskPriorityQueue) Swap(i, j int) {
	(*pq)[i], (*pq)[j] = (*pq)[j], (*pq)[i]
}

func (pq *TimerTaskPriorityQueue) Push(x any) {
	item, ok := x.(*data_models.TimerTask)
	if !ok {
		panic("Pushed item is not a TimerTask")
	}
	*pq = append(*pq, item)
}

func (pq *TimerTaskPriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	*pq = old[0 : n-1]
	return item
}
