// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

type immediateTaskQueueImpl struct {
	shardId int32
	store   persistence.TaskStore
	logger  log.Logger
	rootCtx context.Context
	cfg     config.Config

	processor ImmediateTaskProcessor

	// pollTimer schedules polling archive tasks and dispatching to processor
	pollTimer TimerGate
	// commitTimer schedules batch deletion of completed task pages
	commitTimer TimerGate

	// tasksToCommitChan is the channel to receive completed tasks from processor
	tasksToCommitChan chan data_models.ImmediateTask
	// currentReadCursor is the starting sequenceId(inclusive) to read next immediate tasks
	currentReadCursor int64
	// pendingTaskSequenceToPage is the mapping from task sequence to page
	pendingTaskSequenceToPage map[int64]*immediateTaskPage
	// completedPages is the pages that are ready to be committed
	completedPages []*immediateTaskPage
}

type immediateTaskPage struct {
	minTaskSequence int64
	maxTaskSequence int64
	pendingCount    int
}

func NewImmediateTaskQueueImpl(
	rootCtx context.Context, shardId int32, cfg config.Config, store persistence.TaskStore,
	processor ImmediateTaskProcessor, logger log.Logger,
) ImmediateTaskQueue {
	qCfg := cfg.AsyncService.ArchiveTaskQueue

	return &immediateTaskQueueImpl{
		shardId: shardId,
		store:   store,
		logger:  logger.WithTags(tag.Shard(shardId)),
		rootCtx: rootCtx,
		cfg:     cfg,

		pollTimer:                 NewLocalTimerGate(logger),
		commitTimer:               NewLocalTimerGate(logger),
		processor:                 processor,
		tasksToCommitChan:         make(chan data_models.ImmediateTask, qCfg.ProcessorBufferSize),
		currentReadCursor:         0,
		pendingTaskSequenceToPage: make(map[int64]*immediateTaskPage),
	}
}

func (w *immediateTaskQueueImpl) Stop(ctx context.Context) error {
	// commit whatever is already completed before closing the timers,
	// otherwise those tasks would be re-processed after a restart
	err := w.commitCompletedPages(ctx)

	w.pollTimer.Close()
	w.commitTimer.Close()
	return err
}

func (w *immediateTaskQueueImpl) TriggerPollingTasks(_ data_models.NotifyImmediateTasksRequest) {
	w.pollTimer.Update(time.Now())
}

func (w *immediateTaskQueueImpl) Start() error {
	qCfg := w.cfg.AsyncService.ArchiveTaskQueue

	w.processor.AddImmediateTaskQueue(w.shardId, w.tasksToCommitChan)

	// fire immediately to make the first poll for the first page
	w.pollTimer.Update(time.Now())
	w.commitTimer.Update(w.getNextPollTime(qCfg.CommitInterval, qCfg.IntervalJitter))

	go func() {
		for {
			select {
			case <-w.pollTimer.FireChan():
				w.pollAndDispatchAndPrepareNext()
			case <-w.commitTimer.FireChan():
				_ = w.commitCompletedPages(w.rootCtx)
				w.commitTimer.Update(w.getNextPollTime(qCfg.CommitInterval, qCfg.IntervalJitter))
			case task, ok := <-w.tasksToCommitChan:
				if ok {
					w.receiveCompletedTask(task)
				}
			case <-w.rootCtx.Done():
				w.logger.Info(fmt.Sprintf("immediateTaskQueue %d is being closed", w.shardId))
				return
			}
		}
	}()
	return nil
}

func (w *immediateTaskQueueImpl) getNextPollTime(interval, jitter time.Duration) time.Time {
	jitterD := time.Duration(rand.Int63n(int64(jitter)))
	return time.Now().Add(interval).Add(jitterD)
}

func (w *immediateTaskQueueImpl) pollAndDispatchAndPrepareNext() {
	qCfg := w.cfg.AsyncService.ArchiveTaskQueue

	resp, err := w.store.GetImmediateTasks(
		w.rootCtx, data_models.GetImmediateTasksRequest{
			ShardId:                w.shardId,
			StartSequenceInclusive: w.currentReadCursor,
			PageSize:               qCfg.PollPageSize,
		})

	if err != nil {
		w.logger.Error("failed at polling immediate tasks", tag.Error(err))
		// schedule an earlier next poll
		w.pollTimer.Update(w.getNextPollTime(0, qCfg.IntervalJitter))
	} else {
		if len(resp.Tasks) > 0 {
			w.currentReadCursor = resp.MaxSequenceInclusive + 1

			page := &immediateTaskPage{
				minTaskSequence: resp.MinSequenceInclusive,
				maxTaskSequence: resp.MaxSequenceInclusive,
				pendingCount:    len(resp.Tasks),
			}

			for _, task := range resp.Tasks {
				w.processor.GetTasksToProcessChan() <- task
				w.pendingTaskSequenceToPage[*task.TaskSequence] = page
			}
		}
		w.logger.Debug("polled immediate tasks", tag.Value(len(resp.Tasks)))

		w.pollTimer.Update(w.getNextPollTime(qCfg.MaxPollInterval, qCfg.IntervalJitter))
	}
}

func mergeImmediateTaskPages(taskPages []*immediateTaskPage) []*immediateTaskPage {
	// merge pages, e.g.,
	// [1, 2], [3, 4], [7, 8] -> [1, 4], [7, 8]
	sort.Slice(taskPages, func(i, j int) bool {
		return taskPages[i].minTaskSequence < taskPages[j].minTaskSequence
	})

	var pages []*immediateTaskPage
	for _, page := range taskPages {
		if len(pages) == 0 || pages[len(pages)-1].maxTaskSequence+1 < page.minTaskSequence {
			pages = append(pages, page)
		} else {
			if pages[len(pages)-1].maxTaskSequence < page.maxTaskSequence {
				page = &immediateTaskPage{
					minTaskSequence: pages[len(pages)-1].minTaskSequence,
					maxTaskSequence: page.maxTaskSequence,
				}
				pages[len(pages)-1] = page
			}
		}
	}

	return pages
}

func (w *immediateTaskQueueImpl) receiveCompletedTask(task data_models.ImmediateTask) {
	page := w.pendingTaskSequenceToPage[*task.TaskSequence]
	delete(w.pendingTaskSequenceToPage, *task.TaskSequence)

	page.pendingCount--
	if page.pendingCount == 0 {
		w.completedPages = append(w.completedPages, page)
	}
}

// commitCompletedPages deletes the task ranges whose every task has been
// processed. Pages that fail to delete stay for the next commit.
func (w *immediateTaskQueueImpl) commitCompletedPages(ctx context.Context) error {
	if len(w.completedPages) == 0 {
		return nil
	}
	pages := mergeImmediateTaskPages(w.completedPages)

	var lastErr error
	var remaining []*immediateTaskPage
	for _, page := range pages {
		err := w.store.DeleteImmediateTasks(ctx, data_models.DeleteImmediateTasksRequest{
			ShardId:                  w.shardId,
			MinTaskSequenceInclusive: page.minTaskSequence,
			MaxTaskSequenceInclusive: page.maxTaskSequence,
		})
		if err != nil {
			w.logger.Error("failed at deleting completed immediate tasks", tag.Error(err))
			lastErr = err
			remaining = append(remaining, page)
		}
	}
	w.completedPages = remaining
	return lastErr
}
