package worker

import (
	"text2phenotype.com/hmmtagger/tasks"
	"context"
	"fmt"
	"time"
)

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func formattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}

// taskStore keeps the task bookkeeping shared with the rest of the processing cluster.
type taskStore interface {
	getChunkTask(ctx context.Context, redisKey string) (*tasks.ChunkTask, error)
	getJobTask(ctx context.Context, task *Task) (*tasks.JobTask, error)
	getDocTask(ctx context.Context, task *Task) (*tasks.DocumentTaskCached, error)
	onTaskStarted(ctx context.Context, task *Task) error
	onTaskCancelled(ctx context.Context, task *Task, errorMessages ...string) error
	onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error
	onTaskFailedWithError(ctx context.Context, task *Task, err error) error
	onTaskComplete(ctx context.Context, task *Task) error
	close()
}

type redisTaskStore struct {
	tasksClient *tasks.Client
}

func (store *redisTaskStore) close() {
	store.tasksClient.Close()
}

func (store *redisTaskStore) updateStatus(ctx context.Context, task *Task, update func(info *tasks.ChunkTaskInfo)) error {
	return store.tasksClient.Chunks.Update(ctx, task.redisKey, func(chunkTask *tasks.ChunkTask) {
		update(&chunkTask.TaskStatuses.Tagger)
	})
}

func (store *redisTaskStore) onTaskStarted(ctx context.Context, task *Task) error {
	return store.updateStatus(ctx, task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusStarted
		info.Attempts++
		info.StartedAt = formattedNow()
		info.CompletedAt = nil
	})
}

func (store *redisTaskStore) onTaskCancelled(ctx context.Context, task *Task, errorMessages ...string) error {
	return store.updateStatus(ctx, task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusCanceled
		info.StartedAt = formattedNow()
		info.CompletedAt = info.StartedAt
		info.Attempts++
		info.ErrorMessages = append(info.ErrorMessages, errorMessages...)
	})
}

func (store *redisTaskStore) onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error {
	err := store.tasksClient.Documents.Update(ctx, task.chunkTask.DocID, func(docTask *tasks.DocumentTask) {
		docTask.MarkFailed(task.redisKey)
	})
	if err != nil {
		return err
	}
	return store.updateStatus(ctx, task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusCompletedFailure
		info.StartedAt = formattedNow()
		info.CompletedAt = info.StartedAt
		info.Attempts++
		info.ErrorMessages = append(info.ErrorMessages, fmt.Sprintf(
			"Task has exceeded retries. (Attempts: %d, max retries: %d )",
			info.Attempts,
			maxRetries,
		))
	})
}

func (store *redisTaskStore) onTaskFailedWithError(ctx context.Context, task *Task, err error) error {
	return store.updateStatus(ctx, task, func(info *tasks.ChunkTaskInfo) {
		info.Status = tasks.TaskStatusFailed
		info.CompletedAt = formattedNow()
		info.ErrorMessages = append(info.ErrorMessages, err.Error())
	})
}

func (store *redisTaskStore) onTaskComplete(ctx context.Context, task *Task) error {
	return store.updateStatus(ctx, task, func(info *tasks.ChunkTaskInfo) {
		if !info.Status.Complete() {
			info.Status = tasks.TaskStatusCompletedSuccess
		}
		info.CompletedAt = formattedNow()
		info.ResultsFileKey = task.resultsFileKey()
	})
}

func (store *redisTaskStore) getChunkTask(ctx context.Context, redisKey string) (*tasks.ChunkTask, error) {
	return store.tasksClient.Chunks.Get(ctx, redisKey)
}

func (store *redisTaskStore) getJobTask(ctx context.Context, task *Task) (*tasks.JobTask, error) {
	return store.tasksClient.Jobs.GetCached(ctx, task.chunkTask.JobID)
}

func (store *redisTaskStore) getDocTask(ctx context.Context, task *Task) (*tasks.DocumentTaskCached, error) {
	return store.tasksClient.Documents.GetCached(ctx, task.chunkTask.DocID)
}
