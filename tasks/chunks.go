package tasks

import (
	"text2phenotype.com/hmmtagger/redis"
	"text2phenotype.com/hmmtagger/utils/maps"
	"context"
	"fmt"
	"path"
)

const ChunksDB redis.DB = 2

type ChunkTask struct {
	maps.BaseDocument
	DocID           string            `json:"document_id"`
	JobID           string            `json:"job_id"`
	TextFileKey     string            `json:"text_file_key"`
	TrainingFileKey string            `json:"training_file_key,omitempty"`
	TaskStatuses    ChunkTaskStatuses `json:"task_statuses"`
}

type ChunkTaskStatuses struct {
	Tagger ChunkTaskInfo `json:"tagger"`
}

type ChunkTaskInfo struct {
	ResultsFileKey string     `json:"results_file_key,omitempty"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	Dependencies   []string   `json:"dependencies"`
	ErrorMessages  []string   `json:"error_messages"`
}

// ResultsFileKey is where the tagging results of the chunk stored under redisKey go.
func (task *ChunkTask) ResultsFileKey(redisKey string) string {
	return path.Join(
		"processed",
		"documents",
		task.DocID,
		"chunks",
		redisKey,
		fmt.Sprintf("%s.%s_results.json", redisKey, TaggerTaskName),
	)
}

type ChunkTasks struct {
	client redis.Client
}

func (tasks ChunkTasks) Get(ctx context.Context, redisKey string) (*ChunkTask, error) {
	var task ChunkTask
	if err := tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks ChunkTasks) Update(ctx context.Context, redisKey string, update func(task *ChunkTask)) error {
	var task ChunkTask
	return redis.Update(ctx, &tasks.client, redisKey, &task, update)
}
