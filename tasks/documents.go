package tasks

import (
	"text2phenotype.com/hmmtagger/redis"
	"text2phenotype.com/hmmtagger/utils/maps"
	"context"
	"sync"
)

const DocumentsDB redis.DB = 0

type DocumentTask struct {
	maps.BaseDocument
	FailedTasks  []string            `json:"failed_tasks"`
	FailedChunks map[string][]string `json:"failed_chunks"`
}

// MarkFailed records that the tagger failed for the chunk.
func (task *DocumentTask) MarkFailed(chunkKey string) {
	task.FailedTasks = append(task.FailedTasks, TaggerTaskName)
	if task.FailedChunks == nil {
		task.FailedChunks = make(map[string][]string)
	}
	task.FailedChunks[chunkKey] = append(task.FailedChunks[chunkKey], TaggerTaskName)
}

// DocumentTaskCached is the subset of a document task mirrored under the cached properties key.
type DocumentTaskCached struct {
	maps.BaseDocument
	FailedTasks []string `json:"failed_tasks"`
	JobID       string   `json:"job_id"`
	WorkType    string   `json:"work_type"`
}

type DocumentTasks struct {
	client redis.Client
}

func (tasks DocumentTasks) Get(ctx context.Context, redisKey string) (*DocumentTask, error) {
	var task DocumentTask
	if err := tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks DocumentTasks) GetCached(ctx context.Context, redisKey string) (*DocumentTaskCached, error) {
	var task DocumentTaskCached
	if err := tasks.client.GetDocument(ctx, cachedPropertiesKey(redisKey), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update changes the document task and refreshes its cached properties with the same lock held.
func (tasks DocumentTasks) Update(ctx context.Context, redisKey string, update func(task *DocumentTask)) (err error) {
	release, err := tasks.client.Lock(ctx, redisKey)
	if err != nil {
		return err
	}
	defer func() {
		releaseErr := release()
		if err == nil {
			err = releaseErr
		}
	}()

	var task DocumentTask
	if err = tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return err
	}
	if err = maps.ApplyUpdates(&task, update); err != nil {
		return err
	}
	var cached DocumentTaskCached
	if err = maps.CopyValues(&task, &cached); err != nil {
		return err
	}

	saves := map[string]maps.PartialDocument{
		redisKey:                      &task,
		cachedPropertiesKey(redisKey): &cached,
	}
	errChan := make(chan error, len(saves))
	var wg sync.WaitGroup
	for key, doc := range saves {
		wg.Add(1)
		go func(key string, doc maps.PartialDocument) {
			defer wg.Done()
			errChan <- tasks.client.SaveDocument(ctx, key, doc)
		}(key, doc)
	}
	wg.Wait()
	close(errChan)
	for err = range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}
