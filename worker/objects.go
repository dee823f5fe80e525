package worker

import (
	"text2phenotype.com/hmmtagger/s3client"
	"context"
)

type objectStore interface {
	getText(ctx context.Context, task *Task) ([]byte, error)
	getTrainingCorpus(ctx context.Context, task *Task) ([]byte, error)
	saveResultsFile(ctx context.Context, task *Task, result string) error
	close()
}

type s3ObjectStore struct {
	s3Client *s3client.Client
}

func (store *s3ObjectStore) close() {
	store.s3Client.Close()
}

func (store *s3ObjectStore) saveResultsFile(ctx context.Context, task *Task, result string) error {
	return store.s3Client.Upload(ctx, task.resultsFileKey(), []byte(result))
}

func (store *s3ObjectStore) getText(ctx context.Context, task *Task) ([]byte, error) {
	return store.s3Client.Download(ctx, task.chunkTask.TextFileKey)
}

func (store *s3ObjectStore) getTrainingCorpus(ctx context.Context, task *Task) ([]byte, error) {
	return store.s3Client.Download(ctx, task.chunkTask.TrainingFileKey)
}
