package worker

import (
	"text2phenotype.com/hmmtagger/logger"
	"text2phenotype.com/hmmtagger/pipeline"
	"text2phenotype.com/hmmtagger/rmq"
	"text2phenotype.com/hmmtagger/s3client"
	"text2phenotype.com/hmmtagger/tasks"
	"context"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"sync"
)

type Config struct {
	TaskMaxRetries int `envconfig:"MDL_COMN_RETRY_TASK_COUNT_MAX" default:"3"`
}

type Worker struct {
	config  Config
	store   taskStore
	objects objectStore
	queue   taskQueue
	logger  zerolog.Logger
	ppln    pipeline.Pipeline
	running sync.WaitGroup
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	taggerLogger := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		taggerLogger.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := &Worker{
		config: config,
		logger: taggerLogger,
		ppln:   ppln,
	}
	clients := []struct {
		name    string
		refresh func() error
	}{
		{"RMQ", worker.refreshTaskQueue},
		{"S3", worker.refreshObjectStore},
		{"Redis", worker.refreshTaskStore},
	}
	for _, client := range clients {
		if err := client.refresh(); err != nil {
			taggerLogger.Error().Err(err).Str("client", client.name).Msg("Could not create client")
			worker.Close()
			return nil, err
		}
	}
	return worker, nil
}

// StartWorker consumes tasks until ctx is done or the RMQ connection cannot be restored.
// Tasks in progress are finished before it returns.
func (worker *Worker) StartWorker(ctx context.Context) error {
	defer worker.Close()
	defer worker.running.Wait()
	for {
		select {
		case <-ctx.Done():
			worker.logger.Info().Msg("Stopping worker")
			return ctx.Err()
		case delivery, ok := <-worker.queue.deliveries():
			if ok {
				worker.running.Add(1)
				go func() {
					defer worker.running.Done()
					worker.processMessage(ctx, &delivery)
				}()
				continue
			}
			if err := worker.recoverQueue("deliveries channel closed", nil); err != nil {
				return err
			}
		case rmqErr := <-worker.queue.responseErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.recoverQueue("response connection received error", rmqErr); err != nil {
				return err
			}
		case rmqErr := <-worker.queue.requestErrors():
			if rmqErr == nil {
				continue
			}
			if err := worker.recoverQueue("request connection received error", rmqErr); err != nil {
				return err
			}
		}
	}
}

func (worker *Worker) recoverQueue(reason string, cause error) error {
	worker.logger.Err(cause).Msgf("RMQ %s, trying to refresh RMQ client", reason)
	if err := worker.refreshTaskQueue(); err != nil {
		return fmt.Errorf("rmq %s and refresh failed with: %w", reason, err)
	}
	return nil
}

func (worker *Worker) Close() {
	if worker.store != nil {
		worker.store.close()
	}
	if worker.objects != nil {
		worker.objects.close()
	}
	if worker.queue != nil {
		worker.queue.close()
	}
}

func (worker *Worker) refreshTaskStore() error {
	tasksClient, err := tasks.NewClient()
	if err != nil {
		return err
	}
	if worker.store != nil {
		worker.store.close()
	}
	worker.store = &redisTaskStore{&tasksClient}
	worker.logger.Info().Msg("Refreshed Redis client")
	return nil
}

func (worker *Worker) refreshTaskQueue() error {
	rmqClient, err := rmq.NewClient()
	if err != nil {
		return err
	}
	if worker.queue != nil {
		worker.queue.close()
	}
	worker.queue = &rmqTaskQueue{rmqClient}
	worker.logger.Info().Msg("Refreshed RMQ client")
	return nil
}

func (worker *Worker) refreshObjectStore() error {
	s3Client, err := s3client.New()
	if err != nil {
		return err
	}
	if worker.objects != nil {
		worker.objects.close()
	}
	worker.objects = &s3ObjectStore{s3Client}
	worker.logger.Info().Msg("Refreshed S3 client")
	return nil
}
