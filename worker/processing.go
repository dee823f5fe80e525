package worker

import (
	"text2phenotype.com/hmmtagger/pipeline"
	"text2phenotype.com/hmmtagger/tasks"
	"text2phenotype.com/hmmtagger/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

var errNoPipelineResult = errors.New("pipeline channel was closed before returning anything")

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery  *amqp.Delivery
	chunkTask *tasks.ChunkTask
	message   *Message
	redisKey  string
	logger    *zerolog.Logger
}

func (task *Task) resultsFileKey() string {
	return task.chunkTask.ResultsFileKey(task.redisKey)
}

func (worker *Worker) processMessage(ctx context.Context, delivery *amqp.Delivery) {
	rejectLogger := worker.logger.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(ctx, delivery)
	if err != nil {
		rejectLogger.Err(err).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.queue.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(ctx, task); err != nil {
		worker.queue.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.queue.pingSequencer(task); err != nil {
		task.logger.Err(err).Msg("Got error while sending message to sequencer queue")
		worker.queue.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.queue.acknowledgeDelivery(delivery); err != nil {
		task.logger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.logger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(ctx context.Context, delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	chunkTask, err := worker.store.getChunkTask(ctx, message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk task for message: %w", err)
	}
	taskLogger := worker.logger.With().
		Str("tid", message.RedisKey).
		Str("document_id", chunkTask.DocID).
		Logger()
	return &Task{
		delivery:  delivery,
		chunkTask: chunkTask,
		redisKey:  message.RedisKey,
		message:   &message,
		logger:    &taskLogger,
	}, nil
}

// processTask returns an error only when the delivery has to be rejected. Pipeline
// failures are recorded on the chunk task and handed back to the sequencer.
func (worker *Worker) processTask(ctx context.Context, task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(ctx, task)
	if err != nil {
		task.logger.Err(err).Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.store.onTaskStarted(ctx, task); err != nil {
		task.logger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}
	if err = worker.runPipeline(ctx, task); err != nil {
		task.logger.Err(err).Msg("Got error while running pipeline")
		return worker.store.onTaskFailedWithError(ctx, task, err)
	}
	task.logger.Info().Str("results_file_key", task.resultsFileKey()).Msg("Saved results, marking task as complete")
	if err = worker.store.onTaskComplete(ctx, task); err != nil {
		task.logger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(ctx context.Context, task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.logger.Info().
		Int("attempt", task.chunkTask.TaskStatuses.Tagger.Attempts).
		Msg("Processing message from RMQ")

	request, err := worker.buildRequest(ctx, task)
	if err != nil {
		return err
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.logger.Error().Msg("Pipeline channel was closed before returning anything")
		return errNoPipelineResult
	}
	task.logger.Info().Msg("Finished pipeline, saving results to s3")
	if err = worker.objects.saveResultsFile(ctx, task, result); err != nil {
		return fmt.Errorf("failed to save results to s3: %w", err)
	}
	return nil
}

func (worker *Worker) buildRequest(ctx context.Context, task *Task) (pipeline.Request, error) {
	text, err := worker.objects.getText(ctx, task)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to fetch text from s3: %w", err)
	}
	request := pipeline.Request{
		Tid:  task.redisKey,
		Text: string(text),
	}
	if task.chunkTask.TrainingFileKey == "" {
		return request, nil
	}
	training, err := worker.objects.getTrainingCorpus(ctx, task)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to fetch training corpus from s3: %w", err)
	}
	request.Training = string(training)
	return request, nil
}

func (worker *Worker) shouldPerformTask(ctx context.Context, task *Task) (bool, error) {
	taskInfo := task.chunkTask.TaskStatuses.Tagger
	taskLogger := task.logger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending back to Sequencer.")
		return false, nil
	}
	job, err := worker.store.getJobTask(ctx, task)
	if err != nil {
		taskLogger.Err(err).Msg("Failed to query job task for chunk task")
		return false, err
	}
	if job.UserCanceled {
		taskLogger.Info().Msg("Job was canceled, no need to perform this task. Sending back to Sequencer.")
		return false, worker.store.onTaskCancelled(ctx, task)
	}
	if job.StopDocumentsOnFailure {
		docTask, err := worker.store.getDocTask(ctx, task)
		if err != nil {
			return false, err
		}
		if len(docTask.FailedTasks) > 0 {
			failedTask := docTask.FailedTasks[0]
			taskLogger.Info().
				Str("failed_task", failedTask).
				Msg("Document already failed in another task and won't be processed successfully. Sending back to Sequencer.")
			return false, worker.store.onTaskCancelled(ctx, task, fmt.Sprintf(
				"Task was marked as \"%s\" because of the current document has failed "+
					"in the \"%s\" worker and won't be processed successfully.",
				tasks.TaskStatusCanceled,
				failedTask,
			))
		}
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Int("attempts", taskInfo.Attempts).Msg("Tagger task has exceeded retries. Sending back to Sequencer.")
		return false, worker.store.onTaskExceededRetries(ctx, task, worker.config.TaskMaxRetries)
	}
	return true, nil
}
