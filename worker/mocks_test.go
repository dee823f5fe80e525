package worker

import (
	"text2phenotype.com/hmmtagger/pipeline"
	"text2phenotype.com/hmmtagger/tasks"
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln        pipeline.Pipeline
	config      pipelineMockConfig
	calls       pipelineCall
	lastRequest pipeline.Request
}

type pipelineMockConfig struct {
	fail   bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type storeMock struct {
	config storeMockConfig
	calls  storeMockCalls
}

type storeMockConfig struct {
	getChunkTask          withValue
	getJobTask            withValue
	getDocTask            withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type storeMockCalls struct {
	getChunkTask          bool
	getJobTask            bool
	getDocTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type queueMock struct {
	config queueMockConfig
	calls  queueMockCalls
}

type queueMockConfig struct {
	pingSequencer       failingMethod
	acknowledgeDelivery failingMethod
}

type queueMockCalls struct {
	pingSequencer       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type objectsMock struct {
	config objectsMockConfig
	calls  objectsMockCalls
}

type objectsMockConfig struct {
	getText           withValue
	getTrainingCorpus withValue
	saveResultsFile   failingMethod
}

type objectsMockCalls struct {
	getText           bool
	getTrainingCorpus bool
	saveResultsFile   bool
}

func (mock *objectsMock) close() {}

func (mock *queueMock) close() {}

func (mock *storeMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) <-chan string {
		mock.calls.pipeline = true
		mock.lastRequest = request
		if mock.config.fail {
			ch := make(chan string)
			close(ch)
			return ch
		}
		ch := make(chan string, 1)
		ch <- mock.config.result
		close(ch)
		return ch
	}
	return &mock
}

func (mock *storeMock) getChunkTask(ctx context.Context, redisKey string) (*tasks.ChunkTask, error) {
	mock.calls.getChunkTask = true
	if mock.config.getChunkTask.fail {
		return nil, errors.New("failed to get chunk task")
	}
	if task, ok := mock.config.getChunkTask.returnedValue.(tasks.ChunkTask); ok {
		return &task, nil
	}
	return &tasks.ChunkTask{}, nil
}

func (mock *storeMock) getJobTask(ctx context.Context, task *Task) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTask.fail {
		return nil, errors.New("failed to get job task")
	}
	if jobTask, ok := mock.config.getJobTask.returnedValue.(tasks.JobTask); ok {
		return &jobTask, nil
	}
	return &tasks.JobTask{}, nil
}

func (mock *storeMock) getDocTask(ctx context.Context, task *Task) (*tasks.DocumentTaskCached, error) {
	mock.calls.getDocTask = true
	if mock.config.getDocTask.fail {
		return nil, errors.New("failed to get doc task")
	}
	if docTask, ok := mock.config.getDocTask.returnedValue.(tasks.DocumentTaskCached); ok {
		return &docTask, nil
	}
	return &tasks.DocumentTaskCached{}, nil
}

func (mock *storeMock) onTaskStarted(ctx context.Context, task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update chunk task on start")
	}
	return nil
}

func (mock *storeMock) onTaskCancelled(ctx context.Context, task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update chunk task on cancel")
	}
	return nil
}

func (mock *storeMock) onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update chunk task on exceeded retries")
	}
	return nil
}

func (mock *storeMock) onTaskFailedWithError(ctx context.Context, task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update chunk task on fail with error")
	}
	return nil
}

func (mock *storeMock) onTaskComplete(ctx context.Context, task *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update chunk task on complete")
	}
	return nil
}

func (mock *queueMock) rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *queueMock) deliveries() <-chan amqp.Delivery {
	return nil
}

func (mock *queueMock) requestErrors() <-chan *amqp.Error {
	return nil
}

func (mock *queueMock) responseErrors() <-chan *amqp.Error {
	return nil
}

func (mock *queueMock) pingSequencer(task *Task) error {
	mock.calls.pingSequencer = true
	if mock.config.pingSequencer.fail {
		return errors.New("failed to ping sequencer")
	}
	return nil
}

func (mock *queueMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *objectsMock) getText(ctx context.Context, task *Task) ([]byte, error) {
	mock.calls.getText = true
	if mock.config.getText.fail {
		return nil, errors.New("mock: failed to load text from s3")
	}
	if text, ok := mock.config.getText.returnedValue.([]byte); ok {
		return text, nil
	}
	return []byte("some input"), nil
}

func (mock *objectsMock) getTrainingCorpus(ctx context.Context, task *Task) ([]byte, error) {
	mock.calls.getTrainingCorpus = true
	if mock.config.getTrainingCorpus.fail {
		return nil, errors.New("mock: failed to load training corpus from s3")
	}
	if corpus, ok := mock.config.getTrainingCorpus.returnedValue.([]byte); ok {
		return corpus, nil
	}
	return []byte("some=DET input=NOUN"), nil
}

func (mock *objectsMock) saveResultsFile(ctx context.Context, task *Task, result string) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	return nil
}
