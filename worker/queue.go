package worker

import (
	"text2phenotype.com/hmmtagger/rmq"
	"text2phenotype.com/hmmtagger/tasks"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type taskQueue interface {
	pingSequencer(task *Task) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger)
	deliveries() <-chan amqp.Delivery
	requestErrors() <-chan *amqp.Error
	responseErrors() <-chan *amqp.Error
	close()
}

type rmqTaskQueue struct {
	rmqClient *rmq.Client
}

func (queue *rmqTaskQueue) close() {
	queue.rmqClient.Close()
}

func (queue *rmqTaskQueue) deliveries() <-chan amqp.Delivery {
	return queue.rmqClient.Deliveries
}

func (queue *rmqTaskQueue) requestErrors() <-chan *amqp.Error {
	return queue.rmqClient.ReqChanErrors
}

func (queue *rmqTaskQueue) responseErrors() <-chan *amqp.Error {
	return queue.rmqClient.RespChanErrors
}

// pingSequencer hands the task back to the sequencer with this service as the sender.
func (queue *rmqTaskQueue) pingSequencer(task *Task) error {
	message := *task.message
	message.Sender = tasks.TaggerTaskName
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return queue.rmqClient.SendMessageToSequencer(amqp.Publishing{
		ContentType: task.delivery.ContentType,
		Body:        b,
	})
}

func (queue *rmqTaskQueue) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// rejectDelivery requeues a delivery once; a redelivered one is dropped.
func (queue *rmqTaskQueue) rejectDelivery(delivery *amqp.Delivery, taskLogger *zerolog.Logger) {
	requeue := !delivery.Redelivered
	if requeue {
		taskLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	} else {
		taskLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
	}
	if err := delivery.Reject(requeue); err != nil {
		taskLogger.Err(err).Bool("requeue", requeue).Msg("Failed to reject delivery")
	}
}
