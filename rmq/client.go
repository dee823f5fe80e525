package rmq

import (
	"text2phenotype.com/hmmtagger/logger"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type Config struct {
	Host                    string `envconfig:"MDL_COMN_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"MDL_COMN_RMQ_PORT" required:"true"`
	Username                string `envconfig:"MDL_COMN_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"MDL_COMN_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"MDL_COMN_RMQ_DEFAULT_EXCHANGE" default:"text2phenotype-default-exchange"`
	MaxParallelRequestCount int    `envconfig:"TAGGER_MQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaggerTaskQueue         string `envconfig:"MDL_COMN_TAGGER_TASK_QUEUE" required:"true"`
	SequencerTaskQueue      string `envconfig:"MDL_COMN_SEQUENCER_TASK_QUEUE" required:"true"`
}

func (config Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

// Client consumes tagger tasks on one connection and publishes to the sequencer on
// another, so a blocked publisher does not stall consumption.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	consumer       *connection
	publisher      *connection
	logger         zerolog.Logger
}

type connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func dial(url string) (*connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &connection{conn: conn, channel: ch}, nil
}

func (c *connection) close() {
	if c != nil {
		_ = c.conn.Close()
	}
}

func NewClient() (*Client, error) {
	taggerLogger := logger.NewLogger("RMQ client")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		taggerLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	client := &Client{config: config, logger: taggerLogger}
	if err := client.connect(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) connect() error {
	var err error
	url := c.config.URL()
	if c.publisher, err = dial(url); err != nil {
		return fmt.Errorf("publisher connection: %w", err)
	}
	if c.consumer, err = dial(url); err != nil {
		return fmt.Errorf("consumer connection: %w", err)
	}

	ch := c.consumer.channel
	queue, err := ch.QueueDeclarePassive(c.config.TaggerTaskQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare %s: %w", c.config.TaggerTaskQueue, err)
	}
	if err = ch.QueueBind(queue.Name, queue.Name, c.config.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s: %w", queue.Name, err)
	}
	if err = ch.Qos(c.config.MaxParallelRequestCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if c.Deliveries, err = ch.Consume(queue.Name, "", false, false, false, false, nil); err != nil {
		return fmt.Errorf("consume deliveries: %w", err)
	}
	c.ReqChanErrors = ch.NotifyClose(make(chan *amqp.Error, 1))
	c.RespChanErrors = c.publisher.channel.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info().
		Str("queue", queue.Name).
		Int("prefetch", c.config.MaxParallelRequestCount).
		Msg("Consuming tagger tasks")
	return nil
}

func (c *Client) SendMessageToSequencer(msg amqp.Publishing) error {
	return c.publisher.channel.Publish(c.config.Exchange, c.config.SequencerTaskQueue, false, false, msg)
}

func (c *Client) Close() {
	c.consumer.close()
	c.publisher.close()
}
