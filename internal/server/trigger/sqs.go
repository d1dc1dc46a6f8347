package trigger

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/dmitrijs2005/photoshare/internal/logging"
	"github.com/dmitrijs2005/photoshare/internal/server/pipeline"
)

// Indirections over the AWS SDK so tests can script queue behaviour.
var (
	newSQSClientFromConfig = func(cfg aws.Config, optFns ...func(*sqs.Options)) *sqs.Client {
		return sqs.NewFromConfig(cfg, optFns...)
	}
	receiveMessage = func(c *sqs.Client, ctx context.Context, in *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
		return c.ReceiveMessage(ctx, in)
	}
	deleteMessage = func(c *sqs.Client, ctx context.Context, in *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
		return c.DeleteMessage(ctx, in)
	}
)

const (
	receiveBatchSize = 10
	waitTimeSeconds  = 20
	receiveBackoff   = time.Second
)

// EventDispatcher is the dispatcher surface the consumer needs.
type EventDispatcher interface {
	Dispatch(ctx context.Context, data []byte) ([]pipeline.Outcome, error)
}

// Consumer long-polls an SQS queue for object-created events. Delivery is
// at-least-once: a message is deleted only when no record needs redelivery,
// otherwise it reappears after the visibility timeout and the pipeline's
// idempotence absorbs the repeat.
type Consumer struct {
	client     *sqs.Client
	queueURL   string
	dispatcher EventDispatcher
	logger     logging.Logger
}

func NewConsumer(cfg aws.Config, queueURL string, dispatcher EventDispatcher, logger logging.Logger) *Consumer {
	return &Consumer{
		client:     newSQSClientFromConfig(cfg),
		queueURL:   queueURL,
		dispatcher: dispatcher,
		logger:     logger.With("module", "sqs_consumer"),
	}
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info(ctx, "starting queue consumer", "queue_url", c.queueURL)

	for {
		if err := ctx.Err(); err != nil {
			c.logger.Info(ctx, "stopping queue consumer")
			return nil
		}

		out, err := receiveMessage(c.client, ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: receiveBatchSize,
			WaitTimeSeconds:     waitTimeSeconds,
		})
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info(ctx, "stopping queue consumer")
				return nil
			}
			c.logger.Error(ctx, "receive failed", "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(receiveBackoff):
			}
			continue
		}

		for _, msg := range out.Messages {
			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg types.Message) {
	body := ""
	if msg.Body != nil {
		body = *msg.Body
	}

	outcomes, err := c.dispatcher.Dispatch(ctx, []byte(body))
	if err != nil {
		// Not an S3 event; retrying can never help, so drop it.
		c.logger.Warn(ctx, "dropping undecodable message", "error", err.Error())
		c.delete(ctx, msg)
		return
	}

	for _, out := range outcomes {
		if out.Retryable() {
			c.logger.Warn(ctx, "leaving message for redelivery",
				"key", out.Key, "kind", string(out.Kind), "diagnostic", out.Diagnostic)
			return
		}
	}

	c.delete(ctx, msg)
}

func (c *Consumer) delete(ctx context.Context, msg types.Message) {
	_, err := deleteMessage(c.client, ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		// The message will be redelivered; idempotent processing makes
		// that harmless.
		c.logger.Warn(ctx, "delete failed", "error", err.Error())
	}
}
