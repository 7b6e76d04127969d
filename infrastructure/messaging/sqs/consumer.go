package sqs

import (
	"context"
	"errors"
	"sync"

	"visitdesk-backend/application/ports"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

const (
	receiveWaitSeconds    = 20
	receiveBatchSize      = 10
	visibilityTimeoutSecs = 60
)

// Consumer polls the notification queue and hands each appointment to the
// mail sender. A message is deleted only after a successful send; failures
// leave it for redelivery after the visibility timeout.
type Consumer struct {
	client    SQSAPI
	queueName string
	sender    ports.MailSender
	logger    *zap.Logger

	mu       sync.Mutex
	queueURL string
}

// NewConsumer creates a new Consumer
func NewConsumer(client SQSAPI, queueName string, sender ports.MailSender, logger *zap.Logger) *Consumer {
	return &Consumer{
		client:    client,
		queueName: queueName,
		sender:    sender,
		logger:    logger,
	}
}

// Run polls until the context is cancelled. Receive errors are logged and
// polling continues; only context cancellation ends the loop.
func (c *Consumer) Run(ctx context.Context) error {
	queueURL, err := c.ensureQueue(ctx)
	if err != nil {
		return err
	}

	c.logger.Info("mailer consuming notification queue", zap.String("queue", c.queueName))

	for {
		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: receiveBatchSize,
			WaitTimeSeconds:     receiveWaitSeconds,
			VisibilityTimeout:   visibilityTimeoutSecs,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to receive from notification queue", zap.Error(err))
			continue
		}

		for _, msg := range out.Messages {
			c.handle(ctx, queueURL, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, queueURL string, msg types.Message) {
	appt, err := DecodeMessage(aws.ToString(msg.Body))
	if err != nil {
		// Undecodable payloads would redeliver forever; drop them.
		c.logger.Error("dropping malformed notification message",
			zap.String("messageID", aws.ToString(msg.MessageId)),
			zap.Error(err),
		)
		c.delete(ctx, queueURL, msg)
		return
	}

	if err := c.sender.SendConfirmation(ctx, appt); err != nil {
		c.logger.Error("failed to send confirmation, message left for redelivery",
			zap.String("appointmentID", appt.ID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("confirmation sent",
		zap.String("appointmentID", appt.ID),
		zap.String("date", appt.Date),
	)
	c.delete(ctx, queueURL, msg)
}

func (c *Consumer) delete(ctx context.Context, queueURL string, msg types.Message) {
	if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		c.logger.Warn("failed to delete consumed message", zap.Error(err))
	}
}

// ensureQueue mirrors the publisher side so either process can start first.
func (c *Consumer) ensureQueue(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queueURL != "" {
		return c.queueURL, nil
	}

	out, err := c.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(c.queueName),
	})
	if err == nil {
		c.queueURL = aws.ToString(out.QueueUrl)
		return c.queueURL, nil
	}

	var notFound *types.QueueDoesNotExist
	if !errors.As(err, &notFound) {
		return "", appErrors.NewDependencyError("sqs", err)
	}

	created, err := c.client.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName: aws.String(c.queueName),
	})
	if err != nil {
		return "", appErrors.NewDependencyError("sqs", err)
	}

	c.queueURL = aws.ToString(created.QueueUrl)
	return c.queueURL, nil
}
