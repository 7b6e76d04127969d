// Package sqs carries confirmation notifications between the API and the
// mailer over an SQS queue. Payloads are base64-encoded JSON appointments.
package sqs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client this package uses.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	CreateQueue(ctx context.Context, params *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Publisher implements ports.NotificationQueue. The queue is created on
// first use when it does not exist yet; the resolved URL is cached for the
// process lifetime. No retry or dead-letter handling at this layer.
type Publisher struct {
	client    SQSAPI
	queueName string
	logger    *zap.Logger

	mu       sync.Mutex
	queueURL string
}

// NewPublisher creates a new Publisher
func NewPublisher(client SQSAPI, queueName string, logger *zap.Logger) ports.NotificationQueue {
	return &Publisher{
		client:    client,
		queueName: queueName,
		logger:    logger,
	}
}

// Enqueue serializes the appointment and sends it to the notification queue.
func (p *Publisher) Enqueue(ctx context.Context, appt appointment.Appointment) error {
	queueURL, err := p.ensureQueue(ctx)
	if err != nil {
		return err
	}

	body, err := EncodeMessage(appt)
	if err != nil {
		return appErrors.Wrap(err, "failed to encode notification")
	}

	if _, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(body),
	}); err != nil {
		p.logger.Error("failed to enqueue notification",
			zap.String("appointmentID", appt.ID),
			zap.Error(err),
		)
		return appErrors.NewDependencyError("sqs", err)
	}

	return nil
}

// ensureQueue resolves the queue URL, creating the queue when absent. The
// create is idempotent for a queue with unchanged attributes.
func (p *Publisher) ensureQueue(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queueURL != "" {
		return p.queueURL, nil
	}

	out, err := p.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(p.queueName),
	})
	if err == nil {
		p.queueURL = aws.ToString(out.QueueUrl)
		return p.queueURL, nil
	}

	var notFound *types.QueueDoesNotExist
	if !errors.As(err, &notFound) {
		return "", appErrors.NewDependencyError("sqs", err)
	}

	created, err := p.client.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName: aws.String(p.queueName),
	})
	if err != nil {
		return "", appErrors.NewDependencyError("sqs", err)
	}

	p.logger.Info("notification queue created", zap.String("queue", p.queueName))
	p.queueURL = aws.ToString(created.QueueUrl)
	return p.queueURL, nil
}

// EncodeMessage serializes an appointment for queue transport.
func EncodeMessage(appt appointment.Appointment) (string, error) {
	body, err := json.Marshal(appt)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(body), nil
}

// DecodeMessage parses a queue message body back into an appointment.
func DecodeMessage(body string) (appointment.Appointment, error) {
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return appointment.Appointment{}, err
	}

	var appt appointment.Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		return appointment.Appointment{}, err
	}
	return appt, nil
}
