// Package eventbridge publishes appointment lifecycle events to an
// EventBridge bus for downstream consumers.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "visitdesk.appointments"

// EventBridgeAPI is the subset of the EventBridge client the publisher uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventBus on EventBridge.
type Publisher struct {
	client  EventBridgeAPI
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(client EventBridgeAPI, busName string, logger *zap.Logger) ports.EventBus {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single lifecycle event to the bus.
func (p *Publisher) Publish(ctx context.Context, event appointment.Event) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal event")
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.Type),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return appErrors.NewDependencyError("eventbridge", err)
	}
	if out.FailedEntryCount > 0 {
		return appErrors.NewDependencyError("eventbridge",
			fmt.Errorf("%d event entries rejected", out.FailedEntryCount))
	}

	p.logger.Debug("event published",
		zap.String("eventType", event.Type),
		zap.String("appointmentID", event.AppointmentID),
	)

	return nil
}
