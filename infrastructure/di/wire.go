//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"visitdesk-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideSQSClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideAppointmentRecords,
	ProvideNotificationQueue,
	ProvideEventBus,
	ProvideMetrics,
	ProvideRescheduler,
	ProvideAppointmentService,
	ProvideMailSender,
	ProvideMailConsumer,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
