package di

import (
	"context"
	"fmt"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/application/services"
	"visitdesk-backend/infrastructure/config"
	"visitdesk-backend/infrastructure/email"
	"visitdesk-backend/infrastructure/messaging/eventbridge"
	"visitdesk-backend/infrastructure/messaging/sqs"
	"visitdesk-backend/infrastructure/persistence/dynamodb"
	"visitdesk-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Records      ports.AppointmentRecords
	Queue        ports.NotificationQueue
	Events       ports.EventBus
	Metrics      *observability.Metrics
	Rescheduler  *services.Rescheduler
	Service      *services.AppointmentService
	MailSender   ports.MailSender
	MailConsumer *sqs.Consumer
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideSQSClient creates an SQS client
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideAppointmentRecords creates the appointment record store
func ProvideAppointmentRecords(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AppointmentRecords {
	return dynamodb.NewAppointmentRepository(client, cfg.TableName, cfg.IDIndexName, logger)
}

// ProvideNotificationQueue creates the notification queue publisher
func ProvideNotificationQueue(client *awssqs.Client, cfg *config.Config, logger *zap.Logger) ports.NotificationQueue {
	return sqs.NewPublisher(client, cfg.QueueName, logger)
}

// ProvideEventBus creates the lifecycle event publisher
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Visitdesk/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideRescheduler creates the update resolver
func ProvideRescheduler(records ports.AppointmentRecords, events ports.EventBus, logger *zap.Logger) *services.Rescheduler {
	return services.NewRescheduler(records, events, logger)
}

// ProvideAppointmentService creates the appointment service
func ProvideAppointmentService(
	records ports.AppointmentRecords,
	queue ports.NotificationQueue,
	events ports.EventBus,
	rescheduler *services.Rescheduler,
	logger *zap.Logger,
) *services.AppointmentService {
	return services.NewAppointmentService(records, queue, events, rescheduler, logger)
}

// ProvideMailSender creates the confirmation mail sender
func ProvideMailSender(cfg *config.Config, logger *zap.Logger) ports.MailSender {
	return email.NewResendSender(cfg.MailAPIKey, cfg.MailFrom, logger)
}

// ProvideMailConsumer creates the notification queue consumer
func ProvideMailConsumer(client *awssqs.Client, cfg *config.Config, sender ports.MailSender, logger *zap.Logger) *sqs.Consumer {
	return sqs.NewConsumer(client, cfg.QueueName, sender, logger)
}
