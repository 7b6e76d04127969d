package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"
	"visitdesk-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pkPrefix = "DATE#"
	skPrefix = "APPT#"

	entityTypeAppointment = "APPOINTMENT"
	gsi1MetadataSK        = "METADATA"
)

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// AppointmentRepository implements ports.AppointmentRecords on a single
// DynamoDB table. The composite key is PK = DATE#<date>, SK = APPT#<id>;
// GSI1 (GSI1PK = APPT#<id>) gives the cross-partition point lookup by id.
// The ETag attribute is the concurrency token: rewritten on every put,
// checked by conditional expressions on replace and delete.
type AppointmentRepository struct {
	client    DynamoDBAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(client DynamoDBAPI, tableName, indexName string, logger *zap.Logger) ports.AppointmentRecords {
	return &AppointmentRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// appointmentItem represents the DynamoDB item structure for an appointment
type appointmentItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	EntityType    string `dynamodbav:"EntityType"`
	AppointmentID string `dynamodbav:"AppointmentID"`
	Date          string `dynamodbav:"Date"`
	FirstName     string `dynamodbav:"FirstName"`
	LastName      string `dynamodbav:"LastName"`
	Email         string `dynamodbav:"Email"`
	Phone         string `dynamodbav:"Phone"`
	TimeSlot      string `dynamodbav:"TimeSlot"`
	Location      string `dynamodbav:"Location,omitempty"`
	ETag          string `dynamodbav:"ETag"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

func toItem(rec appointment.Record, etag string) appointmentItem {
	return appointmentItem{
		PK:            pkPrefix + rec.Date,
		SK:            skPrefix + rec.ID,
		GSI1PK:        skPrefix + rec.ID,
		GSI1SK:        gsi1MetadataSK,
		EntityType:    entityTypeAppointment,
		AppointmentID: rec.ID,
		Date:          rec.Date,
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		Email:         rec.Email,
		Phone:         rec.Phone,
		TimeSlot:      rec.TimeSlot,
		Location:      rec.Location,
		ETag:          etag,
		UpdatedAt:     utils.NowRFC3339(),
	}
}

func (it appointmentItem) record() appointment.Record {
	return appointment.Record{
		Date:      it.Date,
		ID:        it.AppointmentID,
		FirstName: it.FirstName,
		LastName:  it.LastName,
		Email:     it.Email,
		Phone:     it.Phone,
		TimeSlot:  it.TimeSlot,
		Location:  it.Location,
		ETag:      it.ETag,
	}
}

// Insert writes a new appointment row, failing with a conflict when the
// (date, id) key is already taken.
func (r *AppointmentRepository) Insert(ctx context.Context, rec appointment.Record) (appointment.Record, error) {
	item := toItem(rec, uuid.New().String())

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appointment.Record{}, appErrors.Wrap(err, "failed to marshal appointment")
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return appointment.Record{}, appErrors.NewConflictError(
				fmt.Sprintf("appointment %s already exists on %s", rec.ID, rec.Date))
		}
		r.logger.Error("failed to insert appointment",
			zap.String("appointmentID", rec.ID),
			zap.Error(err),
		)
		return appointment.Record{}, appErrors.NewDependencyError("dynamodb", err)
	}

	return item.record(), nil
}

// FindByID queries GSI1 for the row with the given row key, in whichever
// partition it lives. An absent id yields an empty slice.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) ([]appointment.Record, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: skPrefix + id},
			":sk": &types.AttributeValueMemberS{Value: gsi1MetadataSK},
		},
	})
	if err != nil {
		return nil, appErrors.NewDependencyError("dynamodb", err)
	}

	return r.unmarshalItems(result.Items)
}

// FindByField scans the whole table for rows whose named attribute equals
// the given value. Unordered; the caller sorts if it needs an order.
func (r *AppointmentRepository) FindByField(ctx context.Context, name, value string) ([]appointment.Record, error) {
	filter := expression.Name(name).Equal(expression.Value(value)).
		And(expression.Name("EntityType").Equal(expression.Value(entityTypeAppointment)))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build scan filter")
	}

	return r.scan(ctx, expr)
}

// FindAll scans the whole table. Unbounded: each page is followed until the
// continuation key runs out.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]appointment.Record, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypeAppointment))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build scan filter")
	}

	return r.scan(ctx, expr)
}

func (r *AppointmentRepository) scan(ctx context.Context, expr expression.Expression) ([]appointment.Record, error) {
	var records []appointment.Record
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, appErrors.NewDependencyError("dynamodb", err)
		}

		page, err := r.unmarshalItems(result.Items)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// Replace overwrites the row at the record's (date, id) key. When a real
// token is carried the write is conditional on the stored ETag matching;
// appointment.ETagAny only requires that the row exists.
func (r *AppointmentRepository) Replace(ctx context.Context, rec appointment.Record, expectedETag string) (appointment.Record, error) {
	item := toItem(rec, uuid.New().String())

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appointment.Record{}, appErrors.Wrap(err, "failed to marshal appointment")
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}
	if expectedETag == appointment.ETagAny {
		input.ConditionExpression = aws.String("attribute_exists(PK) AND attribute_exists(SK)")
	} else {
		input.ConditionExpression = aws.String("ETag = :etag")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":etag": &types.AttributeValueMemberS{Value: expectedETag},
		}
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if expectedETag == appointment.ETagAny {
				return appointment.Record{}, appErrors.NewNotFoundError("appointment")
			}
			return appointment.Record{}, appErrors.NewConflictError(
				fmt.Sprintf("appointment %s was modified concurrently", rec.ID))
		}
		r.logger.Error("failed to replace appointment",
			zap.String("appointmentID", rec.ID),
			zap.Error(err),
		)
		return appointment.Record{}, appErrors.NewDependencyError("dynamodb", err)
	}

	return item.record(), nil
}

// Delete removes the row at the record's key. A record carrying a real ETag
// deletes conditionally on that token; a failed condition then reports a
// conflict. Without a token a failed condition means the row is already
// gone.
func (r *AppointmentRepository) Delete(ctx context.Context, rec appointment.Record) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pkPrefix + rec.Date},
			"SK": &types.AttributeValueMemberS{Value: skPrefix + rec.ID},
		},
	}

	conditional := rec.ETag != "" && rec.ETag != appointment.ETagAny
	if conditional {
		input.ConditionExpression = aws.String("attribute_exists(PK) AND ETag = :etag")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":etag": &types.AttributeValueMemberS{Value: rec.ETag},
		}
	} else {
		input.ConditionExpression = aws.String("attribute_exists(PK)")
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if conditional {
				return appErrors.NewConflictError(
					fmt.Sprintf("appointment %s was modified concurrently", rec.ID))
			}
			return appErrors.NewNotFoundError("appointment")
		}
		r.logger.Error("failed to delete appointment",
			zap.String("appointmentID", rec.ID),
			zap.Error(err),
		)
		return appErrors.NewDependencyError("dynamodb", err)
	}

	return nil
}

func (r *AppointmentRepository) unmarshalItems(items []map[string]types.AttributeValue) ([]appointment.Record, error) {
	records := make([]appointment.Record, 0, len(items))
	for _, raw := range items {
		var item appointmentItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal appointment")
		}
		records = append(records, item.record())
	}
	return records, nil
}
