package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/identity-verify-api/internal/domain"
)

// DeliveryRepo provides typed DynamoDB operations for the deliveries table.
type DeliveryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeliveryRepo(client *dynamodb.Client, tableName string) *DeliveryRepo {
	return &DeliveryRepo{client: client, tableName: tableName}
}

func (r *DeliveryRepo) Put(ctx context.Context, d *domain.Delivery) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put delivery: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// ListByUser queries the user_id-created_at GSI, newest first.
func (r *DeliveryRepo) ListByUser(ctx context.Context, userID string) ([]domain.Delivery, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %v: %w", err, domain.ErrStoreUnavailable)
	}
	var deliveries []domain.Delivery
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &deliveries); err != nil {
		return nil, fmt.Errorf("unmarshal deliveries: %w", err)
	}
	return deliveries, nil
}
