package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/identity-verify-api/internal/domain"
)

// GSI names on the identities table.
const (
	tokenHashIndex = "verification_token_hash-index"
	codeIndex      = "verification_code-index"
)

// IdentityRepo provides typed DynamoDB operations for the identities table.
// Credential lookups only return rows whose expiry is strictly in the
// future; an expired credential is indistinguishable from an absent one.
type IdentityRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewIdentityRepo(client *dynamodb.Client, tableName string) *IdentityRepo {
	return &IdentityRepo{client: client, tableName: tableName}
}

func (r *IdentityRepo) Get(ctx context.Context, userID string) (*domain.Identity, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get identity: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("identity %s: %w", userID, domain.ErrUserNotFound)
	}
	var u domain.Identity
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &u, nil
}

// GetByVerificationTokenHash matches a stored email-verification token hash.
// Only a non-expired credential counts as a match.
func (r *IdentityRepo) GetByVerificationTokenHash(ctx context.Context, hash string, now time.Time) (*domain.Identity, error) {
	return r.queryCredential(ctx, tokenHashIndex, "email_verification_token_hash", hash, now)
}

// GetByVerificationCode matches a stored email-verification code.
// Only a non-expired credential counts as a match.
func (r *IdentityRepo) GetByVerificationCode(ctx context.Context, code string, now time.Time) (*domain.Identity, error) {
	return r.queryCredential(ctx, codeIndex, "email_verification_code", code, now)
}

func (r *IdentityRepo) queryCredential(ctx context.Context, index, attr, value string, now time.Time) (*domain.Identity, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(index),
		KeyConditionExpression:   aws.String("#a = :v"),
		FilterExpression:         aws.String("email_verification_expires_at > :now"),
		ExpressionAttributeNames: map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":   &types.AttributeValueMemberS{Value: value},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query credential: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no matching credential: %w", domain.ErrInvalidOrExpiredCredential)
	}
	var u domain.Identity
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &u, nil
}

// Update overwrites the given fields. Used for issuance, where replacing a
// prior unconsumed credential is the intended behavior.
func (r *IdentityRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update identity: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// ConditionalUpdate applies updates only while the credential attribute still
// holds the value the caller read. Returns false when the condition fails,
// meaning another verification or a reissue won the race; prior fields are
// left untouched in that case.
func (r *IdentityRepo) ConditionalUpdate(ctx context.Context, userID, attr, expected string, updates map[string]interface{}) (bool, error) {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return false, err
	}
	ue.Names["#cred"] = attr
	ue.Values[":expected"] = &types.AttributeValueMemberS{Value: expected}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#cred = :expected"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("conditional update: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return true, nil
}
