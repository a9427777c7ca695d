package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// TokenRepo manages single-use verification tokens.
// PK: user_id, SK: purpose ("email_verify" | "password_reset"),
// GSI token_hash-index for lookup by opaque value.
// Putting a token overwrites the (user, purpose) item, superseding any
// outstanding token of the same purpose.
type TokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTokenRepo(client *dynamodb.Client, tableName string) *TokenRepo {
	return &TokenRepo{client: client, tableName: tableName}
}

func (r *TokenRepo) Put(ctx context.Context, t *domain.VerificationToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TokenRepo) Get(ctx context.Context, userID, purpose string) (*domain.VerificationToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "purpose", purpose),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("token not found: %w", domain.ErrNotFound)
	}
	var t domain.VerificationToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) GetByHash(ctx context.Context, hash string) (*domain.VerificationToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("token_hash-index"),
		KeyConditionExpression:    aws.String("token_hash = :h"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":h": &types.AttributeValueMemberS{Value: hash}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("token not found: %w", domain.ErrNotFound)
	}
	var t domain.VerificationToken
	if err := attributevalue.UnmarshalMap(out.Items[0], &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkConsumed flips consumed to true, guarded so that exactly one of any
// number of concurrent consumers wins: the condition requires the stored
// token to still be unconsumed and to still carry the same hash (a re-issued
// token changes the hash, invalidating the old opaque value).
func (r *TokenRepo) MarkConsumed(ctx context.Context, userID, purpose, hash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("user_id", userID, "purpose", purpose),
		UpdateExpression:    aws.String("SET consumed = :t"),
		ConditionExpression: aws.String("consumed = :f AND token_hash = :h"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
			":h": &types.AttributeValueMemberS{Value: hash},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("token no longer consumable: %w", domain.ErrInvalidToken)
		}
		return err
	}
	return nil
}
