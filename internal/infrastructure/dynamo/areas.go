package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/mvbri/sistema-gestion-soporte-sub000/internal/domain"
)

// AreaRepo provides typed DynamoDB operations for the incident-areas catalog.
type AreaRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAreaRepo(client *dynamodb.Client, tableName string) *AreaRepo {
	return &AreaRepo{client: client, tableName: tableName}
}

func (r *AreaRepo) Put(ctx context.Context, a *domain.IncidentArea) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal incident area: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AreaRepo) Get(ctx context.Context, areaID string) (*domain.IncidentArea, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("area_id", areaID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("incident area not found: %w", domain.ErrNotFound)
	}
	var a domain.IncidentArea
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AreaRepo) List(ctx context.Context) ([]domain.IncidentArea, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var areas []domain.IncidentArea
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *AreaRepo) Update(ctx context.Context, areaID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("area_id", areaID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *AreaRepo) Delete(ctx context.Context, areaID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("area_id", areaID),
	})
	return err
}
