package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MaterialType distinguishes raw text submissions from uploaded PDFs.
type MaterialType string

const (
	MaterialText MaterialType = "text"
	MaterialPDF  MaterialType = "pdf"
)

func (t MaterialType) String() string { return string(t) }

// MaterialItem is the DynamoDB record for a study material.
// StoragePath is set iff Type is "pdf".
type MaterialItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	MaterialID  string `dynamodbav:"materialId"`
	UserID      string `dynamodbav:"userId"`
	Title       string `dynamodbav:"title"`
	Type        string `dynamodbav:"type"`
	Content     string `dynamodbav:"content,omitempty"`
	StoragePath string `dynamodbav:"storagePath,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt"`
}

// NewMaterial holds the caller-supplied fields for a material insert.
type NewMaterial struct {
	ID          string
	UserID      string
	Title       string
	Type        MaterialType
	Content     string
	StoragePath string
}

// CreateMaterial inserts a material row. The conditional put guards against
// ULID collisions.
func (s *Store) CreateMaterial(ctx context.Context, nm NewMaterial) (*MaterialItem, error) {
	now := nowRFC3339()
	item := MaterialItem{
		PK:          materialPK(nm.ID),
		SK:          "METADATA",
		GSI1PK:      userMaterialsGSI(nm.UserID),
		GSI1SK:      now + "#" + nm.ID,
		MaterialID:  nm.ID,
		UserID:      nm.UserID,
		Title:       nm.Title,
		Type:        string(nm.Type),
		Content:     nm.Content,
		StoragePath: nm.StoragePath,
		CreatedAt:   now,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal material: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put material: %w", err)
	}
	return &item, nil
}

// GetMaterial retrieves a material by ID. Returns nil when absent.
func (s *Store) GetMaterial(ctx context.Context, id string) (*MaterialItem, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: materialPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item MaterialItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal material: %w", err)
	}
	return &item, nil
}

// ListMaterials returns a user's materials ordered newest first via GSI1.
func (s *Store) ListMaterials(ctx context.Context, userID string, limit int) ([]MaterialItem, error) {
	if limit <= 0 {
		limit = 50
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userMaterialsGSI(userID)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	var items []MaterialItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal material list: %w", err)
	}
	return items, nil
}

// DeleteMaterial removes the material row. Summary rows under the same
// partition are append-only and intentionally left in place.
func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: materialPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
