package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SummaryItem is the DynamoDB record for a generated summary. Summaries
// share the material's partition under an SK of SUMMARY#{createdAt}#{id},
// so "latest" is a single descending query. Rows are append-only: the
// application never updates or deletes them.
type SummaryItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	SummaryID     string `dynamodbav:"summaryId"`
	MaterialID    string `dynamodbav:"materialId"`
	UserID        string `dynamodbav:"userId"`
	MaterialTitle string `dynamodbav:"materialTitle,omitempty"`
	Model         string `dynamodbav:"model"`
	Tokens        int    `dynamodbav:"tokens,omitempty"`
	Summary       string `dynamodbav:"summary"`
	CreatedAt     string `dynamodbav:"createdAt"`
}

// NewSummary holds the caller-supplied fields for a summary insert.
type NewSummary struct {
	ID            string
	MaterialID    string
	UserID        string
	MaterialTitle string
	Model         string
	Tokens        int
	Summary       string
}

const summarySKPrefix = "SUMMARY#"

// CreateSummary appends a summary row for a material.
func (s *Store) CreateSummary(ctx context.Context, ns NewSummary) (*SummaryItem, error) {
	now := nowRFC3339()
	item := SummaryItem{
		PK:            materialPK(ns.MaterialID),
		SK:            summarySKPrefix + now + "#" + ns.ID,
		GSI1PK:        userSummariesGSI(ns.UserID),
		GSI1SK:        now + "#" + ns.ID,
		SummaryID:     ns.ID,
		MaterialID:    ns.MaterialID,
		UserID:        ns.UserID,
		MaterialTitle: ns.MaterialTitle,
		Model:         ns.Model,
		Tokens:        ns.Tokens,
		Summary:       ns.Summary,
		CreatedAt:     now,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put summary: %w", err)
	}
	return &item, nil
}

// LatestSummary returns the newest summary for a material, nil when none exist.
func (s *Store) LatestSummary(ctx context.Context, materialID string) (*SummaryItem, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: materialPK(materialID)},
			":sk": &types.AttributeValueMemberS{Value: summarySKPrefix},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("latest summary: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var item SummaryItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &item, nil
}

// ListSummaries returns a user's summaries ordered newest first via GSI1.
func (s *Store) ListSummaries(ctx context.Context, userID string, limit int) ([]SummaryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userSummariesGSI(userID)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	var items []SummaryItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal summary list: %w", err)
	}
	return items, nil
}
