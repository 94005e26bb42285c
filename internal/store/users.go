package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserItem is the DynamoDB record for a user. Profile fields (username,
// avatar URL) live on the same item, keyed by the user id.
type UserItem struct {
	PK         string `dynamodbav:"PK"` // USER#{userId}
	SK         string `dynamodbav:"SK"` // PROFILE
	UserID     string `dynamodbav:"userId"`
	Email      string `dynamodbav:"email"`
	Username   string `dynamodbav:"username,omitempty"`
	AvatarURL  string `dynamodbav:"avatarUrl,omitempty"`
	Status     string `dynamodbav:"status"` // pending, active, suspended
	Role       string `dynamodbav:"role"`   // admin, user
	CreatedAt  string `dynamodbav:"createdAt"`
	ApprovedAt string `dynamodbav:"approvedAt,omitempty"`
}

// CreateUser creates a new user record with pending status.
func (s *Store) CreateUser(ctx context.Context, userID, email, username string) error {
	record := UserItem{
		PK:        userPK(userID),
		SK:        "PROFILE",
		UserID:    userID,
		Email:     email,
		Username:  username,
		Status:    "pending",
		Role:      "user",
		CreatedAt: nowRFC3339(),
	}

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID. Returns nil when absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*UserItem, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var user UserItem
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// UpdateProfile sets the user's username and/or avatar URL. Nil fields are
// left untouched.
func (s *Store) UpdateProfile(ctx context.Context, userID string, username, avatarURL *string) error {
	if username == nil && avatarURL == nil {
		return nil
	}

	updateExpr := "SET"
	exprValues := map[string]types.AttributeValue{}
	if username != nil {
		updateExpr += " username = :username"
		exprValues[":username"] = &types.AttributeValueMemberS{Value: *username}
	}
	if avatarURL != nil {
		if username != nil {
			updateExpr += ","
		}
		updateExpr += " avatarUrl = :avatarUrl"
		exprValues[":avatarUrl"] = &types.AttributeValueMemberS{Value: *avatarURL}
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		UpdateExpression:          aws.String(updateExpr),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: exprValues,
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// ApproveUser sets a user's status to active.
func (s *Store) ApproveUser(ctx context.Context, userID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		UpdateExpression: aws.String("SET #status = :status, approvedAt = :at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: "active"},
			":at":     &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
	})
	if err != nil {
		return fmt.Errorf("approve user: %w", err)
	}
	return nil
}

// SuspendUser sets a user's status to suspended.
func (s *Store) SuspendUser(ctx context.Context, userID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: "PROFILE"},
		},
		UpdateExpression: aws.String("SET #status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: "suspended"},
		},
	})
	if err != nil {
		return fmt.Errorf("suspend user: %w", err)
	}
	return nil
}

// ListUsers returns all users (scan-based, acceptable for a small user base).
func (s *Store) ListUsers(ctx context.Context) ([]UserItem, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: aws.String("begins_with(PK, :prefix) AND SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "USER#"},
			":sk":     &types.AttributeValueMemberS{Value: "PROFILE"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []UserItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &users); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	return users, nil
}
