package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API keys look like "sn_<64 hex chars>". The 8 hex chars after the prefix
// identify the key record; only a SHA-256 hash of the full key is stored.
const (
	keyPrefix    = "sn_"
	keyPrefixLen = 8
)

// authContextKey is the context key for auth results.
type authContextKey struct{}

// AuthResult holds the result of API key validation.
type AuthResult struct {
	Authenticated bool
	UserID        string
	Role          string // "admin" or "user"
	KeyID         string // key prefix for logging
}

// WithAuthResult stores the auth result in context.
func WithAuthResult(ctx context.Context, result AuthResult) context.Context {
	return context.WithValue(ctx, authContextKey{}, result)
}

// AuthFromContext retrieves the auth result from context.
func AuthFromContext(ctx context.Context) AuthResult {
	result, ok := ctx.Value(authContextKey{}).(AuthResult)
	if !ok {
		return AuthResult{Authenticated: false}
	}
	return result
}

// APIKeyItem is the DynamoDB record for an API key.
type APIKeyItem struct {
	PK         string `dynamodbav:"PK"` // APIKEY#{prefix}
	SK         string `dynamodbav:"SK"` // METADATA
	UserID     string `dynamodbav:"userId"`
	KeyHash    string `dynamodbav:"keyHash"` // SHA-256 hex
	Name       string `dynamodbav:"name"`    // user-given name
	Status     string `dynamodbav:"status"`  // active, revoked
	CreatedAt  string `dynamodbav:"createdAt"`
	LastUsedAt string `dynamodbav:"lastUsedAt,omitempty"`
}

// ValidateAPIKey checks a bearer token against DynamoDB and returns the
// owning user's identity. Only active keys belonging to active users pass.
func (s *Store) ValidateAPIKey(ctx context.Context, bearerToken string) (*AuthResult, error) {
	token := strings.TrimPrefix(bearerToken, "Bearer ")
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty API key")
	}
	if !strings.HasPrefix(token, keyPrefix) || len(token) < len(keyPrefix)+keyPrefixLen {
		return nil, fmt.Errorf("invalid API key format")
	}
	prefix := token[len(keyPrefix) : len(keyPrefix)+keyPrefixLen]

	hash := sha256.Sum256([]byte(token))
	keyHash := hex.EncodeToString(hash[:])

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: apiKeyPK(prefix)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lookup API key: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("API key not found")
	}

	var record APIKeyItem
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal API key: %w", err)
	}

	if record.KeyHash != keyHash {
		return nil, fmt.Errorf("invalid API key")
	}
	if record.Status != "active" {
		return nil, fmt.Errorf("API key is %s", record.Status)
	}

	user, err := s.GetUser(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found for API key")
	}
	if user.Status != "active" {
		return nil, fmt.Errorf("user account is %s", user.Status)
	}

	// Best-effort lastUsedAt update; never fails auth.
	go s.updateKeyLastUsed(context.Background(), prefix)

	return &AuthResult{
		Authenticated: true,
		UserID:        record.UserID,
		Role:          user.Role,
		KeyID:         prefix,
	}, nil
}

// updateKeyLastUsed updates the lastUsedAt timestamp. Conditional to avoid hot writes.
func (s *Store) updateKeyLastUsed(ctx context.Context, prefix string) {
	now := time.Now().UTC().Format(time.RFC3339)
	oneMinuteAgo := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)

	s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: apiKeyPK(prefix)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		UpdateExpression:    aws.String("SET lastUsedAt = :now"),
		ConditionExpression: aws.String("attribute_not_exists(lastUsedAt) OR lastUsedAt < :threshold"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":       &types.AttributeValueMemberS{Value: now},
			":threshold": &types.AttributeValueMemberS{Value: oneMinuteAgo},
		},
	})
}

// CreateAPIKey generates a new API key, stores its hash, and returns the
// plaintext (shown once).
func (s *Store) CreateAPIKey(ctx context.Context, userID, keyName string) (plaintext, prefix string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate random bytes: %w", err)
	}

	prefix = hex.EncodeToString(raw[:4]) // 8 hex chars
	plaintext = keyPrefix + hex.EncodeToString(raw)

	hash := sha256.Sum256([]byte(plaintext))
	keyHash := hex.EncodeToString(hash[:])

	record := APIKeyItem{
		PK:        apiKeyPK(prefix),
		SK:        "METADATA",
		UserID:    userID,
		KeyHash:   keyHash,
		Name:      keyName,
		Status:    "active",
		CreatedAt: nowRFC3339(),
	}

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return "", "", fmt.Errorf("marshal API key: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return "", "", fmt.Errorf("store API key: %w", err)
	}

	return plaintext, prefix, nil
}

// RevokeAPIKey marks an API key as revoked.
func (s *Store) RevokeAPIKey(ctx context.Context, prefix string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: apiKeyPK(prefix)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		UpdateExpression: aws.String("SET #status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: "revoked"},
		},
	})
	if err != nil {
		return fmt.Errorf("revoke API key: %w", err)
	}
	return nil
}

// ListAPIKeys returns all API keys for a user (scan-based, small table).
func (s *Store) ListAPIKeys(ctx context.Context, userID string) ([]APIKeyItem, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: aws.String("begins_with(PK, :prefix) AND userId = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "APIKEY#"},
			":uid":    &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list API keys: %w", err)
	}

	var keys []APIKeyItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &keys); err != nil {
		return nil, fmt.Errorf("unmarshal API keys: %w", err)
	}
	return keys, nil
}
