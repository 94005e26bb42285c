package store

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/oklog/ulid/v2"
)

// Store handles DynamoDB operations for materials, summaries, users, and
// API keys. Everything lives in one table keyed by PK/SK with a GSI1 index
// for per-user, newest-first listings.
type Store struct {
	client    *dynamodb.Client
	tableName string
}

// New creates a DynamoDB store.
func New(client *dynamodb.Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// NewID generates a ULID for a new row.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return id.String(), nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func materialPK(id string) string { return "MATERIAL#" + id }
func userPK(id string) string     { return "USER#" + id }
func apiKeyPK(prefix string) string {
	return "APIKEY#" + prefix
}

// GSI1 partition keys for per-user listings. The sort key is
// "{createdAt}#{id}" so a descending query returns newest first.
func userMaterialsGSI(userID string) string { return "USER#" + userID + "#MATERIALS" }
func userSummariesGSI(userID string) string { return "USER#" + userID + "#SUMMARIES" }
