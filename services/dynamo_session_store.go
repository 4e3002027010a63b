package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// sessionItem is the table layout; expires_at is the table's TTL attribute.
type sessionItem struct {
	UserID    int64    `dynamodbav:"user_id"`
	Detected  []string `dynamodbav:"detected"`
	PhotoURL  string   `dynamodbav:"photo_url,omitempty"`
	CreatedAt string   `dynamodbav:"created_at"`
	ExpiresAt int64    `dynamodbav:"expires_at,omitempty"`
}

// DynamoSessionStore shares pending confirmations between bot replicas.
type DynamoSessionStore struct {
	db    DynamoAPI
	table string
	ttl   time.Duration
	now   func() time.Time
}

func NewDynamoSessionStore(db DynamoAPI, table string, ttl time.Duration) *DynamoSessionStore {
	return &DynamoSessionStore{db: db, table: table, ttl: ttl, now: time.Now}
}

func (s *DynamoSessionStore) Put(ctx context.Context, p models.PendingConfirmation) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	it := sessionItem{
		UserID:    p.UserID,
		Detected:  p.Detected,
		PhotoURL:  p.PhotoURL,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.ttl > 0 {
		it.ExpiresAt = now.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Take deletes the item and returns what was stored, in one request.
func (s *DynamoSessionStore) Take(ctx context.Context, userID int64) (models.PendingConfirmation, bool, error) {
	key, err := attributevalue.MarshalMap(map[string]int64{"user_id": userID})
	if err != nil {
		return models.PendingConfirmation{}, false, fmt.Errorf("marshal key: %w", err)
	}
	out, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return models.PendingConfirmation{}, false, fmt.Errorf("delete session: %w", err)
	}
	if len(out.Attributes) == 0 {
		return models.PendingConfirmation{}, false, nil
	}

	var it sessionItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return models.PendingConfirmation{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	p := models.PendingConfirmation{
		UserID:   it.UserID,
		Detected: it.Detected,
		PhotoURL: it.PhotoURL,
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, it.CreatedAt)
	if it.ExpiresAt > 0 {
		p.ExpiresAt = time.Unix(it.ExpiresAt, 0)
	}
	// TTL deletion in DynamoDB lags, so expiry is checked here as well
	if p.Expired(s.now()) {
		return models.PendingConfirmation{}, false, nil
	}
	return p, true, nil
}
