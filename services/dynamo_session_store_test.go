package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo keeps items keyed by the user_id number attribute.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	table string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(m map[string]types.AttributeValue) string {
	n, _ := m["user_id"].(*types.AttributeValueMemberN)
	if n == nil {
		return ""
	}
	return n.Value
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = aws.ToString(in.TableName)
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(in.Key)
	old := f.items[k]
	delete(f.items, k)
	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

func TestDynamoSessionStore(t *testing.T) {
	db := newFakeDynamo()
	s := NewDynamoSessionStore(db, "sessions", 10*time.Minute)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	err := s.Put(ctx, models.PendingConfirmation{UserID: 42, Detected: []string{"банан 1 шт"}, PhotoURL: "https://cdn/x.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if db.table != "sessions" {
		t.Fatalf("table = %q", db.table)
	}
	ttl, ok := db.items["42"]["expires_at"].(*types.AttributeValueMemberN)
	if !ok || ttl.Value != "1715775000" {
		t.Fatalf("expires_at = %#v", db.items["42"]["expires_at"])
	}

	p, ok, err := s.Take(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("take: ok=%v err=%v", ok, err)
	}
	if p.UserID != 42 || p.PhotoURL != "https://cdn/x.jpg" || len(p.Detected) != 1 || p.Detected[0] != "банан 1 шт" {
		t.Fatalf("pending = %+v", p)
	}
	if !p.CreatedAt.Equal(now) {
		t.Fatalf("created = %v", p.CreatedAt)
	}
	if _, ok, _ := s.Take(ctx, 42); ok {
		t.Fatal("take must delete the item")
	}
}

func TestDynamoSessionStoreIgnoresExpiredItem(t *testing.T) {
	db := newFakeDynamo()
	s := NewDynamoSessionStore(db, "sessions", time.Minute)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Put(ctx, models.PendingConfirmation{UserID: 1, Detected: []string{"a"}})
	now = now.Add(2 * time.Minute)
	if _, ok, err := s.Take(ctx, 1); err != nil || ok {
		t.Fatalf("expired item: ok=%v err=%v", ok, err)
	}
}
