package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

func TestMemorySessionStorePutTake(t *testing.T) {
	s := NewMemorySessionStore(0)
	defer s.Close()
	ctx := context.Background()

	if _, ok, err := s.Take(ctx, 1); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	_ = s.Put(ctx, models.PendingConfirmation{UserID: 1, Detected: []string{"банан"}})
	_ = s.Put(ctx, models.PendingConfirmation{UserID: 1, Detected: []string{"яблоко"}})

	p, ok, err := s.Take(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("take: ok=%v err=%v", ok, err)
	}
	if len(p.Detected) != 1 || p.Detected[0] != "яблоко" {
		t.Fatalf("last write should win, got %v", p.Detected)
	}
	if p.CreatedAt.IsZero() || !p.ExpiresAt.IsZero() {
		t.Fatalf("timestamps: created=%v expires=%v", p.CreatedAt, p.ExpiresAt)
	}
	if _, ok, _ := s.Take(ctx, 1); ok {
		t.Fatal("take must remove the entry")
	}
}

func TestMemorySessionStoreTTL(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	defer s.Close()
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Put(ctx, models.PendingConfirmation{UserID: 1, Detected: []string{"a"}})
	_ = s.Put(ctx, models.PendingConfirmation{UserID: 2, Detected: []string{"b"}})

	now = now.Add(30 * time.Second)
	if _, ok, _ := s.Take(ctx, 1); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := s.Take(ctx, 2); ok {
		t.Fatal("expired entry returned")
	}
}

func TestMemorySessionStoreConcurrentUsers(t *testing.T) {
	s := NewMemorySessionStore(0)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = s.Put(ctx, models.PendingConfirmation{UserID: id})
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		if _, ok, err := s.Take(ctx, i); err != nil || !ok {
			t.Fatalf("user %d: ok=%v err=%v", i, ok, err)
		}
	}
}

func TestMemorySessionStoreClosed(t *testing.T) {
	s := NewMemorySessionStore(0)
	s.Close()
	s.Close()
	if err := s.Put(context.Background(), models.PendingConfirmation{UserID: 1}); !errors.Is(err, errStoreClosed) {
		t.Fatalf("want errStoreClosed, got %v", err)
	}
}
