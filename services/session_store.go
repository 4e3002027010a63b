package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

// SessionStore keeps at most one pending confirmation per user.
type SessionStore interface {
	// Put stores p, replacing any earlier entry of the same user.
	Put(ctx context.Context, p models.PendingConfirmation) error
	// Take returns and removes the user's entry.
	Take(ctx context.Context, userID int64) (models.PendingConfirmation, bool, error)
}

var errStoreClosed = errors.New("session store closed")

// MemorySessionStore owns its map in a single goroutine; every access is a
// closure sent to that goroutine.
type MemorySessionStore struct {
	reqs      chan func(map[int64]models.PendingConfirmation)
	done      chan struct{}
	closeOnce sync.Once
	ttl       time.Duration
	now       func() time.Time
}

// NewMemorySessionStore starts the store. ttl <= 0 keeps entries until taken.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		reqs: make(chan func(map[int64]models.PendingConfirmation)),
		done: make(chan struct{}),
		ttl:  ttl,
		now:  time.Now,
	}
	go s.loop()
	return s
}

func (s *MemorySessionStore) loop() {
	state := make(map[int64]models.PendingConfirmation)
	for {
		select {
		case f := <-s.reqs:
			f(state)
		case <-s.done:
			return
		}
	}
}

func (s *MemorySessionStore) do(ctx context.Context, f func(map[int64]models.PendingConfirmation)) error {
	finished := make(chan struct{})
	req := func(m map[int64]models.PendingConfirmation) {
		f(m)
		close(finished)
	}
	select {
	case s.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return errStoreClosed
	}
	<-finished
	return nil
}

func (s *MemorySessionStore) Put(ctx context.Context, p models.PendingConfirmation) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if s.ttl > 0 {
		p.ExpiresAt = now.Add(s.ttl)
	}
	return s.do(ctx, func(m map[int64]models.PendingConfirmation) {
		m[p.UserID] = p
	})
}

func (s *MemorySessionStore) Take(ctx context.Context, userID int64) (models.PendingConfirmation, bool, error) {
	var (
		p  models.PendingConfirmation
		ok bool
	)
	now := s.now()
	err := s.do(ctx, func(m map[int64]models.PendingConfirmation) {
		p, ok = m[userID]
		delete(m, userID)
		// drop everything stale while we are here
		for id, e := range m {
			if e.Expired(now) {
				delete(m, id)
			}
		}
	})
	if err != nil {
		return models.PendingConfirmation{}, false, err
	}
	if ok && p.Expired(now) {
		return models.PendingConfirmation{}, false, nil
	}
	return p, ok, nil
}

// Close stops the owning goroutine. Later calls fail with errStoreClosed.
func (s *MemorySessionStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
