package services

import (
	"context"
	"sync"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

// fakeProvider answers from a fixed table; queries not in it are not found.
type fakeProvider struct {
	mu    sync.Mutex
	table map[string]models.Nutrients
	calls []string
}

func (p *fakeProvider) Lookup(_ context.Context, query string) (*models.NutritionInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, query)
	n, ok := p.table[query]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.NutritionInfo{Name: query, Nutrients: n}, nil
}

func (p *fakeProvider) callsFor(query string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == query {
			n++
		}
	}
	return n
}

// memLogStore keeps records in a slice.
type memLogStore struct {
	mu   sync.Mutex
	recs []*models.LogRecord
	rows [][]string // extra raw rows, read before records
}

func (s *memLogStore) Append(_ context.Context, rec *models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memLogStore) ReadRows(context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([][]string(nil), s.rows...)
	for _, r := range s.recs {
		out = append(out, r.Row())
	}
	return out, nil
}

type recordingPublisher struct {
	events []models.LogEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev models.LogEvent) error {
	p.events = append(p.events, ev)
	return p.err
}
