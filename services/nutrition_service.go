package services

import (
	"context"
	"errors"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ItemResult is the per-item breakdown of one aggregation.
type ItemResult struct {
	Item       models.FoodItem       `json:"item"`
	Translated string                `json:"translated"`
	Query      string                `json:"query"`
	Info       *models.NutritionInfo `json:"info,omitempty"` // nil: not found, skipped
}

func (r ItemResult) Found() bool { return r.Info != nil }

type NutritionResult struct {
	Items  []ItemResult     `json:"items"`
	Totals models.Nutrients `json:"totals"`
}

func (r *NutritionResult) Resolved() int {
	n := 0
	for _, it := range r.Items {
		if it.Found() {
			n++
		}
	}
	return n
}

func (r *NutritionResult) Unresolved() int { return len(r.Items) - r.Resolved() }

// NutritionService prices parsed food items through a provider.
type NutritionService struct {
	provider    NutritionProvider
	translator  Translator
	concurrency int
	log         *zap.Logger
}

func NewNutritionService(provider NutritionProvider, translator Translator, concurrency int, log *zap.Logger) *NutritionService {
	if translator == nil {
		translator = NopTranslator{}
	}
	return &NutritionService{
		provider:    provider,
		translator:  translator,
		concurrency: max(1, concurrency),
		log:         log,
	}
}

// Aggregate resolves every item and sums the ones that were found.
// A failed item never fails the whole call; only ctx cancellation does.
func (s *NutritionService) Aggregate(ctx context.Context, items []models.FoodItem) (*NutritionResult, error) {
	results := make([]ItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			results[i] = s.resolve(gctx, it)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &NutritionResult{Items: results}
	for _, r := range results {
		if r.Found() {
			out.Totals.Add(r.Info.Nutrients)
		}
	}
	return out, nil
}

func (s *NutritionService) resolve(ctx context.Context, item models.FoodItem) ItemResult {
	translated := item.Name
	if t, err := s.translator.Translate(ctx, item.Name); err != nil {
		s.log.Warn("translation failed, using original name", zap.String("name", item.Name), zap.Error(err))
	} else if t != "" {
		translated = t
	}

	res := ItemResult{
		Item:       item,
		Translated: translated,
		Query:      utils.BuildQuery(translated, item.Amount, utils.CanonicalUnit(item.Unit)),
	}

	info, err := s.provider.Lookup(ctx, res.Query)
	if err == nil {
		res.Info = info
		return res
	}
	s.logLookupError("lookup failed, retrying with bare name", res.Query, err)

	// one retry without the quantity qualifier
	info, err = s.provider.Lookup(ctx, translated)
	if err != nil {
		s.logLookupError("lookup failed twice, item skipped", translated, err)
		return res
	}
	res.Info = info
	return res
}

func (s *NutritionService) logLookupError(msg, query string, err error) {
	if errors.Is(err, ErrNotFound) {
		s.log.Info(msg, zap.String("query", query), zap.Error(err))
		return
	}
	s.log.Warn(msg, zap.String("query", query), zap.Error(err))
}
