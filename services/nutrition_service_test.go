package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"go.uber.org/zap"
)

func threeItems() []models.FoodItem {
	return []models.FoodItem{
		{Name: "банан", Amount: 1, Unit: "шт"},
		{Name: "икра", Amount: 1, Unit: "шт"},
		{Name: "яблоко", Amount: 150, Unit: "г"},
	}
}

func threeItemsProvider() *fakeProvider {
	return &fakeProvider{table: map[string]models.Nutrients{
		"1 банан":     {Grams: 120, Calories: 105, Protein: 1.3, Fat: 0.4, Carbs: 27},
		"150g яблоко": {Grams: 150, Calories: 78, Protein: 0.4, Fat: 0.3, Carbs: 21},
	}}
}

func TestAggregateSkipsItemThatFailsTwice(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		p := threeItemsProvider()
		svc := NewNutritionService(p, nil, concurrency, zap.NewNop())

		res, err := svc.Aggregate(context.Background(), threeItems())
		if err != nil {
			t.Fatalf("concurrency %d: %v", concurrency, err)
		}
		if len(res.Items) != 3 {
			t.Fatalf("want 3 items, got %d", len(res.Items))
		}
		if !res.Items[0].Found() || res.Items[1].Found() || !res.Items[2].Found() {
			t.Fatalf("concurrency %d: unexpected found flags %+v", concurrency, res.Items)
		}
		if res.Items[1].Item.Name != "икра" {
			t.Fatalf("order not preserved: %+v", res.Items)
		}
		if res.Resolved() != 2 || res.Unresolved() != 1 {
			t.Fatalf("resolved=%d unresolved=%d", res.Resolved(), res.Unresolved())
		}
		if res.Totals.Calories != 183 || res.Totals.Grams != 270 {
			t.Fatalf("totals = %+v", res.Totals)
		}
		if p.callsFor("1 икра") != 1 || p.callsFor("икра") != 1 {
			t.Fatalf("expected one lookup and one bare retry, calls: %v", p.calls)
		}
	}
}

func TestAggregateRetryWithBareName(t *testing.T) {
	p := &fakeProvider{table: map[string]models.Nutrients{
		"сыр": {Grams: 100, Calories: 350},
	}}
	svc := NewNutritionService(p, nil, 1, zap.NewNop())

	res, err := svc.Aggregate(context.Background(), []models.FoodItem{{Name: "сыр", Amount: 2, Unit: "тарелка"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Items[0].Found() || res.Totals.Calories != 350 {
		t.Fatalf("retry did not resolve: %+v", res)
	}
	if res.Items[0].Query != "2 тарелка сыр" {
		t.Fatalf("query = %q", res.Items[0].Query)
	}
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string) (string, error) {
	return "", errors.New("translate down")
}

type dictTranslator map[string]string

func (d dictTranslator) Translate(_ context.Context, s string) (string, error) { return d[s], nil }

func TestAggregateTranslation(t *testing.T) {
	p := &fakeProvider{table: map[string]models.Nutrients{
		"2 banana": {Grams: 240, Calories: 210},
		"1 банан":  {Grams: 120, Calories: 105},
	}}
	items := []models.FoodItem{{Name: "банан", Amount: 2, Unit: "шт"}}

	res, err := NewNutritionService(p, dictTranslator{"банан": "banana"}, 1, zap.NewNop()).Aggregate(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	if res.Items[0].Translated != "banana" || res.Totals.Calories != 210 {
		t.Fatalf("translated lookup: %+v", res.Items[0])
	}

	// a broken translator keeps the original name
	items[0].Amount = 1
	res, err = NewNutritionService(p, failingTranslator{}, 1, zap.NewNop()).Aggregate(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	if res.Items[0].Translated != "банан" || res.Totals.Calories != 105 {
		t.Fatalf("fallback lookup: %+v", res.Items[0])
	}
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNutritionService(threeItemsProvider(), nil, 1, zap.NewNop()).Aggregate(ctx, threeItems())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
