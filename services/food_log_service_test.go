package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var logNow = time.Date(2024, 5, 15, 9, 5, 7, 0, time.UTC)

func newFoodLog(store LogStore, events EventPublisher) *FoodLogService {
	svc := NewFoodLogService(NewNutritionService(threeItemsProvider(), nil, 1, zap.NewNop()), store, events, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return logNow }
	return svc
}

func TestLogWritesRecordAndEvent(t *testing.T) {
	store := &memLogStore{}
	pub := &recordingPublisher{}

	res, err := newFoodLog(store, pub).Log(context.Background(), LogEntry{
		UserID:   42,
		Username: "anna",
		Items:    threeItems(),
		DishText: "банан, икра, яблоко 150г",
		PhotoURL: "https://cdn/p.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(store.recs) != 1 {
		t.Fatalf("want 1 record, got %d", len(store.recs))
	}
	row := store.recs[0].Row()
	want := map[int]string{
		models.ColDate:           "2024-05-15",
		models.ColTime:           "09:05:07",
		models.ColUserID:         "42",
		models.ColUsername:       "anna",
		models.ColTranslatedText: "1 банан, 1 икра, 150g яблоко",
		models.ColGrams:          "270",
		models.ColCalories:       "183",
		models.ColPhotoURL:       "https://cdn/p.jpg",
	}
	for col, v := range want {
		if row[col] != v {
			t.Errorf("column %s = %q, want %q", models.LogHeader[col], row[col], v)
		}
	}

	if len(pub.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Kind != EventMealLogged || ev.RecordID != res.Record.ID.String() || ev.Resolved != 2 || ev.Unresolved != 1 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestLogWithoutResolvedItemsLeavesNutrientsEmpty(t *testing.T) {
	store := &memLogStore{}
	pub := &recordingPublisher{err: errors.New("sns down")}

	_, err := newFoodLog(store, pub).Log(context.Background(), LogEntry{
		UserID:   42,
		Items:    []models.FoodItem{{Name: "икра", Amount: 1, Unit: "шт"}},
		DishText: "икра",
	})
	if err != nil {
		t.Fatalf("publish failure must not fail logging: %v", err)
	}
	if store.recs[0].HasNutrients() {
		t.Fatal("record has nutrients although nothing was found")
	}
	if row := store.recs[0].Row(); row[models.ColCalories] != "" || row[models.ColGrams] != "" {
		t.Fatalf("nutrient cells = %q", row[models.ColGrams:models.ColPhotoURL])
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "log.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestRoundTripThroughSQLite(t *testing.T) {
	store, err := NewGormLogStore(openTestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	logger := newFoodLog(store, nil)
	ctx := context.Background()

	for _, e := range []LogEntry{
		{UserID: 42, Items: threeItems(), DishText: "завтрак"},
		{UserID: 42, Items: []models.FoodItem{{Name: "банан", Amount: 1, Unit: "шт"}}, DishText: "перекус"},
		{UserID: 42, Items: []models.FoodItem{{Name: "икра", Amount: 1, Unit: "шт"}}, DishText: "ужин"},
		{UserID: 7, Items: threeItems(), DishText: "чужой"},
	} {
		if _, err := logger.Log(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	reports := NewReportService(store, time.UTC, zap.NewNop())
	reports.now = func() time.Time { return logNow.Add(3 * time.Hour) }

	rep, err := reports.Build(ctx, "42", "today")
	if err != nil {
		t.Fatal(err)
	}
	if rep.PeriodRows != 2 {
		t.Fatalf("period rows = %d, want 2 (the unpriced entry has no calories)", rep.PeriodRows)
	}
	want := models.Nutrients{Grams: 390, Calories: 288, Protein: 3, Fat: 1.1, Carbs: 75}
	const eps = 1e-9
	got := rep.Totals
	if abs(got.Grams-want.Grams) > eps || abs(got.Calories-want.Calories) > eps ||
		abs(got.Protein-want.Protein) > eps || abs(got.Fat-want.Fat) > eps || abs(got.Carbs-want.Carbs) > eps {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
