package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LogEntry struct {
	UserID   int64
	Username string
	Items    []models.FoodItem
	DishText string
	PhotoURL string
}

type LogResult struct {
	Record    *models.LogRecord
	Nutrition *NutritionResult
}

// FoodLogService prices an entry, appends it to the log and announces it.
type FoodLogService struct {
	nutrition *NutritionService
	store     LogStore
	events    EventPublisher
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger
}

func NewFoodLogService(nutrition *NutritionService, store LogStore, events EventPublisher, loc *time.Location, log *zap.Logger) *FoodLogService {
	if events == nil {
		events = NopPublisher{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &FoodLogService{
		nutrition: nutrition,
		store:     store,
		events:    events,
		loc:       loc,
		now:       time.Now,
		log:       log,
	}
}

// Log writes one record per entry. Items that could not be priced are left
// out of the totals; a record with no priced item has empty nutrient cells.
func (s *FoodLogService) Log(ctx context.Context, e LogEntry) (*LogResult, error) {
	res, err := s.nutrition.Aggregate(ctx, e.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	queries := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		queries = append(queries, it.Query)
	}
	rec := &models.LogRecord{
		ID:             uuid.New(),
		Date:           now.Format(utils.DateISO),
		Time:           now.Format(utils.TimeOfDay),
		UserID:         strconv.FormatInt(e.UserID, 10),
		Username:       e.Username,
		DishText:       e.DishText,
		TranslatedText: strings.Join(queries, ", "),
		PhotoURL:       e.PhotoURL,
		CreatedAt:      now,
	}
	if res.Resolved() > 0 {
		rec.SetNutrients(res.Totals)
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append log: %w", err)
	}

	ev := models.LogEvent{
		Kind:       EventMealLogged,
		RecordID:   rec.ID.String(),
		UserID:     rec.UserID,
		DishText:   rec.DishText,
		Resolved:   res.Resolved(),
		Unresolved: res.Unresolved(),
		Totals:     res.Totals,
		PhotoURL:   rec.PhotoURL,
		CreatedAt:  now,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish log event", zap.String("record_id", ev.RecordID), zap.Error(err))
	}

	return &LogResult{Record: rec, Nutrition: res}, nil
}
