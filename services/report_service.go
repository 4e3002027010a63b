package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/utils"

	"go.uber.org/zap"
)

const (
	dailyBuckets   = 30
	weeklyBuckets  = 12
	monthlyBuckets = 12
)

// ReportService summarizes a user's log rows for a period and builds the
// chart series for the surrounding window.
type ReportService struct {
	store LogStore
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
}

func NewReportService(store LogStore, loc *time.Location, log *zap.Logger) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{store: store, loc: loc, now: time.Now, log: log}
}

// ParsePeriod validates a period keyword.
func ParsePeriod(arg string) (models.Period, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return "", ErrMissingPeriod
	}
	p := models.Period(arg)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, arg)
	}
	return p, nil
}

// Build reads the whole log and aggregates the user's rows. Rows without
// calories or with an unreadable date are skipped. A user with no rows gets
// an empty report, not an error.
func (s *ReportService) Build(ctx context.Context, userID string, periodArg string) (*models.Report, error) {
	period, err := ParsePeriod(periodArg)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	today := utils.DayStart(s.now().In(s.loc))
	rep := &models.Report{
		UserID:  userID,
		Period:  period,
		From:    periodStart(period, today),
		To:      today,
		Buckets: window(period, today),
	}
	index := make(map[string]int, len(rep.Buckets))
	for i, b := range rep.Buckets {
		index[b.Start.Format(utils.DateISO)] = i
	}

	userID = strings.TrimSpace(userID)
	for i, row := range rows {
		if len(row) <= models.ColCarbs || strings.TrimSpace(row[models.ColUserID]) != userID {
			continue
		}
		if strings.TrimSpace(row[models.ColCalories]) == "" {
			continue
		}
		day, err := utils.ParseLogDate(row[models.ColDate], s.loc)
		if err != nil {
			s.log.Debug("skip log row", zap.Int("row", i), zap.Error(err))
			continue
		}
		n := rowNutrients(row)
		rep.UserRows++

		if day.After(today) {
			continue
		}
		if !day.Before(rep.From) {
			rep.Totals.Add(n)
			rep.PeriodRows++
		}
		if j, ok := index[bucketStart(period, day).Format(utils.DateISO)]; ok {
			rep.Buckets[j].Nutrients.Add(n)
		}
	}
	return rep, nil
}

func rowNutrients(row []string) models.Nutrients {
	return models.Nutrients{
		Grams:    utils.SafeFloat(row[models.ColGrams]),
		Calories: utils.SafeFloat(row[models.ColCalories]),
		Protein:  utils.SafeFloat(row[models.ColProtein]),
		Fat:      utils.SafeFloat(row[models.ColFat]),
		Carbs:    utils.SafeFloat(row[models.ColCarbs]),
	}
}

func periodStart(p models.Period, today time.Time) time.Time {
	switch p {
	case models.PeriodWeek:
		return utils.StartOfWeek(today)
	case models.PeriodMonth:
		return utils.StartOfMonth(today)
	}
	return today
}

func bucketStart(p models.Period, day time.Time) time.Time {
	switch p {
	case models.PeriodWeek:
		return utils.StartOfWeek(day)
	case models.PeriodMonth:
		return utils.StartOfMonth(day)
	}
	return utils.DayStart(day)
}

// window returns the complete bucket sequence ending at today's bucket,
// oldest first, so days without records still show up as zeros.
func window(p models.Period, today time.Time) []models.Bucket {
	var out []models.Bucket
	switch p {
	case models.PeriodWeek:
		monday := utils.StartOfWeek(today)
		for i := weeklyBuckets - 1; i >= 0; i-- {
			start := monday.AddDate(0, 0, -7*i)
			_, week := start.ISOWeek()
			out = append(out, models.Bucket{Start: start, Label: strconv.Itoa(week)})
		}
	case models.PeriodMonth:
		first := utils.StartOfMonth(today)
		for i := monthlyBuckets - 1; i >= 0; i-- {
			start := first.AddDate(0, -i, 0)
			out = append(out, models.Bucket{Start: start, Label: start.Format("01.06")})
		}
	default:
		for i := dailyBuckets - 1; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			out = append(out, models.Bucket{Start: start, Label: start.Format("02.01.06")})
		}
	}
	return out
}
