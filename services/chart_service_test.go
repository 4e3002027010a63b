package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

func TestChartRenderPNG(t *testing.T) {
	for _, p := range models.Periods {
		rep, err := newReportFixture(sampleRows()...).Build(context.Background(), "42", string(p))
		if err != nil {
			t.Fatal(err)
		}
		png, err := NewChartService().Render(rep)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if !bytes.HasPrefix(png, []byte("\x89PNG")) {
			t.Fatalf("%s: output is not a PNG", p)
		}
	}
}

func TestChartRenderAllZero(t *testing.T) {
	rep := &models.Report{Period: models.PeriodToday, Buckets: window(models.PeriodToday, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))}
	if _, err := NewChartService().Render(rep); err != nil {
		t.Fatal(err)
	}
}
