package services

import (
	"context"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

// LogStore is the append-only food log. Reads return every data row in
// column order (see models.LogHeader); filtering happens in the caller.
type LogStore interface {
	Append(ctx context.Context, rec *models.LogRecord) error
	ReadRows(ctx context.Context) ([][]string, error)
}
