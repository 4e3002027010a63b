package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/utils"
)

var affirmatives = map[string]bool{
	"да": true, "ок": true, "ok": true, "yes": true, "верно": true, "правильно": true,
}

// IsAffirmative reports whether text confirms the detected items as-is.
func IsAffirmative(text string) bool {
	return affirmatives[utils.NormalizeText(text)]
}

// Confirmed is what the user settled on, ready for logging.
type Confirmed struct {
	Items    []models.FoodItem
	DishText string
	PhotoURL string
	// FromPhoto is set when a pending photo was consumed.
	FromPhoto bool
}

// ConfirmationService runs the photo confirmation flow:
// photo -> awaiting confirmation -> next text or button -> idle.
type ConfirmationService struct {
	store SessionStore
}

func NewConfirmationService(store SessionStore) *ConfirmationService {
	return &ConfirmationService{store: store}
}

// Begin records the labels detected on a photo. A newer photo replaces an
// older unanswered one.
func (s *ConfirmationService) Begin(ctx context.Context, userID int64, labels []string, photoURL string) error {
	if err := s.store.Put(ctx, models.PendingConfirmation{
		UserID:   userID,
		Detected: labels,
		PhotoURL: photoURL,
	}); err != nil {
		return fmt.Errorf("save pending confirmation: %w", err)
	}
	return nil
}

// Resolve handles a text message. With a photo pending, an affirmative word
// accepts the labels and anything else is parsed as corrections, falling
// back to the labels. Without one, the text is parsed on its own.
func (s *ConfirmationService) Resolve(ctx context.Context, userID int64, text string) (*Confirmed, error) {
	p, ok, err := s.store.Take(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pending confirmation: %w", err)
	}
	if !ok {
		return &Confirmed{Items: utils.ParseQuantities(text, nil), DishText: strings.TrimSpace(text)}, nil
	}
	if IsAffirmative(text) {
		return fromLabels(p)
	}
	return &Confirmed{
		Items:     utils.ParseQuantities(text, p.Detected),
		DishText:  strings.TrimSpace(text),
		PhotoURL:  p.PhotoURL,
		FromPhoto: true,
	}, nil
}

// Accept is the "accept as is" button.
func (s *ConfirmationService) Accept(ctx context.Context, userID int64) (*Confirmed, error) {
	p, ok, err := s.store.Take(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pending confirmation: %w", err)
	}
	if !ok {
		return nil, ErrNoPending
	}
	return fromLabels(p)
}

// Manual is the "write it myself" button: the labels are dropped but the
// photo stays attached to whatever the user types next.
func (s *ConfirmationService) Manual(ctx context.Context, userID int64) error {
	p, _, err := s.store.Take(ctx, userID)
	if err != nil {
		return fmt.Errorf("load pending confirmation: %w", err)
	}
	return s.Begin(ctx, userID, nil, p.PhotoURL)
}

func fromLabels(p models.PendingConfirmation) (*Confirmed, error) {
	if len(p.Detected) == 0 {
		return nil, ErrNothingDetected
	}
	dish := strings.Join(p.Detected, ", ")
	return &Confirmed{
		Items:     utils.ParseQuantities(dish, p.Detected),
		DishText:  dish,
		PhotoURL:  p.PhotoURL,
		FromPhoto: true,
	}, nil
}
