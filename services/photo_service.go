package services

import (
	"context"
	"sort"
	"strings"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"go.uber.org/zap"
)

// Recognizer returns ranked labels for raw image bytes.
type Recognizer interface {
	DetectLabels(ctx context.Context, image []byte) ([]models.Label, error)
}

// LabelFilter picks the food item names out of raw labels.
type LabelFilter func(labels []models.Label) []string

// PhotoStorage keeps the uploaded photo and returns a URL for the log.
type PhotoStorage interface {
	Upload(ctx context.Context, userID int64, data []byte) (string, error)
}

var foodKeywords = map[string]bool{
	"apple": true, "banana": true, "orange": true, "pear": true, "grape": true,
	"strawberry": true, "watermelon": true, "melon": true, "pineapple": true, "peach": true,
	"lemon": true, "kiwi": true, "mango": true, "plum": true, "cherry": true,
	"tomato": true, "cucumber": true, "potato": true, "carrot": true, "onion": true,
	"broccoli": true, "cabbage": true, "lettuce": true, "pepper": true, "corn": true,
	"bread": true, "toast": true, "sandwich": true, "burger": true, "hamburger": true,
	"pizza": true, "pasta": true, "spaghetti": true, "noodle": true, "rice": true,
	"egg": true, "cheese": true, "butter": true, "yogurt": true, "milk": true,
	"chicken": true, "beef": true, "pork": true, "steak": true, "sausage": true,
	"bacon": true, "ham": true, "fish": true, "salmon": true, "shrimp": true,
	"sushi": true, "soup": true, "salad": true, "porridge": true, "oatmeal": true,
	"pancake": true, "waffle": true, "croissant": true, "donut": true, "cookie": true,
	"chocolate": true, "cake": true, "pie": true, "ice cream": true, "coffee": true,
	"tea": true, "juice": true, "french fries": true, "hot dog": true, "burrito": true,
}

// matched anywhere in a label, e.g. "Blueberry", "Cheesecake", "Orange Juice"
var foodSubstrings = []string{
	"berry", "cake", "bread", "cheese", "meat", "fish", "soup", "salad",
	"juice", "pasta", "noodle", "sandwich", "pizza", "dessert", "pastry",
	"cookie", "chocolate", "sausage", "seafood",
}

// category labels that say "there is food" without naming any
var genericLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "produce": true, "plant": true,
	"fruit": true, "vegetable": true, "lunch": true, "dinner": true, "breakfast": true,
	"cuisine": true, "platter": true,
}

const rawLabelFallback = 3

// FilterFoodLabels keeps labels naming a food, most confident first. When
// none match, the top raw labels are returned so the user can correct them.
func FilterFoodLabels(labels []models.Label) []string {
	sorted := append([]models.Label(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })

	seen := map[string]bool{}
	var out []string
	for _, l := range sorted {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" || seen[name] || genericLabels[name] {
			continue
		}
		if foodKeywords[name] || containsAny(name, foodSubstrings) {
			seen[name] = true
			out = append(out, name)
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, l := range sorted {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == rawLabelFallback {
			break
		}
	}
	return out
}

// AllLabels is the filter for recognizers that already return food only.
func AllLabels(labels []models.Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if name := strings.TrimSpace(l.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type PhotoService struct {
	recognizer Recognizer
	filter     LabelFilter
	storage    PhotoStorage // optional
	log        *zap.Logger
}

func NewPhotoService(recognizer Recognizer, filter LabelFilter, storage PhotoStorage, log *zap.Logger) *PhotoService {
	if filter == nil {
		filter = AllLabels
	}
	return &PhotoService{recognizer: recognizer, filter: filter, storage: storage, log: log}
}

// Recognize returns the candidate item names (possibly none).
func (s *PhotoService) Recognize(ctx context.Context, image []byte) ([]string, error) {
	labels, err := s.recognizer.DetectLabels(ctx, image)
	if err != nil {
		return nil, err
	}
	return s.filter(labels), nil
}

// Store uploads the photo when storage is configured; failures only cost
// the photo link.
func (s *PhotoService) Store(ctx context.Context, userID int64, image []byte) string {
	if s.storage == nil {
		return ""
	}
	u, err := s.storage.Upload(ctx, userID, image)
	if err != nil {
		s.log.Warn("photo upload failed", zap.Int64("user_id", userID), zap.Error(err))
		return ""
	}
	return u
}
