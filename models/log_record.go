package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column positions of a log row. The order is shared by every log backend.
const (
	ColDate = iota
	ColTime
	ColUserID
	ColUsername
	ColDishText
	ColTranslatedText
	ColGrams
	ColCalories
	ColProtein
	ColFat
	ColCarbs
	ColPhotoURL
	ColumnCount
)

// LogHeader is written as the first row of an empty sheet.
var LogHeader = []string{
	"date", "time", "user_id", "username", "dish", "translated",
	"grams", "calories", "protein", "fat", "carbs", "photo_url",
}

// LogRecord is one logging event. Append-only.
// Nutrient fields are nil when no item of the event could be resolved.
type LogRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Date           string    `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	Time           string    `gorm:"size:8;not null" json:"time"`  // HH:MM:SS
	UserID         string    `gorm:"index;not null" json:"user_id"`
	Username       string    `json:"username"`
	DishText       string    `gorm:"type:text" json:"dish_text"`
	TranslatedText string    `gorm:"type:text" json:"translated_text"`
	Grams          *float64  `json:"grams"`
	Calories       *float64  `json:"calories"`
	Protein        *float64  `json:"protein"`
	Fat            *float64  `json:"fat"`
	Carbs          *float64  `json:"carbs"`
	PhotoURL       string    `json:"photo_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *LogRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// SetNutrients fills every nutrient column from n.
func (r *LogRecord) SetNutrients(n Nutrients) {
	r.Grams = ptr(n.Grams)
	r.Calories = ptr(n.Calories)
	r.Protein = ptr(n.Protein)
	r.Fat = ptr(n.Fat)
	r.Carbs = ptr(n.Carbs)
}

// HasNutrients reports whether the record carries nutrition values.
func (r *LogRecord) HasNutrients() bool { return r.Calories != nil }

// Row renders the record in column order.
func (r *LogRecord) Row() []string {
	row := make([]string, ColumnCount)
	row[ColDate] = r.Date
	row[ColTime] = r.Time
	row[ColUserID] = r.UserID
	row[ColUsername] = r.Username
	row[ColDishText] = r.DishText
	row[ColTranslatedText] = r.TranslatedText
	row[ColGrams] = formatOptional(r.Grams)
	row[ColCalories] = formatOptional(r.Calories)
	row[ColProtein] = formatOptional(r.Protein)
	row[ColFat] = formatOptional(r.Fat)
	row[ColCarbs] = formatOptional(r.Carbs)
	row[ColPhotoURL] = r.PhotoURL
	return row
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	// two decimals, trailing zeros dropped: 0.1+0.2 -> "0.3", 105.00 -> "105"
	out := strconv.FormatFloat(*v, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	if out == "-0" {
		return "0"
	}
	return out
}

func ptr(v float64) *float64 { return &v }
