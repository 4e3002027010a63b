package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aadykin95/telegram-food-bot-render/models"
)

// DefaultUnit is used when a segment carries no explicit quantity.
const DefaultUnit = "шт"

// trailing "<number><unit>" of a segment, e.g. "яблоко 150 г", "банан 1шт!",
// "кола 0,5л", "масло 1 столовая ложка". The unit may span two words.
var segmentRx = regexp.MustCompile(`^(.*?)\s*(\d+(?:[.,]\d+)?)\s*([\p{L}.]+(?:\s+[\p{L}.]+)?)?[\s\p{P}]*$`)

// ParseQuantities turns "банан 1шт, яблоко 150 г" into food items.
// A segment without a number becomes one piece of the whole segment.
// When nothing parses, every fallback label becomes one piece.
func ParseQuantities(text string, fallback []string) []models.FoodItem {
	var items []models.FoodItem
	for _, seg := range splitSegments(text) {
		if it, ok := parseSegment(seg); ok {
			items = append(items, it)
		}
	}
	if len(items) > 0 {
		return items
	}
	for _, label := range fallback {
		name := NormalizeText(label)
		if name == "" {
			continue
		}
		items = append(items, models.FoodItem{Name: name, Amount: 1, Unit: DefaultUnit})
	}
	return items
}

func parseSegment(seg string) (models.FoodItem, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return models.FoodItem{}, false
	}

	m := segmentRx.FindStringSubmatch(seg)
	if m == nil {
		name := NormalizeText(seg)
		if name == "" {
			return models.FoodItem{}, false
		}
		return models.FoodItem{Name: name, Amount: 1, Unit: DefaultUnit}, true
	}

	name, unit := m[1], unitKey(m[3])
	// "кофе 250 мл молока": an unknown two-word unit is a unit plus a name word
	if first, rest, ok := strings.Cut(unit, " "); ok && !IsKnownUnit(unit) {
		unit = strings.TrimRight(first, ".")
		name += " " + rest
	}
	name = NormalizeText(name)
	if name == "" {
		return models.FoodItem{}, false
	}
	amount, err := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64)
	if err != nil || amount <= 0 {
		amount = 1
	}
	if unit == "" {
		unit = DefaultUnit
	}
	return models.FoodItem{Name: name, Amount: amount, Unit: unit}, true
}

// splitSegments splits on commas and newlines; a comma between two digits is
// a decimal separator and stays.
func splitSegments(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0
	for i, r := range rs {
		switch r {
		case ',':
			if i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]) {
				continue
			}
		case '\n':
		default:
			continue
		}
		out = append(out, string(rs[start:i]))
		start = i + 1
	}
	return append(out, string(rs[start:]))
}
