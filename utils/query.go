package utils

import (
	"fmt"
	"strings"
)

// BuildQuery composes a provider query from a translated name, an amount and
// a canonical unit: "2 banana", "1 slice bread", "150g apple".
func BuildQuery(name string, amount float64, unit string) string {
	name = strings.TrimSpace(name)
	if amount <= 0 {
		amount = 1
	}
	qty := FormatAmount(amount)

	switch {
	case unit == "":
		return name
	case unit == UnitPiece:
		return fmt.Sprintf("%s %s", qty, name)
	case IsCountable(unit):
		return fmt.Sprintf("%s %s %s", qty, unit, name)
	case IsMeasured(unit):
		return fmt.Sprintf("%s%s %s", qty, unit, name)
	default:
		return fmt.Sprintf("%s %s %s", qty, unit, name)
	}
}
