package utils

import "strings"

// canonical unit tokens understood by the nutrition providers
const (
	UnitPiece    = "piece"
	UnitEgg      = "egg"
	UnitLoaf     = "loaf"
	UnitSlice    = "slice"
	UnitSandwich = "sandwich"
	UnitTbsp     = "tbsp"
	UnitTsp      = "tsp"
	UnitGram     = "g"
	UnitKilogram = "kg"
	UnitMl       = "ml"
	UnitLiter    = "l"
	UnitCup      = "cup"
	UnitServing  = "serving"
)

var unitSynonyms = map[string]string{
	"шт": UnitPiece, "штук": UnitPiece, "штука": UnitPiece, "штуки": UnitPiece,
	"pc": UnitPiece, "pcs": UnitPiece, "piece": UnitPiece, "pieces": UnitPiece,

	"г": UnitGram, "гр": UnitGram, "грамм": UnitGram, "грамма": UnitGram, "граммов": UnitGram,
	"g": UnitGram, "gr": UnitGram, "gram": UnitGram, "grams": UnitGram,
	"кг": UnitKilogram, "kg": UnitKilogram,
	"мл": UnitMl, "ml": UnitMl,
	"л": UnitLiter, "литр": UnitLiter, "литра": UnitLiter, "l": UnitLiter,

	"яйцо": UnitEgg, "яйца": UnitEgg, "яиц": UnitEgg, "egg": UnitEgg, "eggs": UnitEgg,
	"буханка": UnitLoaf, "буханки": UnitLoaf, "loaf": UnitLoaf,
	"ломтик": UnitSlice, "ломтика": UnitSlice, "ломтиков": UnitSlice,
	"кусок": UnitSlice, "куска": UnitSlice, "кусочек": UnitSlice, "slice": UnitSlice,
	"бутерброд": UnitSandwich, "бутерброда": UnitSandwich, "sandwich": UnitSandwich,
	"ст.л": UnitTbsp, "ст. л": UnitTbsp, "стл": UnitTbsp, "tbsp": UnitTbsp,
	"столовая ложка": UnitTbsp, "столовой ложки": UnitTbsp, "столовые ложки": UnitTbsp, "столовых ложек": UnitTbsp,
	"ч.л": UnitTsp, "ч. л": UnitTsp, "чл": UnitTsp, "tsp": UnitTsp,
	"чайная ложка": UnitTsp, "чайной ложки": UnitTsp, "чайные ложки": UnitTsp, "чайных ложек": UnitTsp,

	"стакан": UnitCup, "стакана": UnitCup, "cup": UnitCup,
	"порция": UnitServing, "порции": UnitServing, "serving": UnitServing,
}

// CanonicalUnit maps a local unit token to the providers' vocabulary.
// Unknown units are returned unchanged.
func CanonicalUnit(unit string) string {
	if c, ok := unitSynonyms[unitKey(unit)]; ok {
		return c
	}
	return unit
}

func IsKnownUnit(unit string) bool {
	_, ok := unitSynonyms[unitKey(unit)]
	return ok
}

// unitKey lowercases a unit, collapses inner spaces and drops trailing dots.
func unitKey(unit string) string {
	return strings.TrimRight(strings.Join(strings.Fields(strings.ToLower(unit)), " "), ".")
}

func IsCountable(unit string) bool {
	switch unit {
	case UnitPiece, UnitEgg, UnitLoaf, UnitSlice, UnitSandwich, UnitTbsp, UnitTsp:
		return true
	}
	return false
}

func IsMeasured(unit string) bool {
	switch unit {
	case UnitGram, UnitKilogram, UnitMl, UnitLiter:
		return true
	}
	return false
}
