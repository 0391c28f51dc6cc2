package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"textile-store/internal/apperr"
)

// Unidades de materia prima
const (
	MaterialMeter = "meter"
	MaterialYard  = "yard"
	MaterialKg    = "kg"
	MaterialRoll  = "roll"
	MaterialPcs   = "pcs"
)

var unitAliases = map[string]string{
	"":         MaterialPcs,
	"m":        MaterialMeter,
	"mtr":      MaterialMeter,
	"meter":    MaterialMeter,
	"meters":   MaterialMeter,
	"metre":    MaterialMeter,
	"yd":       MaterialYard,
	"yds":      MaterialYard,
	"yard":     MaterialYard,
	"yards":    MaterialYard,
	"kg":       MaterialKg,
	"kgs":      MaterialKg,
	"kilo":     MaterialKg,
	"kilogram": MaterialKg,
	"roll":     MaterialRoll,
	"rolls":    MaterialRoll,
	"rol":      MaterialRoll,
	"pcs":      MaterialPcs,
	"pc":       MaterialPcs,
	"piece":    MaterialPcs,
	"pieces":   MaterialPcs,
	"lembar":   MaterialPcs,
	"buah":     MaterialPcs,
}

var (
	quantityPattern = regexp.MustCompile(`^(\d+)(?:[.,](\d+))?\s*([a-z]*)$`)
	groupedPattern  = regexp.MustCompile(`^[1-9]\d{0,2}\.\d{3}$`)
)

// Quantity es una cantidad de materia prima con su unidad normalizada
type Quantity struct {
	Amount decimal.Decimal
	Unit   string
}

func (q Quantity) String() string {
	return q.Amount.String() + " " + q.Unit
}

// ParseQuantity interpreta textos como "50 meter", "12,5 m" o "3 rol".
// Acepta coma o punto decimal; sin unidad se asume pcs. "1.000" se rechaza
// por ser ambiguo con el separador de miles.
func ParseQuantity(raw string) (Quantity, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Quantity{}, apperr.Invalid("quantity", "quantity is required")
	}

	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, apperr.Invalid("quantity", "invalid quantity %q", raw)
	}
	number := m[1]
	if m[2] != "" {
		number += "." + m[2]
	}
	if groupedPattern.MatchString(number) && strings.Contains(s, ".") {
		return Quantity{}, apperr.Invalid("quantity", "ambiguous quantity %q, use a decimal comma without thousand separators", raw)
	}

	unit, ok := unitAliases[m[3]]
	if !ok {
		return Quantity{}, apperr.Invalid("quantity", "unknown unit %q", m[3])
	}

	amount, err := decimal.NewFromString(number)
	if err != nil {
		return Quantity{}, apperr.Invalid("quantity", "invalid quantity %q", raw)
	}
	if !amount.IsPositive() {
		return Quantity{}, apperr.Invalid("quantity", "quantity must be greater than zero")
	}
	return Quantity{Amount: amount, Unit: unit}, nil
}
