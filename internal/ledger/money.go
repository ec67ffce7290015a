package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Valores monetários circulam internamente como int64 em centavos.
// A representação externa (DTOs, persistência de odd) é string com duas casas.

// ParseAmount converte um valor decimal ("12.34") em centavos.
// Rejeita valores com mais de duas casas decimais.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return shifted.IntPart(), nil
}

// FormatAmount converte centavos na representação externa com duas casas ("12.34").
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseOdd converte a odd decimal ("1.85") preservando a precisão informada.
func ParseOdd(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid odd %q: %w", s, err)
	}
	return d, nil
}
