package fixed

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Point is a decimal view of a computed statistic, used where values are
// reported rather than computed with.
type Point struct {
	v decimal.Decimal
}

func FromFloat64(value float64) (Point, error) {
	d, err := decimal.NewFromFloat64(value)
	if err != nil {
		return Point{}, fmt.Errorf("fixed: %g: %w", value, err)
	}
	return Point{d}, nil
}

func (p Point) String() string { return p.v.String() }

// Significant rounds p half-to-even to the given number of significant
// digits. Digits left of the decimal point are never dropped.
func (p Point) Significant(digits int) Point {
	if p.v.IsZero() {
		return p
	}
	integer := p.v.Prec() - p.v.Scale()
	scale := digits - integer
	if scale < 0 {
		scale = 0
	}
	return Point{p.v.Round(scale).Trim(0)}
}
