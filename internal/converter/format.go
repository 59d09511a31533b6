package converter

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/shopspring/decimal"
)

// FormatResult renders "<amount> <FROM> = <converted> <TO>". The amount keeps
// every digit the evaluator produced; the converted value is rounded half-up
// to two places.
func FormatResult(r model.ConversionResult) string {
	return fmt.Sprintf("%s %s = %s %s", FormatAmount(r.Amount), r.From, FormatMoney(r.Converted), r.To)
}

// FormatAmount prints the shortest decimal that round-trips to v.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMoney rounds half away from zero to exactly two decimals. Rounding
// happens on the shortest decimal form, so 1.005 becomes 1.01.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
