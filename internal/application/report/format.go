package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const displayDate = "02/01/2006"

// Monedas que el marketplace informa sin decimales.
var zeroDecimalCurrencies = map[string]bool{"CLP": true, "COP": true, "PYG": true}

var groupPrinter = message.NewPrinter(language.English)

// Money formatea un monto con separador de miles "." y decimales ",": "$ 1.234.567" / "$ 1.234,50".
func Money(amount decimal.Decimal, currency string) string {
	places := int32(2)
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		places = 0
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.Round(places)
	intPart := fixed.Truncate(0)
	out := sign + "$ " + Integer(intPart.IntPart())
	if places > 0 {
		frac := fixed.Sub(intPart).StringFixed(places) // "0.50"
		out += "," + frac[strings.IndexByte(frac, '.')+1:]
	}
	return out
}

// Integer entero con separador de miles ".".
func Integer(n int64) string {
	return strings.ReplaceAll(groupPrinter.Sprintf("%d", n), ",", ".")
}

// Date fecha dd/mm/aaaa; vacío para la fecha cero.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}
