package measure

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatDecimal formats d with the given number of fractional digits and
// thousand separators in the integer part.
// Example: FormatDecimal(decimal.RequireFromString("1234.567"), 2) returns "1,234.57".
func FormatDecimal(d decimal.Decimal, precision int32) string {
	formatted := d.StringFixed(precision)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Too large for int64 grouping; leave ungrouped.
		return sign + formatted
	}

	grouped := printer.Sprintf("%d", n)
	if hasFrac {
		return sign + grouped + "." + fracPart
	}
	return sign + grouped
}

// Formatter renders measurements for display, optionally overriding the
// default precision of individual units.
type Formatter struct {
	overrides map[Unit]int32
}

// NewFormatter returns a Formatter using the built-in unit precisions.
func NewFormatter() *Formatter {
	return &Formatter{overrides: make(map[Unit]int32)}
}

// WithPrecision returns a copy of f that displays u with precision digits.
func (f *Formatter) WithPrecision(u Unit, precision int32) *Formatter {
	next := &Formatter{overrides: make(map[Unit]int32, len(f.overrides)+1)}
	for k, v := range f.overrides {
		next.overrides[k] = v
	}
	next.overrides[u] = precision
	return next
}

// Precision returns the effective display precision for u.
func (f *Formatter) Precision(u Unit) int32 {
	if f != nil {
		if p, ok := f.overrides[u]; ok {
			return p
		}
	}
	return u.Precision()
}

// Value formats only the numeric part of m.
func (f *Formatter) Value(m Measurement) string {
	return FormatDecimal(m.Value, f.Precision(m.Unit))
}

// Format renders m as "<value> <symbol>".
func (f *Formatter) Format(m Measurement) string {
	return f.Value(m) + " " + m.Unit.Symbol()
}
