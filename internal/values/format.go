package values

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

const (
	dateLayout     = "1/2/2006"
	dateTimeLayout = "1/2/2006, 3:04:05 PM"
	timeLayout     = "3:04:05 PM"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Formatter turns a raw value into display text
type Formatter func(any) string

// FormatterFor returns the formatter used for a column: its own formatter
// when set, otherwise the formatter of its type.
func FormatterFor(col models.ColumnDef) Formatter {
	if col.ValueFormatter != nil {
		return col.ValueFormatter
	}
	return TypeFormatter(col.Type)
}

// TypeFormatter returns the built-in formatter of a column type
func TypeFormatter(t models.ColumnType) Formatter {
	switch t {
	case models.TypeCurrency:
		return Currency
	case models.TypePercent:
		return Percent
	case models.TypeDate:
		return timeFormatter(dateLayout)
	case models.TypeDateTime:
		return timeFormatter(dateTimeLayout)
	case models.TypeTime:
		return timeFormatter(timeLayout)
	case models.TypeBoolean:
		return YesNo
	case models.TypeCheckbox:
		return func(v any) string {
			if Truthy(v) {
				return "true"
			}
			return "false"
		}
	}
	return String
}

// Format renders a value the way its column displays it
func Format(col models.ColumnDef, v any) string {
	return FormatterFor(col)(v)
}

// Currency formats numbers as US dollars, e.g. $1,234.50
func Currency(v any) string {
	f, ok := Number(v)
	if !ok {
		return String(v)
	}
	if f < 0 {
		return printer.Sprintf("-$%.2f", math.Abs(f))
	}
	return printer.Sprintf("$%.2f", f)
}

// Percent formats a ratio with one decimal, e.g. 0.125 becomes 12.5%
func Percent(v any) string {
	f, ok := Number(v)
	if !ok {
		return String(v)
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// YesNo formats truthiness
func YesNo(v any) string {
	if Truthy(v) {
		return "Yes"
	}
	return "No"
}

func timeFormatter(layout string) Formatter {
	return func(v any) string {
		if v == nil {
			return ""
		}
		t, ok := Time(v)
		if !ok {
			return String(v)
		}
		return t.Format(layout)
	}
}
