package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Rupees formats v as a whole-rupee amount with thousands separators.
func Rupees(v float64) string {
	return printer.Sprintf("₹%.0f", v)
}

// Count formats v as a whole number with thousands separators.
func Count(v float64) string {
	return printer.Sprintf("%.0f", v)
}
