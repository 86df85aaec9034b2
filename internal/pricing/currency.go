package pricing

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount the way the booking UI displays prices,
// e.g. FormatCurrency(1234.5, "USD") == "$1,234.50". Unknown codes fall back
// to "CODE 1,234.50".
func FormatCurrency(amount float64, code string) string {
	if code == "" {
		code = "USD"
	}
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	if sym, ok := currencySymbols[code]; ok {
		return printer.Sprintf("%s%.2f", sym, amount)
	}
	return printer.Sprintf("%s %.2f", code, amount)
}

// FormatCurrency uses the calculator's configured currency when code is empty.
func (c *Calculator) FormatCurrency(amount float64, code string) string {
	if code == "" {
		c.mu.RLock()
		code = c.cfg.Currency
		c.mu.RUnlock()
	}
	return FormatCurrency(amount, code)
}
