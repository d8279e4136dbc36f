package alerts

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders a size with 1024-based units and two decimals,
// e.g. 52428800 -> "50.00 MB". Values below 1 KB are printed as whole bytes.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[i])
}

// FormatDuration rounds d to whole seconds, or milliseconds below a second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

// moneyFormatter prints amounts with locale digit grouping and an ISO
// currency code, e.g. "USD 1,000,000.00".
type moneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func newMoneyFormatter(tag language.Tag, unit currency.Unit) moneyFormatter {
	return moneyFormatter{printer: message.NewPrinter(tag), unit: unit}
}

func (m moneyFormatter) Format(amount float64) string {
	return m.printer.Sprintf("%s %.2f", m.unit.String(), amount)
}

// Number prints an integer with locale digit grouping.
func (m moneyFormatter) Number(n int) string {
	return m.printer.Sprintf("%d", n)
}
