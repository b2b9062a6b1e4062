package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimal lists currencies displayed without a fractional part.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"TWD": true,
}

// MinorUnits returns the number of decimal places shown for currency.
func MinorUnits(currency string) int32 {
	if zeroDecimal[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// Display formats amount for presentation, truncating toward zero at the
// currency's minor unit. Balances themselves are never rounded.
func Display(amount float64, currency string) string {
	places := MinorUnits(currency)
	return decimal.NewFromFloat(amount).Truncate(places).StringFixed(places)
}
