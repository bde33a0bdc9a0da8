// Package currency converts canonical NZD prices into display currencies
// using a static rate table. There is no live FX feed; rates are reviewed
// manually alongside catalog price updates.
package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/haisenberg98/brewgear-api/internal/pricing"
)

// Base is the canonical currency every price is stored in.
const Base = "NZD"

// Unknown is rendered when the amount cannot be expressed in the requested currency.
const Unknown = "-"

// rates convert one NZD unit into the target currency.
var rates = map[string]float64{
	"NZD": 1.0,
	"AUD": 0.93,
	"USD": 0.60,
}

// symbols maps ISO codes to display prefixes. AUD deliberately renders as
// "AU$" rather than the CLDR default "A$", matching the storefront styling.
var symbols = map[string]string{
	"NZD": "$",
	"AUD": "AU$",
	"USD": "US$",
}

var printer = message.NewPrinter(language.English)

// Convert translates an NZD minor-unit amount into the target currency's
// minor units. The second return reports whether the currency is supported.
func Convert(amount pricing.Money, code string) (pricing.Money, bool) {
	rate, ok := rates[normalize(code)]
	if !ok {
		return 0, false
	}
	converted := float64(amount) * rate
	if converted < 0 {
		converted -= 0.5
	} else {
		converted += 0.5
	}
	return pricing.Money(converted), true
}

// Display formats an NZD minor-unit amount in the target currency with the
// storefront's symbol rules. Unsupported currencies and negative amounts
// degrade to "-" rather than failing the page render.
func Display(amount pricing.Money, code string) string {
	if amount < 0 {
		return Unknown
	}
	iso := normalize(code)
	converted, ok := Convert(amount, iso)
	if !ok {
		return Unknown
	}
	major := float64(converted) / 100
	return symbols[iso] + printer.Sprint(number.Decimal(major,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Supported reports whether the given ISO code has a configured rate.
func Supported(code string) bool {
	_, ok := rates[normalize(code)]
	return ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
