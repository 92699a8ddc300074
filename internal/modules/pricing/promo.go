// README: Promo code lookup.
package pricing

import "strings"

type PromoStatus string

const (
	PromoNone    PromoStatus = "none"
	PromoApplied PromoStatus = "applied"
	PromoInvalid PromoStatus = "invalid"
)

// Promo is the outcome of resolving a code. An invalid code is a value, not an error.
type Promo struct {
	Code     string      `json:"code"`
	Status   PromoStatus `json:"status"`
	Discount float64     `json:"discount"`
}

var promoCodes = map[string]float64{
	"TELEPORT20": 0.20,
	"WELCOME50":  0.50,
}

// ResolvePromo is case-insensitive and total.
func ResolvePromo(code string) Promo {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return Promo{Status: PromoNone}
	}
	if d, ok := promoCodes[c]; ok {
		return Promo{Code: c, Status: PromoApplied, Discount: d}
	}
	return Promo{Code: c, Status: PromoInvalid}
}
