// Package pricing derives unit prices and line totals for products in the
// two cart modes. Every consumer that shows or sums a price goes through
// PriceFor, never through the raw product fields.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lemonshop_server/structs"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	UnitPieces = "шт"
	UnitBoxes  = "кор"

	// Currency is appended to every displayed amount
	Currency = "₸"

	// NewWindow is how long a product counts as new after creation unless
	// configured otherwise
	NewWindow = 7 * 24 * time.Hour
)

var (
	displayLocale = language.Russian

	// decimalSeparator is the display locale's, read off a formatted number
	decimalSeparator = strings.Trim(message.NewPrinter(displayLocale).Sprint(number.Decimal(1.5)), "15")
)

// Quote is the price of one quantity unit of a product in a given mode
type Quote struct {
	Mode       structs.CartMode `json:"mode"`
	Unit       decimal.Decimal  `json:"unit"`
	UnitLabel  string           `json:"unitLabel"`
	PiecePrice decimal.Decimal  `json:"piecePrice"`
	BoxQty     int              `json:"boxQty"`
}

// PriceFor quotes p in mode. Retail quantities are pieces priced at
// priceRetail. Wholesale quantities are boxes priced at priceOpt, or at
// priceRetail × boxQty when no box price is set.
func PriceFor(p structs.Product, mode structs.CartMode) Quote {
	boxQty := max(1, p.BoxQty)
	q := Quote{
		Mode:       structs.ModeRetail,
		Unit:       p.PriceRetail,
		UnitLabel:  UnitPieces,
		PiecePrice: p.PriceRetail,
		BoxQty:     boxQty,
	}

	if mode != structs.ModeWholesale {
		return q
	}

	q.Mode = structs.ModeWholesale
	q.UnitLabel = UnitBoxes
	if p.PriceOpt.Valid {
		q.Unit = p.PriceOpt.Decimal
	} else {
		q.Unit = p.PriceRetail.Mul(decimal.NewFromInt(int64(boxQty)))
	}
	return q
}

// LineTotal is the price of qty units
func (q Quote) LineTotal(qty int) decimal.Decimal {
	return q.Unit.Mul(decimal.NewFromInt(int64(qty)))
}

// Describe renders the line the way the cart shows it. Wholesale lines spell
// out the box content: "2 кор × (12 шт × 650₸) = 15 600₸".
func (q Quote) Describe(qty int) string {
	total := Money(q.LineTotal(qty))
	if q.Mode == structs.ModeWholesale {
		return fmt.Sprintf("%d %s × (%d %s × %s) = %s",
			qty, UnitBoxes, q.BoxQty, UnitPieces, Money(q.PiecePrice), total)
	}
	return fmt.Sprintf("%d %s × %s = %s", qty, UnitPieces, Money(q.Unit), total)
}

// Available reports whether p may be added to a cart. Products run out only
// when stock tracking is on and their stock is set and not positive.
func Available(p structs.Product, stockEnabled bool) bool {
	return !stockEnabled || p.Stock == nil || *p.Stock > 0
}

// IsNew reports whether p was created within window before now. A window
// that is not positive means NewWindow.
func IsNew(p structs.Product, now time.Time, window time.Duration) bool {
	if p.CreatedAt.IsZero() {
		return false
	}
	if window <= 0 {
		window = NewWindow
	}
	age := now.Sub(p.CreatedAt)
	return age >= 0 && age < window
}

// Format renders amount with the display locale's digit grouping and decimal
// separator. Every fraction digit the amount has is kept.
func Format(amount decimal.Decimal) string {
	whole, frac, _ := strings.Cut(amount.Abs().String(), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = message.NewPrinter(displayLocale).Sprint(number.Decimal(n))
	}

	out := whole
	if frac != "" {
		out += decimalSeparator + frac
	}
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}

// Money is Format with the currency sign
func Money(amount decimal.Decimal) string {
	return Format(amount) + Currency
}
