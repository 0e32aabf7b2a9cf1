// Package cart accumulates product quantities for one shopper. Quantities
// are pieces in retail mode and boxes in wholesale mode; the mode only
// changes how they are read, never the stored numbers.
package cart

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"lemonshop_server/pricing"
	"lemonshop_server/structs"

	"github.com/shopspring/decimal"
)

// Summary is the priced content of a cart
type Summary struct {
	Mode  structs.CartMode    `json:"mode"`
	Lines []structs.OrderLine `json:"lines"`
	Total decimal.Decimal     `json:"total"`
	Count int                 `json:"count"`
}

// Key is the cart key of a product id
func Key(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// SetQty adds delta to the quantity of productID. A result of zero or less
// removes the entry, so stored quantities are always positive. Growth stops
// at math.MaxInt.
func SetQty(c structs.Cart, productID string, delta int) structs.Cart {
	out := clone(c)
	cur := out.Items[productID]
	next := max(0, cur+delta)
	if delta > 0 && cur > math.MaxInt-delta {
		next = math.MaxInt
	}
	if next == 0 {
		delete(out.Items, productID)
	} else {
		out.Items[productID] = next
	}
	return out
}

// Clear empties the cart and keeps its mode
func Clear(c structs.Cart) structs.Cart {
	return structs.Cart{Mode: c.Mode, Items: map[string]int{}}
}

// SetMode switches the mode. Quantities are kept as they are: 3 boxes become
// 3 pieces and the other way round.
func SetMode(c structs.Cart, mode structs.CartMode) structs.Cart {
	out := clone(c)
	out.Mode = mode
	return out
}

// Totals prices every entry whose product still exists. Entries pointing at
// removed products are skipped and do not count.
func Totals(c structs.Cart, products []structs.Product) Summary {
	byID := make(map[int64]structs.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s := Summary{Mode: c.Mode, Lines: []structs.OrderLine{}, Total: decimal.Zero}
	if !s.Mode.Valid() {
		s.Mode = structs.ModeRetail
	}

	for _, key := range sortedKeys(c.Items) {
		qty := c.Items[key]
		if qty <= 0 {
			continue
		}
		id, ok := parseKey(key)
		if !ok {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}

		q := pricing.PriceFor(p, s.Mode)
		line := structs.OrderLine{
			ProductID: p.ID,
			Title:     p.Title,
			Article:   cmp.Or(p.Article, p.Size),
			Qty:       qty,
			Price:     q.Unit,
			Total:     q.LineTotal(qty),
			Unit:      q.UnitLabel,
			BoxQty:    q.BoxQty,
		}
		s.Lines = append(s.Lines, line)
		s.Total = s.Total.Add(line.Total)
		s.Count += qty
	}
	return s
}

// CanIncrement reports whether the quantity of p may grow
func CanIncrement(p structs.Product, stockEnabled bool) bool {
	return pricing.Available(p, stockEnabled)
}

func clone(c structs.Cart) structs.Cart {
	items := maps.Clone(c.Items)
	if items == nil {
		items = map[string]int{}
	}
	return structs.Cart{Mode: c.Mode, Items: items}
}

func parseKey(key string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	return n, err == nil
}

// sortedKeys orders numeric keys ascending, then the rest lexically
func sortedKeys(items map[string]int) []string {
	keys := slices.Collect(maps.Keys(items))
	slices.SortFunc(keys, func(a, b string) int {
		na, okA := parseKey(a)
		nb, okB := parseKey(b)
		switch {
		case okA && okB:
			return cmp.Or(cmp.Compare(na, nb), strings.Compare(a, b))
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}
