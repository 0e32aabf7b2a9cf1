package migration

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"lemonshop_server/structs"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Products migrates every product of a persisted list
func Products(list []structs.LegacyProduct, now time.Time) []structs.Product {
	out := make([]structs.Product, 0, len(list))
	for _, p := range list {
		out = append(out, Product(p, now))
	}
	return out
}

// Product fills the fields introduced after the first release:
//
//	priceRetail = priceRetail ?? price ?? 0
//	boxQty      = max(1, boxQty ?? 1)
//	priceOpt    = priceOpt ?? (price != 0 ? price : priceRetail) × boxQty
//	price       = priceRetail
//	article     = article ?? size ?? ""
//	createdAt   = createdAt ?? created_at ?? now
func Product(p structs.LegacyProduct, now time.Time) structs.Product {
	priceRetail := decimal.Zero
	switch {
	case p.PriceRetail.Valid:
		priceRetail = p.PriceRetail.Decimal
	case p.Price.Valid:
		priceRetail = p.Price.Decimal
	}

	boxQty := 1
	if p.BoxQty != nil {
		boxQty = max(1, int(*p.BoxQty))
	}

	priceOpt := p.PriceOpt
	if !priceOpt.Valid {
		base := priceRetail
		if p.Price.Valid && !p.Price.Decimal.IsZero() {
			base = p.Price.Decimal
		}
		priceOpt = decimal.NewNullDecimal(base.Mul(decimal.NewFromInt(int64(boxQty))))
	}

	article := ""
	switch {
	case p.Article != nil:
		article = *p.Article
	case p.Size != nil:
		article = *p.Size
	}
	size := article
	if p.Size != nil {
		size = *p.Size
	}

	createdAt, ok := parseTimestamp(p.CreatedAt)
	if !ok {
		createdAt, ok = parseTimestamp(p.CreatedAtSnake)
	}
	if !ok {
		createdAt = now.UTC()
	}

	return structs.Product{
		ID:          p.ID.Int(),
		Title:       p.Title,
		Article:     article,
		Size:        size,
		Price:       priceRetail,
		PriceRetail: priceRetail,
		PriceOpt:    priceOpt,
		BoxQty:      boxQty,
		CostPrice:   p.CostPrice,
		Stock:       p.Stock.IntPtr(),
		Barcode:     p.Barcode,
		Description: p.Description,
		ImageData:   p.ImageData,
		CreatedAt:   createdAt,
		Cat:         p.Cat,
	}
}

// parseTimestamp reads an ISO string or a unix millisecond number
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}

	var ms json.Number
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, false
	}
	n, err := ms.Int64()
	if err != nil {
		f, ferr := ms.Float64()
		if ferr != nil {
			return time.Time{}, false
		}
		n = int64(f)
	}
	return time.UnixMilli(n).UTC(), true
}
