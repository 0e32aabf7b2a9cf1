package structs

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots written by earlier versions hold prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the current (migrated) product shape
type Product struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Article     string              `json:"article"`
	Size        string              `json:"size"`
	Price       decimal.Decimal     `json:"price"` // mirror of PriceRetail for older readers
	PriceRetail decimal.Decimal     `json:"priceRetail"`
	PriceOpt    decimal.NullDecimal `json:"priceOpt"` // per box; derived from PriceRetail × BoxQty when not set
	BoxQty      int                 `json:"boxQty"`
	CostPrice   decimal.NullDecimal `json:"costPrice"`
	Stock       *int                `json:"stock"` // nil means unlimited
	Barcode     string              `json:"barcode,omitempty"`
	Description string              `json:"description,omitempty"`
	ImageData   string              `json:"imageData,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	Cat         ID                  `json:"cat"` // weak reference, may dangle
}

// LegacyProduct is a product record of unknown vintage as found in a
// persisted snapshot. Every field is optional.
type LegacyProduct struct {
	ID             ID                  `json:"id"`
	Title          string              `json:"title"`
	Article        *string             `json:"article"`
	Size           *string             `json:"size"`
	Price          decimal.NullDecimal `json:"price"`
	PriceRetail    decimal.NullDecimal `json:"priceRetail"`
	PriceOpt       decimal.NullDecimal `json:"priceOpt"`
	BoxQty         *LooseInt           `json:"boxQty"`
	CostPrice      decimal.NullDecimal `json:"costPrice"`
	Stock          *LooseInt           `json:"stock"`
	Barcode        string              `json:"barcode"`
	Description    string              `json:"description"`
	ImageData      string              `json:"imageData"`
	CreatedAt      json.RawMessage     `json:"createdAt"` // ISO string or unix millis
	CreatedAtSnake json.RawMessage     `json:"created_at"`
	Cat            ID                  `json:"cat"`
}

// UnmarshalJSON keeps the record when single fields are malformed
func (p *LegacyProduct) UnmarshalJSON(data []byte) error {
	type plain LegacyProduct
	return decodeLenient(data, (*plain)(p))
}

// ProductInput is the admin product form. It is applied as a whole, the way
// the edit dialog saves every field at once.
type ProductInput struct {
	Title       string           `json:"title" validate:"required,min=1,max=300"`
	Article     string           `json:"article" validate:"max=100"`
	Size        string           `json:"size" validate:"max=100"`
	PriceRetail decimal.Decimal  `json:"priceRetail"`
	PriceOpt    *decimal.Decimal `json:"priceOpt"` // nil derives PriceRetail × BoxQty
	BoxQty      int              `json:"boxQty"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Stock       *int             `json:"stock"`
	Barcode     string           `json:"barcode" validate:"max=64"`
	Description string           `json:"description" validate:"max=5000"`
	ImageData   *string          `json:"imageData"` // nil keeps the current image, "" removes it
	Cat         ID               `json:"cat"`
}
