package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderClient holds the contact fields captured at checkout
type OrderClient struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"required,min=1,max=40"`
	City    string `json:"city" validate:"required,min=1,max=100"`
	Address string `json:"address" validate:"required,min=1,max=500"`
}

// OrderLine is a snapshot of one cart line at the time of checkout
type OrderLine struct {
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Article   string          `json:"article,omitempty"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"` // unit price in the order's mode
	Total     decimal.Decimal `json:"total"`
	Unit      string          `json:"unit"`
	BoxQty    int             `json:"boxQty"`
}

// Order is an immutable record of a completed checkout. Only the client
// block may be edited afterwards.
type Order struct {
	ID        int64           `json:"id"`
	Client    OrderClient     `json:"client"`
	Items     []OrderLine     `json:"items"`
	TotalSum  decimal.Decimal `json:"totalSum"`
	Mode      CartMode        `json:"mode"`
	CreatedAt time.Time       `json:"createdAt"`
}
