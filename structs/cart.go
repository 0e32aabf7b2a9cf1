package structs

// CartMode selects how cart quantities are read: pieces or boxes
type CartMode string

const (
	ModeRetail    CartMode = "retail"
	ModeWholesale CartMode = "wholesale"
)

// Valid reports whether m is a known mode
func (m CartMode) Valid() bool {
	return m == ModeRetail || m == ModeWholesale
}

// Cart maps product ids (as strings) to positive quantities. Switching Mode
// never converts quantities: 3 boxes become 3 pieces and back.
type Cart struct {
	Mode  CartMode       `json:"mode"`
	Items map[string]int `json:"items"`
}

func NewCart() Cart {
	return Cart{Mode: ModeRetail, Items: map[string]int{}}
}

// IsEmpty reports whether the cart holds no items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

type CartItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CartModeRequest struct {
	Mode CartMode `json:"mode" validate:"required,oneof=retail wholesale"`
}
