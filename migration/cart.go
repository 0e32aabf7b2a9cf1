package migration

import (
	"encoding/json"
	"fmt"

	"lemonshop_server/structs"
)

type rawCart struct {
	Mode  string                     `json:"mode"`
	Items map[string]json.RawMessage `json:"items"`
}

// Cart decodes a persisted cart blob. Any mode other than wholesale reads as
// retail and entries without a positive quantity are dropped.
func Cart(raw []byte) (structs.Cart, error) {
	cart := structs.NewCart()
	if isAbsent(raw) {
		return cart, nil
	}

	var rc rawCart
	if err := json.Unmarshal(raw, &rc); err != nil {
		return cart, fmt.Errorf("cart: %w", err)
	}

	if structs.CartMode(rc.Mode) == structs.ModeWholesale {
		cart.Mode = structs.ModeWholesale
	}

	for id, rawQty := range rc.Items {
		var qty float64
		if err := json.Unmarshal(rawQty, &qty); err != nil {
			continue
		}
		if n := int(qty); n > 0 {
			cart.Items[id] = n
		}
	}
	return cart, nil
}
