package services

import (
	"context"
	"fmt"

	"lemonshop_server/cart"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type CartService struct {
	logger *gecho.Logger
	store  *StoreService
}

func NewCartService(logger *gecho.Logger, store *StoreService) *CartService {
	return &CartService{
		logger: logger,
		store:  store,
	}
}

// CartState is a cart together with its priced summary
type CartState struct {
	ID      string       `json:"id"`
	Cart    structs.Cart `json:"cart"`
	Summary cart.Summary `json:"summary"`
	Saved   bool         `json:"saved"`
}

func (cs *CartService) state(ctx context.Context, cartID string, c structs.Cart, saved bool) CartState {
	return cs.stateAt(cartID, c, cs.store.Load(ctx), saved)
}

func (cs *CartService) stateAt(cartID string, c structs.Cart, snap structs.Snapshot, saved bool) CartState {
	return CartState{
		ID:      cartID,
		Cart:    c,
		Summary: cart.Totals(c, snap.Products),
		Saved:   saved,
	}
}

// Create starts an empty retail cart under a fresh id
func (cs *CartService) Create(ctx context.Context) (CartState, error) {
	cartID := uuid.NewString()
	c := structs.NewCart()
	saved := cs.store.SaveCart(ctx, cartID, c)
	if !saved {
		return CartState{}, fmt.Errorf("cart %s could not be stored", cartID)
	}

	cs.logger.Debug("Cart created", gecho.Field("cart", cartID))
	return cs.state(ctx, cartID, c, saved), nil
}

// Get returns the cart. Ids that were never written are not found.
func (cs *CartService) Get(ctx context.Context, cartID string) (CartState, error) {
	if !cs.store.CartExists(ctx, cartID) {
		return CartState{}, fmt.Errorf("cart %s: %w", cartID, lib.ErrNotFound)
	}
	return cs.state(ctx, cartID, cs.store.LoadCart(ctx, cartID), true), nil
}

// Delete drops the cart altogether
func (cs *CartService) Delete(ctx context.Context, cartID string) (bool, error) {
	if !cs.store.CartExists(ctx, cartID) {
		return false, fmt.Errorf("cart %s: %w", cartID, lib.ErrNotFound)
	}

	deleted := cs.store.DeleteCart(ctx, cartID)
	if deleted {
		cs.logger.Debug("Cart deleted", gecho.Field("cart", cartID))
	}
	return deleted, nil
}

// AddItem changes the quantity of productID by delta. Growing a quantity
// requires the product to exist and be in stock; shrinking always works, so
// entries of deleted products can still be removed.
func (cs *CartService) AddItem(ctx context.Context, cartID string, productID int64, delta int) (CartState, error) {
	c, snap, saved, err := cs.store.UpdateCartWithSnapshot(ctx, cartID, func(snap structs.Snapshot, c *structs.Cart) error {
		if delta > 0 {
			p, ok := snap.FindProduct(productID)
			if !ok {
				return fmt.Errorf("product %d: %w", productID, lib.ErrNotFound)
			}
			if !cart.CanIncrement(*p, snap.Settings.StockEnabled) {
				return fmt.Errorf("product %d: %w", productID, lib.ErrOutOfStock)
			}
		}
		*c = cart.SetQty(*c, cart.Key(productID), delta)
		return nil
	})
	if err != nil {
		return CartState{}, err
	}
	return cs.stateAt(cartID, c, snap, saved), nil
}

// Clear empties the cart and keeps its mode
func (cs *CartService) Clear(ctx context.Context, cartID string) (CartState, error) {
	c, saved, err := cs.store.UpdateCart(ctx, cartID, func(c *structs.Cart) error {
		*c = cart.Clear(*c)
		return nil
	})
	if err != nil {
		return CartState{}, err
	}
	return cs.state(ctx, cartID, c, saved), nil
}

// SetMode switches between retail and wholesale without touching quantities
func (cs *CartService) SetMode(ctx context.Context, cartID string, mode structs.CartMode) (CartState, error) {
	if !mode.Valid() {
		return CartState{}, fmt.Errorf("unknown cart mode %q", mode)
	}

	c, saved, err := cs.store.UpdateCart(ctx, cartID, func(c *structs.Cart) error {
		*c = cart.SetMode(*c, mode)
		return nil
	})
	if err != nil {
		return CartState{}, err
	}

	cs.logger.Debug("Cart mode changed", gecho.Field("cart", cartID), gecho.Field("mode", mode))
	return cs.state(ctx, cartID, c, saved), nil
}
