package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"lemonshop_server/cart"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type OrderService struct {
	logger        *gecho.Logger
	store         *StoreService
	notifier      OrderNotifier
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewOrderService(logger *gecho.Logger, cfg *structs.Config, store *StoreService, notifier OrderNotifier) *OrderService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &OrderService{
		logger:        logger,
		store:         store,
		notifier:      notifier,
		notifyTimeout: notifyTimeout(cfg),
		now:           time.Now,
	}
}

// CheckoutResult is a placed order plus the chat links it can be shared with
type CheckoutResult struct {
	Order         structs.Order `json:"order"`
	WhatsAppLinks []string      `json:"whatsappLinks"`
	Text          string        `json:"text"`
	Saved         bool          `json:"saved"`
}

func orderKey(o structs.Order) int64 { return o.ID }

// Checkout turns the priced cart into an order, appends it, clears the cart
// and notifies the shop. Lines of deleted products are not part of the order.
func (os *OrderService) Checkout(ctx context.Context, cartID string, client structs.OrderClient) (CheckoutResult, error) {
	var order structs.Order
	snap, _, saved, err := os.store.UpdateSnapshotAndCart(ctx, cartID, func(snap *structs.Snapshot, c *structs.Cart) error {
		summary := cart.Totals(*c, snap.Products)
		if len(summary.Lines) == 0 {
			return lib.ErrEmptyCart
		}

		order = structs.Order{
			ID:        lib.NextIDAfter(snap.Orders, orderKey, snap.Seq.Orders),
			Client:    trimClient(client),
			Items:     summary.Lines,
			TotalSum:  summary.Total,
			Mode:      summary.Mode,
			CreatedAt: os.now().UTC(),
		}
		snap.Seq.Orders = order.ID
		snap.Orders = append(snap.Orders, order)
		*c = cart.Clear(*c)
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	os.notify(ctx, order)

	os.logger.Info("Order placed",
		gecho.Field("order", order.ID),
		gecho.Field("mode", order.Mode),
		gecho.Field("lines", len(order.Items)),
		gecho.Field("total", order.TotalSum.String()),
		gecho.Field("saved", saved),
	)

	return CheckoutResult{
		Order:         order,
		WhatsAppLinks: WhatsAppLinks(order, snap.Settings),
		Text:          FormatOrderText(order),
		Saved:         saved,
	}, nil
}

// notify is best effort: a failed notification never fails the checkout
func (os *OrderService) notify(ctx context.Context, order structs.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), os.notifyTimeout)
	defer cancel()

	if err := os.notifier.NotifyOrder(ctx, order); err != nil {
		os.logger.Warn("Order notification failed", gecho.Field("order", order.ID), gecho.Field("error", err))
	}
}

func trimClient(c structs.OrderClient) structs.OrderClient {
	return structs.OrderClient{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		City:    strings.TrimSpace(c.City),
		Address: strings.TrimSpace(c.Address),
	}
}

// Orders lists every order, newest first
func (os *OrderService) Orders(ctx context.Context) []structs.Order {
	orders := slices.Clone(os.store.Load(ctx).Orders)
	slices.Reverse(orders)
	return orders
}

func (os *OrderService) GetOrder(ctx context.Context, id int64) (structs.Order, error) {
	snap := os.store.Load(ctx)
	o, ok := snap.FindOrder(id)
	if !ok {
		return structs.Order{}, fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
	}
	return *o, nil
}

// UpdateClient replaces the client block of an order. Lines and totals are
// never edited.
func (os *OrderService) UpdateClient(ctx context.Context, id int64, client structs.OrderClient) (structs.Order, bool, error) {
	var updated structs.Order
	_, saved, err := os.store.Update(ctx, func(snap *structs.Snapshot) error {
		o, ok := snap.FindOrder(id)
		if !ok {
			return fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
		}
		o.Client = trimClient(client)
		updated = *o
		return nil
	})
	if err != nil {
		return structs.Order{}, false, err
	}

	os.logger.Info("Order client updated", gecho.Field("order", id), gecho.Field("saved", saved))
	return updated, saved, nil
}

func (os *OrderService) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	_, saved, err := os.store.Update(ctx, func(snap *structs.Snapshot) error {
		n := len(snap.Orders)
		snap.Orders = slices.DeleteFunc(snap.Orders, func(o structs.Order) bool { return o.ID == id })
		if len(snap.Orders) == n {
			return fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	os.logger.Info("Order deleted", gecho.Field("order", id), gecho.Field("saved", saved))
	return saved, nil
}
