package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"lemonshop_server/pricing"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// OrderNotifier hands a completed order to the shop owner
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, order structs.Order) error
}

var errNotifierDisabled = errors.New("order notifications are disabled")

// NotifyService mails every new order through resend
type NotifyService struct {
	logger  *gecho.Logger
	client  *resend.Client
	from    string
	to      []string
	enabled bool
	shop    string
}

func NewNotifyService(logger *gecho.Logger, cfg *structs.Config) *NotifyService {
	ns := &NotifyService{
		logger:  logger,
		from:    cfg.Email.From,
		to:      cfg.Email.OrdersTo,
		enabled: cfg.Email.Enabled && cfg.Email.APIKey != "" && len(cfg.Email.OrdersTo) > 0,
		shop:    cfg.Shop.Name,
	}
	if ns.enabled {
		ns.client = resend.NewClient(cfg.Email.APIKey)
	} else {
		logger.Info("Order e-mails disabled, orders are only stored")
	}
	return ns
}

func (ns *NotifyService) Enabled() bool {
	return ns.enabled
}

func (ns *NotifyService) NotifyOrder(ctx context.Context, order structs.Order) error {
	if !ns.enabled {
		return errNotifierDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := FormatOrderText(order)
	params := &resend.SendEmailRequest{
		From:    ns.from,
		To:      ns.to,
		Subject: fmt.Sprintf("%s: заказ №%d", ns.shop, order.ID),
		Text:    text,
		Html:    "<pre>" + html.EscapeString(text) + "</pre>",
	}

	if _, err := ns.client.Emails.Send(params); err != nil {
		ns.logger.Error("Failed to send order e-mail", gecho.Field("error", err), gecho.Field("order", order.ID))
		return err
	}

	ns.logger.Info("Order e-mail sent", gecho.Field("order", order.ID), gecho.Field("to", ns.to))
	return nil
}

const orderDateLayout = "02.01.2006, 15:04:05"

// FormatOrderText renders the shareable order summary sent to the shop
func FormatOrderText(order structs.Order) string {
	mode := "розница"
	if order.Mode == structs.ModeWholesale {
		mode = "опт"
	}

	orDash := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "—"
		}
		return s
	}

	lines := []string{
		fmt.Sprintf("ЗАКАЗ (%s)", mode),
		"Дата: " + order.CreatedAt.Format(orderDateLayout),
		"",
		"--- ДАННЫЕ КЛИЕНТА ---",
		"ФИО: " + orDash(order.Client.Name),
		"Телефон: " + orDash(order.Client.Phone),
		"Город: " + orDash(order.Client.City),
		"Адрес: " + orDash(order.Client.Address),
		"",
		"--- ТОВАРЫ ---",
	}

	for _, l := range order.Items {
		title := l.Title
		if l.Article != "" {
			title += " (" + l.Article + ")"
		}
		lines = append(lines, fmt.Sprintf("%s — %d %s × %s = %s",
			title, l.Qty, l.Unit, pricing.Money(l.Price), pricing.Money(l.Total)))
	}

	lines = append(lines, "", "Итого: "+pricing.Money(order.TotalSum))
	return strings.Join(lines, "\n")
}

// WhatsAppLinks returns one prefilled chat link per order intake number
func WhatsAppLinks(order structs.Order, settings structs.Settings) []string {
	text := url.QueryEscape(FormatOrderText(order))
	links := []string{}
	for _, number := range settings.OrderNumbers() {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, number)
		if digits == "" {
			continue
		}
		links = append(links, "https://wa.me/"+digits+"?text="+text)
	}
	return links
}

// noopNotifier records nothing and never fails
type noopNotifier struct{}

func (noopNotifier) NotifyOrder(context.Context, structs.Order) error { return nil }

// notifyTimeout bounds a single best-effort notification
func notifyTimeout(cfg *structs.Config) time.Duration {
	if cfg.Email.Timeout > 0 {
		return cfg.Email.Timeout
	}
	return 10 * time.Second
}
