package handling

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lemonshop_server/services"
	"lemonshop_server/structs"

	"github.com/go-chi/chi/v5"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ProductListOptions{Page: 1, Mode: structs.ModeRetail}, nil
	}

	opts := &services.ProductListOptions{
		Category: strings.TrimSpace(query.Get("category")),
		Search:   query.Get("search"),
		Page:     1,
		Mode:     ParseMode(r),
	}

	if page := query.Get("page"); page != "" {
		valInt, err := strconv.Atoi(page)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q: %w", page, err)
		}
		opts.Page = valInt
	}

	return opts, nil
}

// ParseMode reads the ?mode= parameter; anything but wholesale is retail
func ParseMode(r *http.Request) structs.CartMode {
	if structs.CartMode(r.URL.Query().Get("mode")) == structs.ModeWholesale {
		return structs.ModeWholesale
	}
	return structs.ModeRetail
}

// ParseInt64Param reads a numeric URL parameter
func ParseInt64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// ParseIDParam reads a category id, which may be numeric or a legacy string
func ParseIDParam(r *http.Request, name string) (structs.ID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return structs.ID(raw), nil
}
