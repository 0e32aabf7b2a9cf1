package services

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"lemonshop_server/catalog"
	"lemonshop_server/lib"
	"lemonshop_server/pricing"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

// errUnchanged aborts an Update whose mutation turned out to be a no-op
var errUnchanged = errors.New("unchanged")

type CatalogService struct {
	logger       *gecho.Logger
	store        *StoreService
	perPage      int
	maxImageSize int
	newWindow    time.Duration
	now          func() time.Time
}

func NewCatalogService(logger *gecho.Logger, cfg *structs.Config, store *StoreService) *CatalogService {
	return &CatalogService{
		logger:       logger,
		store:        store,
		perPage:      max(1, cfg.Shop.ItemsPerPage),
		maxImageSize: cfg.Shop.MaxImageSize,
		newWindow:    time.Duration(cfg.Shop.NewForDays) * 24 * time.Hour,
		now:          time.Now,
	}
}

// ProductListOptions contains filtering and pagination options for the storefront listing
type ProductListOptions struct {
	Category string           `json:"category"` // "" or "all" lists every product
	Search   string           `json:"search"`
	Page     int              `json:"page"`
	Mode     structs.CartMode `json:"mode"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ProductView is a product as shown in the storefront, quoted in one mode
type ProductView struct {
	structs.Product
	Quote      pricing.Quote `json:"quote"`
	PriceLabel string        `json:"priceLabel"`
	IsNew      bool          `json:"isNew"`
	Available  bool          `json:"available"`
}

type ProductListResult struct {
	Products   []ProductView      `json:"products"`
	Pagination Pagination         `json:"pagination"`
	Filters    ProductListOptions `json:"filters"`
}

func (cs *CatalogService) view(p structs.Product, mode structs.CartMode, stockEnabled bool, now time.Time) ProductView {
	q := pricing.PriceFor(p, mode)
	return ProductView{
		Product:    p,
		Quote:      q,
		PriceLabel: pricing.Money(q.Unit),
		IsNew:      pricing.IsNew(p, now, cs.newWindow),
		Available:  pricing.Available(p, stockEnabled),
	}
}

// ListProducts filters, searches and paginates the catalog. The page is
// clamped to the last page, which always exists.
func (cs *CatalogService) ListProducts(ctx context.Context, opts ProductListOptions) ProductListResult {
	snap := cs.store.Load(ctx)
	if !opts.Mode.Valid() {
		opts.Mode = structs.ModeRetail
	}
	opts.Search = strings.TrimSpace(opts.Search)
	if opts.Category == "all" {
		opts.Category = ""
	}

	filtered := make([]structs.Product, 0, len(snap.Products))
	needle := strings.ToLower(opts.Search)
	for _, p := range snap.Products {
		if opts.Category != "" && p.Cat.String() != opts.Category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		filtered = append(filtered, p)
	}

	totalPages := max(1, (len(filtered)+cs.perPage-1)/cs.perPage)
	opts.Page = min(max(1, opts.Page), totalPages)

	start := (opts.Page - 1) * cs.perPage
	end := min(start+cs.perPage, len(filtered))

	now := cs.now()
	views := make([]ProductView, 0, end-start)
	for _, p := range filtered[start:end] {
		views = append(views, cs.view(p, opts.Mode, snap.Settings.StockEnabled, now))
	}

	cs.logger.Debug("Products listed",
		gecho.Field("category", opts.Category),
		gecho.Field("search", opts.Search),
		gecho.Field("page", opts.Page),
		gecho.Field("total", len(filtered)),
	)

	return ProductListResult{
		Products: views,
		Pagination: Pagination{
			Page:       opts.Page,
			PageSize:   cs.perPage,
			Total:      len(filtered),
			TotalPages: totalPages,
		},
		Filters: opts,
	}
}

func matches(p structs.Product, needle string) bool {
	for _, field := range []string{p.Title, p.Size, p.Article} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// GetProduct returns one product quoted in mode
func (cs *CatalogService) GetProduct(ctx context.Context, id int64, mode structs.CartMode) (ProductView, error) {
	snap := cs.store.Load(ctx)
	p, ok := snap.FindProduct(id)
	if !ok {
		return ProductView{}, fmt.Errorf("product %d: %w", id, lib.ErrNotFound)
	}
	return cs.view(*p, mode, snap.Settings.StockEnabled, cs.now()), nil
}

// Products returns the raw product list for the admin table
func (cs *CatalogService) Products(ctx context.Context) []structs.Product {
	return cs.store.Load(ctx).Products
}

func productKey(p structs.Product) int64 { return p.ID }

// CreateProduct normalises input into a new product with the next free id
func (cs *CatalogService) CreateProduct(ctx context.Context, input structs.ProductInput) (structs.Product, bool, error) {
	var created structs.Product
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		p, err := cs.normalise(input, nil, snap.Settings.StockEnabled)
		if err != nil {
			return err
		}
		p.ID = lib.NextIDAfter(snap.Products, productKey, snap.Seq.Products)
		snap.Seq.Products = p.ID
		snap.Products = append(snap.Products, p)
		created = p
		return nil
	})
	if err != nil {
		return structs.Product{}, false, err
	}

	cs.logger.Info("Product created", gecho.Field("id", created.ID), gecho.Field("saved", saved))
	return created, saved, nil
}

// UpdateProduct applies the whole form to product id, keeping its id and
// creation time.
func (cs *CatalogService) UpdateProduct(ctx context.Context, id int64, input structs.ProductInput) (structs.Product, bool, error) {
	var updated structs.Product
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		existing, ok := snap.FindProduct(id)
		if !ok {
			return fmt.Errorf("product %d: %w", id, lib.ErrNotFound)
		}
		p, err := cs.normalise(input, existing, snap.Settings.StockEnabled)
		if err != nil {
			return err
		}
		*existing = p
		updated = p
		return nil
	})
	if err != nil {
		return structs.Product{}, false, err
	}

	cs.logger.Info("Product updated", gecho.Field("id", id), gecho.Field("saved", saved))
	return updated, saved, nil
}

// DeleteProduct removes product id. Carts and orders that reference it are
// left alone.
func (cs *CatalogService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		n := len(snap.Products)
		snap.Products = slices.DeleteFunc(snap.Products, func(p structs.Product) bool { return p.ID == id })
		if len(snap.Products) == n {
			return fmt.Errorf("product %d: %w", id, lib.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	cs.logger.Info("Product deleted", gecho.Field("id", id), gecho.Field("saved", saved))
	return saved, nil
}

// normalise builds a product from the admin form. existing is nil on create.
func (cs *CatalogService) normalise(input structs.ProductInput, existing *structs.Product, stockEnabled bool) (structs.Product, error) {
	if input.PriceRetail.IsNegative() {
		return structs.Product{}, lib.ErrInvalidPrice
	}
	if input.PriceOpt != nil && input.PriceOpt.IsNegative() {
		return structs.Product{}, lib.ErrInvalidPrice
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return structs.Product{}, lib.ErrInvalidPrice
	}

	boxQty := max(1, input.BoxQty)
	article := strings.TrimSpace(input.Article)
	size := strings.TrimSpace(input.Size)

	p := structs.Product{
		Title:       strings.TrimSpace(input.Title),
		Article:     cmp.Or(article, size),
		Size:        cmp.Or(size, article),
		Price:       input.PriceRetail,
		PriceRetail: input.PriceRetail,
		BoxQty:      boxQty,
		Barcode:     strings.TrimSpace(input.Barcode),
		Description: input.Description,
		Cat:         input.Cat,
	}

	if input.PriceOpt != nil {
		p.PriceOpt = decimal.NewNullDecimal(*input.PriceOpt)
	} else {
		p.PriceOpt = decimal.NewNullDecimal(input.PriceRetail.Mul(decimal.NewFromInt(int64(boxQty))))
	}
	if input.CostPrice != nil {
		p.CostPrice = decimal.NewNullDecimal(*input.CostPrice)
	}
	if stockEnabled && input.Stock != nil {
		stock := *input.Stock
		p.Stock = &stock
	}

	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.ImageData = existing.ImageData
	} else {
		p.CreatedAt = cs.now().UTC()
	}

	if input.ImageData != nil {
		if err := cs.checkImage(*input.ImageData); err != nil {
			return structs.Product{}, err
		}
		p.ImageData = *input.ImageData
	}
	return p, nil
}

// checkImage accepts "" (no image) or a base64 image data URL whose decoded
// payload fits the configured limit.
func (cs *CatalogService) checkImage(data string) error {
	if data == "" {
		return nil
	}

	header, payload, ok := strings.Cut(data, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return lib.ErrInvalidImage
	}

	if cs.maxImageSize > 0 && base64.StdEncoding.DecodedLen(len(payload)) > cs.maxImageSize+2 {
		return lib.ErrImageTooLarge
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", lib.ErrInvalidImage, err)
	}
	if cs.maxImageSize > 0 && len(decoded) > cs.maxImageSize {
		return lib.ErrImageTooLarge
	}
	return nil
}

// Categories returns the category forest
func (cs *CatalogService) Categories(ctx context.Context) []*structs.CategoryNode {
	return catalog.BuildTree(cs.store.Load(ctx).Categories)
}

// CategoryPaths returns every reachable category with its full path
func (cs *CatalogService) CategoryPaths(ctx context.Context) []structs.CategoryPath {
	return catalog.FlatList(cs.store.Load(ctx).Categories)
}

// RawCategories returns the flat stored list
func (cs *CatalogService) RawCategories(ctx context.Context) []structs.Category {
	return cs.store.Load(ctx).Categories
}

// ValidParents lists where category id may be moved to
func (cs *CatalogService) ValidParents(ctx context.Context, id structs.ID) ([]structs.CategoryPath, error) {
	flat := cs.store.Load(ctx).Categories
	if _, ok := catalog.Find(flat, id); !ok {
		return nil, fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
	}
	return catalog.ValidParents(flat, id), nil
}

func (cs *CatalogService) AddCategory(ctx context.Context, name string, parentID *structs.ID) (structs.Category, bool, error) {
	var created structs.Category
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		if parentID != nil && !parentID.IsZero() {
			if _, ok := catalog.Find(snap.Categories, *parentID); !ok {
				return fmt.Errorf("category %s: %w", *parentID, lib.ErrInvalidParent)
			}
		}
		snap.Categories, created = catalog.AddAfter(snap.Categories, strings.TrimSpace(name), parentID, snap.Seq.Categories)
		snap.Seq.Categories = max(snap.Seq.Categories, created.ID.Int())
		return nil
	})
	if err != nil {
		return structs.Category{}, false, err
	}

	cs.logger.Info("Category created", gecho.Field("id", created.ID), gecho.Field("saved", saved))
	return created, saved, nil
}

func (cs *CatalogService) RenameCategory(ctx context.Context, id structs.ID, name string) (bool, error) {
	saved, err := cs.editCategories(ctx, "rename", id, func(flat []structs.Category) ([]structs.Category, bool) {
		return catalog.Rename(flat, id, strings.TrimSpace(name))
	})
	if errors.Is(err, errUnchanged) {
		return false, fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
	}
	return saved, err
}

// ReorderCategory moves id one place up or down among its siblings. At
// either end it reports moved=false.
func (cs *CatalogService) ReorderCategory(ctx context.Context, id structs.ID, up bool) (moved bool, saved bool, err error) {
	if _, ok := catalog.Find(cs.store.Load(ctx).Categories, id); !ok {
		return false, false, fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
	}

	step := catalog.ReorderDown
	if up {
		step = catalog.ReorderUp
	}
	saved, err = cs.editCategories(ctx, "reorder", id, func(flat []structs.Category) ([]structs.Category, bool) {
		return step(flat, id)
	})
	if errors.Is(err, errUnchanged) {
		return false, false, nil
	}
	return err == nil, saved, err
}

// MoveCategory reparents id. Moves that would create a cycle are rejected
// with moved=false and nothing written.
func (cs *CatalogService) MoveCategory(ctx context.Context, id structs.ID, parentID *structs.ID) (moved bool, saved bool, err error) {
	if _, ok := catalog.Find(cs.store.Load(ctx).Categories, id); !ok {
		return false, false, fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
	}

	saved, err = cs.editCategories(ctx, "move", id, func(flat []structs.Category) ([]structs.Category, bool) {
		return catalog.Move(flat, id, parentID)
	})
	if errors.Is(err, errUnchanged) {
		cs.logger.Warn("Category move rejected",
			gecho.Field("id", id),
			gecho.Field("parent", parentID),
		)
		return false, false, nil
	}
	return err == nil, saved, err
}

// DeleteCategory removes id and all of its descendants. Products keep their
// now dangling category reference.
func (cs *CatalogService) DeleteCategory(ctx context.Context, id structs.ID) ([]structs.ID, bool, error) {
	var removed []structs.ID
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		snap.Categories, removed = catalog.DeleteWithDescendants(snap.Categories, id)
		if len(removed) == 0 {
			return fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	cs.logger.Info("Category deleted",
		gecho.Field("id", id),
		gecho.Field("removed", len(removed)),
		gecho.Field("saved", saved),
	)
	return removed, saved, nil
}

func (cs *CatalogService) editCategories(ctx context.Context, op string, id structs.ID, edit func([]structs.Category) ([]structs.Category, bool)) (bool, error) {
	_, saved, err := cs.store.Update(ctx, func(snap *structs.Snapshot) error {
		next, changed := edit(snap.Categories)
		if !changed {
			return errUnchanged
		}
		snap.Categories = next
		return nil
	})
	if err != nil {
		return false, err
	}

	cs.logger.Debug("Categories edited", gecho.Field("op", op), gecho.Field("id", id), gecho.Field("saved", saved))
	return saved, nil
}
