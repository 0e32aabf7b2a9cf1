package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lemonshop_server/lib"
	"lemonshop_server/storage"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func testConfig() *structs.Config {
	return &structs.Config{
		Storage: &structs.StorageConfig{
			Driver:       storage.DriverMemory,
			SnapshotKey:  "lemonshop",
			CartKey:      "lemonshop_cart",
			MaxBlobBytes: 5 << 20,
		},
		Auth:  &structs.AuthConfig{SessionSecret: "test-secret", SessionExpiry: time.Hour},
		Email: &structs.EmailConfig{Timeout: time.Second},
		Shop:  &structs.ShopConfig{Name: "lemonshop", ItemsPerPage: 6, NewForDays: 7, MaxImageSize: 200000},
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []structs.Order
	err    error
}

func (n *recordingNotifier) NotifyOrder(_ context.Context, order structs.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
	return n.err
}

// hookStore calls onGet before every read
type hookStore struct {
	storage.BlobStore
	onGet func(key string)
}

func (h *hookStore) Get(ctx context.Context, key string) ([]byte, error) {
	if h.onGet != nil {
		h.onGet(key)
	}
	return h.BlobStore.Get(ctx, key)
}

func newTestManager(t *testing.T, blobs storage.BlobStore) *ServiceManager {
	t.Helper()
	if blobs == nil {
		blobs = storage.NewMemoryStore()
	}
	return NewServiceManager(quietLogger(), testConfig(), blobs)
}

func input(title string, retail int64, boxQty int) structs.ProductInput {
	return structs.ProductInput{
		Title:       title,
		PriceRetail: decimal.NewFromInt(retail),
		BoxQty:      boxQty,
	}
}

func dataURL(n int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, n))
}

// --- store ---

func TestStoreLoadDefaults(t *testing.T) {
	sm := newTestManager(t, nil)

	snap := sm.StoreService.Load(context.Background())
	assert.Empty(t, snap.Products)
	assert.NotNil(t, snap.Products)
	assert.Equal(t, structs.DefaultTheme, snap.Theme)
	assert.Equal(t, structs.DefaultAdminPassword, snap.Settings.Password())
}

func TestStoreLoadCorruptBlob(t *testing.T) {
	blobs := storage.NewMemoryStore()
	require.NoError(t, blobs.Set(context.Background(), "lemonshop", []byte("{not json")))
	sm := newTestManager(t, blobs)

	snap := sm.StoreService.Load(context.Background())
	assert.Empty(t, snap.Orders)
	assert.Equal(t, structs.DefaultTheme, snap.Theme)
}

func TestStoreUpdateAbortsOnError(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	_, saved, err := sm.StoreService.Update(ctx, func(s *structs.Snapshot) error {
		s.Visits = 10
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, saved)
	assert.Equal(t, 0, sm.StoreService.Load(ctx).Visits)
}

func TestStoreUpdateOptimisticOnWriteFailure(t *testing.T) {
	sm := newTestManager(t, storage.WithQuota(storage.NewMemoryStore(), 10))
	ctx := context.Background()

	snap, saved, err := sm.StoreService.Update(ctx, func(s *structs.Snapshot) error {
		s.Visits = 3
		return nil
	})
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 3, snap.Visits)
	assert.Equal(t, 0, sm.StoreService.Load(ctx).Visits)
}

func TestStoreSubscribe(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	var seen []int
	unsubscribe := sm.StoreService.Subscribe(func(s structs.Snapshot) {
		seen = append(seen, s.Visits)
	})

	sm.SettingsService.IncrementVisits(ctx)
	sm.SettingsService.IncrementVisits(ctx)
	unsubscribe()
	sm.SettingsService.IncrementVisits(ctx)

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, sm.SettingsService.Visits(ctx))
}

func TestStoreCartsAreSeparate(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	assert.Equal(t, structs.NewCart(), sm.StoreService.LoadCart(ctx, "a"))
	assert.False(t, sm.StoreService.CartExists(ctx, "a"))

	_, saved, err := sm.StoreService.UpdateCart(ctx, "a", func(c *structs.Cart) error {
		c.Items["1"] = 2
		return nil
	})
	require.NoError(t, err)
	assert.True(t, saved)

	assert.Equal(t, 2, sm.StoreService.LoadCart(ctx, "a").Items["1"])
	assert.Empty(t, sm.StoreService.LoadCart(ctx, "b").Items)
	assert.Equal(t, "lemonshop_cart", sm.StoreService.CartKey(""))
	assert.Equal(t, "lemonshop_cart:a", sm.StoreService.CartKey("a"))

	assert.True(t, sm.StoreService.DeleteCart(ctx, "a"))
	assert.False(t, sm.StoreService.CartExists(ctx, "a"))
}

func TestStoreCorruptCart(t *testing.T) {
	blobs := storage.NewMemoryStore()
	require.NoError(t, blobs.Set(context.Background(), "lemonshop_cart:x", []byte(`[1,2`)))
	sm := newTestManager(t, blobs)

	assert.Equal(t, structs.NewCart(), sm.StoreService.LoadCart(context.Background(), "x"))
}

// --- catalog ---

func TestCreateProductNormalises(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	in := input("  Лимонад  ", 650, 0)
	in.Size = "0.5 л"
	stock := 3
	in.Stock = &stock

	p, saved, err := sm.CatalogService.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.True(t, saved)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Лимонад", p.Title)
	assert.Equal(t, 1, p.BoxQty)
	assert.Equal(t, "0.5 л", p.Article)
	assert.Equal(t, "0.5 л", p.Size)
	assert.True(t, p.Price.Equal(p.PriceRetail))
	require.True(t, p.PriceOpt.Valid)
	assert.Equal(t, "650", p.PriceOpt.Decimal.String())
	assert.Nil(t, p.Stock, "stock is dropped while tracking is off")
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateProductKeepsStockWhenTracked(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	enabled := true
	_, _, err := sm.SettingsService.Patch(ctx, structs.SettingsPatch{StockEnabled: &enabled})
	require.NoError(t, err)

	in := input("Сок", 100, 12)
	stock := 5
	in.Stock = &stock
	p, _, err := sm.CatalogService.CreateProduct(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 5, *p.Stock)
	assert.Equal(t, "1200", p.PriceOpt.Decimal.String())
}

func TestCreateProductRejects(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	negative := input("x", -1, 1)
	_, _, err := sm.CatalogService.CreateProduct(ctx, negative)
	assert.ErrorIs(t, err, lib.ErrInvalidPrice)

	tooLarge := input("x", 1, 1)
	big := dataURL(200001)
	tooLarge.ImageData = &big
	_, _, err = sm.CatalogService.CreateProduct(ctx, tooLarge)
	assert.ErrorIs(t, err, lib.ErrImageTooLarge)

	notImage := input("x", 1, 1)
	text := "data:text/plain;base64,aGVsbG8="
	notImage.ImageData = &text
	_, _, err = sm.CatalogService.CreateProduct(ctx, notImage)
	assert.ErrorIs(t, err, lib.ErrInvalidImage)

	assert.Empty(t, sm.CatalogService.Products(ctx))
}

func TestUpdateProductImage(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	in := input("x", 10, 1)
	img := dataURL(1000)
	in.ImageData = &img
	p, _, err := sm.CatalogService.CreateProduct(ctx, in)
	require.NoError(t, err)

	// nil keeps the image
	keep := input("y", 10, 1)
	updated, _, err := sm.CatalogService.UpdateProduct(ctx, p.ID, keep)
	require.NoError(t, err)
	assert.Equal(t, img, updated.ImageData)
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))

	// an oversized image is refused and the old one stays
	big := dataURL(300000)
	keep.ImageData = &big
	_, _, err = sm.CatalogService.UpdateProduct(ctx, p.ID, keep)
	assert.ErrorIs(t, err, lib.ErrImageTooLarge)
	assert.Equal(t, img, sm.CatalogService.Products(ctx)[0].ImageData)

	// "" removes it
	empty := ""
	keep.ImageData = &empty
	updated, _, err = sm.CatalogService.UpdateProduct(ctx, p.ID, keep)
	require.NoError(t, err)
	assert.Empty(t, updated.ImageData)

	_, _, err = sm.CatalogService.UpdateProduct(ctx, 99, keep)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestProductIDsAreNotReused(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	for i := range 3 {
		_, _, err := sm.CatalogService.CreateProduct(ctx, input(fmt.Sprint("p", i), 1, 1))
		require.NoError(t, err)
	}
	_, err := sm.CatalogService.DeleteProduct(ctx, 3)
	require.NoError(t, err)

	p, _, err := sm.CatalogService.CreateProduct(ctx, input("next", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)

	_, err = sm.CatalogService.DeleteProduct(ctx, 3)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestLegacySnapshotIDsAreNotReused(t *testing.T) {
	blobs := storage.NewMemoryStore()
	legacy := `{
		"products":[{"id":1,"title":"A","price":10},{"id":2,"title":"B","price":20},{"id":3,"title":"C","price":30}],
		"categories":[{"id":1,"name":"X","parentId":null,"order":0},{"id":2,"name":"Y","parentId":null,"order":1}]
	}`
	require.NoError(t, blobs.Set(context.Background(), "lemonshop", []byte(legacy)))
	sm := newTestManager(t, blobs)
	ctx := context.Background()

	_, err := sm.CatalogService.DeleteProduct(ctx, 3)
	require.NoError(t, err)
	p, _, err := sm.CatalogService.CreateProduct(ctx, input("next", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)

	_, _, err = sm.CatalogService.DeleteCategory(ctx, "2")
	require.NoError(t, err)
	c, _, err := sm.CatalogService.AddCategory(ctx, "Z", nil)
	require.NoError(t, err)
	assert.Equal(t, structs.ID("3"), c.ID)
}

func TestLegacyProductsSurviveUnrelatedWrite(t *testing.T) {
	blobs := storage.NewMemoryStore()
	legacy := `{"products":[
		{"id":1,"title":"Box","priceRetail":10,"boxQty":"12"},
		{"id":2,"title":"Half","priceRetail":3,"stock":2.5}
	],"visits":4}`
	require.NoError(t, blobs.Set(context.Background(), "lemonshop", []byte(legacy)))
	sm := newTestManager(t, blobs)
	ctx := context.Background()

	visits, saved := sm.SettingsService.IncrementVisits(ctx)
	require.True(t, saved)
	assert.Equal(t, 5, visits)

	products := sm.CatalogService.Products(ctx)
	require.Len(t, products, 2)
	assert.Equal(t, 12, products[0].BoxQty)
	require.NotNil(t, products[1].Stock)
	assert.Equal(t, 2, *products[1].Stock)
}

func TestListProducts(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	for i := range 13 {
		in := input(fmt.Sprintf("Product %02d", i), 100, 10)
		if i%2 == 0 {
			in.Cat = structs.IDFromInt(1)
		}
		if i == 5 {
			in.Title = "Лимонад Тархун"
		}
		_, _, err := sm.CatalogService.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		opts       ProductListOptions
		page       int
		totalPages int
		total      int
		count      int
	}{
		{"first page", ProductListOptions{}, 1, 3, 13, 6},
		{"last page", ProductListOptions{Page: 3}, 3, 3, 13, 1},
		{"page clamped", ProductListOptions{Page: 99}, 3, 3, 13, 1},
		{"negative page", ProductListOptions{Page: -2}, 1, 3, 13, 6},
		{"all category", ProductListOptions{Category: "all"}, 1, 3, 13, 6},
		{"category", ProductListOptions{Category: "1"}, 1, 2, 7, 6},
		{"search ignores case", ProductListOptions{Search: "  тАРХУН "}, 1, 1, 1, 1},
		{"nothing found", ProductListOptions{Search: "nope", Page: 4}, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sm.CatalogService.ListProducts(ctx, tt.opts)
			assert.Equal(t, tt.page, res.Pagination.Page)
			assert.Equal(t, tt.totalPages, res.Pagination.TotalPages)
			assert.Equal(t, tt.total, res.Pagination.Total)
			assert.Len(t, res.Products, tt.count)
		})
	}
}

func TestListProductsNewWindowFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Shop.NewForDays = 1
	logger := quietLogger()
	catalogService := NewCatalogService(logger, cfg, NewStoreService(logger, cfg, storage.NewMemoryStore()))
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	catalogService.now = func() time.Time { return created }
	p, _, err := catalogService.CreateProduct(ctx, input("x", 650, 1))
	require.NoError(t, err)

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"same day", 2 * time.Hour, true},
		{"two days later", 48 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogService.now = func() time.Time { return created.Add(tt.age) }

			list := catalogService.ListProducts(ctx, ProductListOptions{})
			require.Len(t, list.Products, 1)
			assert.Equal(t, tt.want, list.Products[0].IsNew)

			view, err := catalogService.GetProduct(ctx, p.ID, structs.ModeRetail)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.IsNew)
		})
	}
}

func TestListProductsQuotesMode(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	_, _, err := sm.CatalogService.CreateProduct(ctx, input("x", 650, 12))
	require.NoError(t, err)

	retail := sm.CatalogService.ListProducts(ctx, ProductListOptions{Mode: structs.ModeRetail})
	wholesale := sm.CatalogService.ListProducts(ctx, ProductListOptions{Mode: structs.ModeWholesale})

	assert.Equal(t, "650", retail.Products[0].Quote.Unit.String())
	assert.Equal(t, "7800", wholesale.Products[0].Quote.Unit.String())
	assert.True(t, retail.Products[0].IsNew)
	assert.True(t, retail.Products[0].Available)

	_, err = sm.CatalogService.GetProduct(ctx, 42, structs.ModeRetail)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestCategoryLifecycle(t *testing.T) {
	sm := newTestManager(t, nil)
	cs := sm.CatalogService
	ctx := context.Background()

	a, _, err := cs.AddCategory(ctx, "A", nil)
	require.NoError(t, err)
	b, _, err := cs.AddCategory(ctx, "B", a.ID.Ptr())
	require.NoError(t, err)
	c, _, err := cs.AddCategory(ctx, "C", b.ID.Ptr())
	require.NoError(t, err)

	missing := structs.IDFromInt(77)
	_, _, err = cs.AddCategory(ctx, "orphan", &missing)
	assert.ErrorIs(t, err, lib.ErrInvalidParent)

	// a cycle is refused without an error
	moved, _, err := cs.MoveCategory(ctx, a.ID, c.ID.Ptr())
	require.NoError(t, err)
	assert.False(t, moved)

	moved, _, err = cs.MoveCategory(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.True(t, moved)

	_, _, err = cs.MoveCategory(ctx, missing, nil)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = cs.RenameCategory(ctx, c.ID, " Cc ")
	require.NoError(t, err)
	_, err = cs.RenameCategory(ctx, missing, "x")
	assert.ErrorIs(t, err, lib.ErrNotFound)

	paths := cs.CategoryPaths(ctx)
	require.Len(t, paths, 3)
	assert.Equal(t, "A / B", paths[1].Path)
	assert.Equal(t, "Cc", paths[2].Path)

	removed, _, err := cs.DeleteCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []structs.ID{a.ID, b.ID}, removed)

	// ids of deleted categories are not handed out again
	d, _, err := cs.AddCategory(ctx, "D", nil)
	require.NoError(t, err)
	assert.Equal(t, structs.IDFromInt(4), d.ID)
}

func TestReorderCategory(t *testing.T) {
	sm := newTestManager(t, nil)
	cs := sm.CatalogService
	ctx := context.Background()

	first, _, _ := cs.AddCategory(ctx, "first", nil)
	second, _, _ := cs.AddCategory(ctx, "second", nil)

	moved, _, err := cs.ReorderCategory(ctx, first.ID, true)
	require.NoError(t, err)
	assert.False(t, moved, "first sibling cannot move up")

	moved, _, err = cs.ReorderCategory(ctx, second.ID, true)
	require.NoError(t, err)
	assert.True(t, moved)

	tree := cs.Categories(ctx)
	require.Len(t, tree, 2)
	assert.Equal(t, "second", tree[0].Name)

	_, _, err = cs.ReorderCategory(ctx, structs.IDFromInt(9), false)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

// --- cart and orders ---

func seedProducts(t *testing.T, sm *ServiceManager) {
	t.Helper()
	ctx := context.Background()
	in := input("Лимонад", 650, 12)
	in.Article = "L-1"
	_, _, err := sm.CatalogService.CreateProduct(ctx, in)
	require.NoError(t, err)
	_, _, err = sm.CatalogService.CreateProduct(ctx, input("Сок", 100, 6))
	require.NoError(t, err)
}

func TestCartAddItem(t *testing.T) {
	sm := newTestManager(t, nil)
	seedProducts(t, sm)
	ctx := context.Background()

	state, err := sm.CartService.Create(ctx)
	require.NoError(t, err)
	id := state.ID

	state, err = sm.CartService.AddItem(ctx, id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Cart.Items["1"])
	assert.Equal(t, "1300", state.Summary.Total.String())

	_, err = sm.CartService.AddItem(ctx, id, 42, 1)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	state, err = sm.CartService.SetMode(ctx, id, structs.ModeWholesale)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Cart.Items["1"])
	assert.Equal(t, "15600", state.Summary.Total.String())

	state, err = sm.CartService.AddItem(ctx, id, 1, -5)
	require.NoError(t, err)
	assert.True(t, state.Cart.IsEmpty())
	assert.Equal(t, structs.ModeWholesale, state.Cart.Mode)
}

func TestCartAddItemSummaryMatchesCheckedSnapshot(t *testing.T) {
	blobs := &hookStore{BlobStore: storage.NewMemoryStore()}
	sm := newTestManager(t, blobs)
	seedProducts(t, sm)
	ctx := context.Background()

	var once sync.Once
	deleted := make(chan error, 1)
	blobs.onGet = func(key string) {
		if key != "lemonshop" {
			return
		}
		once.Do(func() {
			go func() {
				_, err := sm.CatalogService.DeleteProduct(ctx, 1)
				deleted <- err
			}()
			time.Sleep(20 * time.Millisecond)
		})
	}

	state, err := sm.CartService.AddItem(ctx, "c", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Cart.Items["1"])
	require.Len(t, state.Summary.Lines, 1)
	assert.Equal(t, int64(1), state.Summary.Lines[0].ProductID)

	require.NoError(t, <-deleted)
	_, err = sm.CartService.AddItem(ctx, "c", 1, 1)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestCartGetAndDelete(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	_, err := sm.CartService.Get(ctx, "unknown")
	assert.ErrorIs(t, err, lib.ErrNotFound)
	_, err = sm.CartService.Delete(ctx, "unknown")
	assert.ErrorIs(t, err, lib.ErrNotFound)

	state, err := sm.CartService.Create(ctx)
	require.NoError(t, err)

	got, err := sm.CartService.Get(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, got.Cart.IsEmpty())

	deleted, err := sm.CartService.Delete(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = sm.CartService.Get(ctx, state.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestCartOutOfStock(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	enabled := true
	_, _, err := sm.SettingsService.Patch(ctx, structs.SettingsPatch{StockEnabled: &enabled})
	require.NoError(t, err)

	in := input("sold out", 10, 1)
	zero := 0
	in.Stock = &zero
	p, _, err := sm.CatalogService.CreateProduct(ctx, in)
	require.NoError(t, err)

	_, err = sm.CartService.AddItem(ctx, "c", p.ID, 1)
	assert.ErrorIs(t, err, lib.ErrOutOfStock)
}

func TestCartDanglingEntryCanBeRemoved(t *testing.T) {
	sm := newTestManager(t, nil)
	seedProducts(t, sm)
	ctx := context.Background()

	_, err := sm.CartService.AddItem(ctx, "c", 2, 3)
	require.NoError(t, err)
	_, err = sm.CatalogService.DeleteProduct(ctx, 2)
	require.NoError(t, err)

	state, err := sm.CartService.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, state.Cart.Items["2"])
	assert.Empty(t, state.Summary.Lines)
	assert.True(t, state.Summary.Total.IsZero())

	state, err = sm.CartService.AddItem(ctx, "c", 2, -3)
	require.NoError(t, err)
	assert.True(t, state.Cart.IsEmpty())
}

func client() structs.OrderClient {
	return structs.OrderClient{Name: " Айгуль ", Phone: "+7 (701) 123-45-67", City: "Алматы", Address: "Абая 1"}
}

func TestCheckout(t *testing.T) {
	blobs := storage.NewMemoryStore()
	cfg := testConfig()
	logger := quietLogger()
	store := NewStoreService(logger, cfg, blobs)
	notifier := &recordingNotifier{err: errors.New("mail down")}
	orders := NewOrderService(logger, cfg, store, notifier)
	carts := NewCartService(logger, store)
	catalogService := NewCatalogService(logger, cfg, store)
	settings := NewSettingsService(logger, store)
	ctx := context.Background()

	number := "+7 701 000 00 01"
	_, _, err := settings.Patch(ctx, structs.SettingsPatch{OrderWhatsapp2: &number})
	require.NoError(t, err)

	_, _, err = catalogService.CreateProduct(ctx, input("Лимонад", 650, 12))
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, "c", client())
	assert.ErrorIs(t, err, lib.ErrEmptyCart)

	_, err = carts.AddItem(ctx, "c", 1, 2)
	require.NoError(t, err)
	_, err = carts.SetMode(ctx, "c", structs.ModeWholesale)
	require.NoError(t, err)

	res, err := orders.Checkout(ctx, "c", client())
	require.NoError(t, err, "a failing notifier does not fail the checkout")
	assert.True(t, res.Saved)

	o := res.Order
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, "Айгуль", o.Client.Name)
	assert.Equal(t, structs.ModeWholesale, o.Mode)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "кор", o.Items[0].Unit)
	assert.Equal(t, "15600", o.TotalSum.String())

	require.Len(t, res.WhatsAppLinks, 1)
	assert.True(t, strings.HasPrefix(res.WhatsAppLinks[0], "https://wa.me/77010000001?text="))

	left, err := carts.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, left.Cart.IsEmpty())
	assert.Equal(t, structs.ModeWholesale, left.Cart.Mode)

	require.Len(t, notifier.orders, 1)
	assert.Equal(t, o.ID, notifier.orders[0].ID)

	stored, err := orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.TotalSum.String(), stored.TotalSum.String())
}

func TestCheckoutConcurrentPlacesOneOrder(t *testing.T) {
	blobs := &hookStore{BlobStore: storage.NewMemoryStore()}
	sm := newTestManager(t, blobs)
	seedProducts(t, sm)
	ctx := context.Background()

	_, err := sm.CartService.AddItem(ctx, "c", 1, 1)
	require.NoError(t, err)
	blobs.onGet = func(string) { time.Sleep(time.Millisecond) }

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = sm.OrderService.Checkout(ctx, "c", client())
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, lib.ErrEmptyCart)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Len(t, sm.OrderService.Orders(ctx), 1)

	left, err := sm.CartService.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, left.Cart.IsEmpty())
}

func TestOrderAdmin(t *testing.T) {
	sm := newTestManager(t, nil)
	seedProducts(t, sm)
	ctx := context.Background()

	for range 2 {
		_, err := sm.CartService.AddItem(ctx, "c", 1, 1)
		require.NoError(t, err)
		_, err = sm.OrderService.Checkout(ctx, "c", client())
		require.NoError(t, err)
	}

	list := sm.OrderService.Orders(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID, "newest first")

	edited := client()
	edited.City = "Астана"
	o, _, err := sm.OrderService.UpdateClient(ctx, 1, edited)
	require.NoError(t, err)
	assert.Equal(t, "Астана", o.Client.City)
	assert.Len(t, o.Items, 1)

	_, err = sm.OrderService.DeleteOrder(ctx, 2)
	require.NoError(t, err)
	_, err = sm.OrderService.DeleteOrder(ctx, 2)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	_, _, err = sm.OrderService.UpdateClient(ctx, 2, edited)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	// the deleted order id is not reused
	_, err = sm.CartService.AddItem(ctx, "c", 1, 1)
	require.NoError(t, err)
	res, err := sm.OrderService.Checkout(ctx, "c", client())
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Order.ID)
}

func TestFormatOrderText(t *testing.T) {
	o := structs.Order{
		ID:   7,
		Mode: structs.ModeRetail,
		Client: structs.OrderClient{
			Name:  "Айгуль",
			Phone: "+7 701",
		},
		Items: []structs.OrderLine{
			{Title: "Лимонад", Article: "L-1", Qty: 3, Price: decimal.NewFromInt(650), Total: decimal.NewFromInt(1950), Unit: "шт"},
			{Title: "Сок", Qty: 1, Price: decimal.NewFromInt(100), Total: decimal.NewFromInt(100), Unit: "шт"},
		},
		TotalSum:  decimal.NewFromInt(2050),
		CreatedAt: time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC),
	}

	text := FormatOrderText(o)
	lines := strings.Split(text, "\n")

	assert.Equal(t, "ЗАКАЗ (розница)", lines[0])
	assert.Equal(t, "Дата: 01.03.2026, 14:05:00", lines[1])
	assert.Contains(t, text, "ФИО: Айгуль")
	assert.Contains(t, text, "Город: —")
	assert.Contains(t, text, "Адрес: —")
	assert.Contains(t, text, "Лимонад (L-1) — 3 шт × 650₸ = ")
	assert.Contains(t, text, "Сок — 1 шт × 100₸ = 100₸")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Итого: "))
	assert.True(t, strings.HasSuffix(text, "₸"))
}

// --- settings and auth ---

func TestSettingsAndUsers(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	wa := "+7 700 000 00 00"
	settings, _, err := sm.SettingsService.Patch(ctx, structs.SettingsPatch{Whatsapp: &wa})
	require.NoError(t, err)
	assert.Equal(t, wa, settings.Whatsapp)
	assert.Equal(t, structs.DefaultAdminPassword, settings.AdminPassword, "untouched fields stay")

	public := sm.SettingsService.Public(ctx)
	assert.Equal(t, []string{wa}, public.OrderNumbers)
	assert.Equal(t, structs.DefaultTheme, public.Theme)

	_, err = sm.SettingsService.SetTheme(ctx, "light")
	require.NoError(t, err)
	assert.Equal(t, "light", sm.SettingsService.Public(ctx).Theme)

	u, _, err := sm.SettingsService.AddUser(ctx, structs.CreateUserRequest{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)
	_, err = sm.SettingsService.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	_, err = sm.SettingsService.DeleteUser(ctx, u.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestAuthLogin(t *testing.T) {
	sm := newTestManager(t, nil)
	ctx := context.Background()

	_, _, err := sm.AuthService.Login(ctx, "wrong")
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)

	token, claims, err := sm.AuthService.Login(ctx, structs.DefaultAdminPassword)
	require.NoError(t, err)
	parsed, err := lib.ParseToken(token, sm.AuthService.Secret())
	require.NoError(t, err)
	assert.Equal(t, claims.Jti, parsed.Jti)

	password := "lemons"
	_, _, err = sm.SettingsService.Patch(ctx, structs.SettingsPatch{AdminPassword: &password})
	require.NoError(t, err)
	_, _, err = sm.AuthService.Login(ctx, structs.DefaultAdminPassword)
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
	_, _, err = sm.AuthService.Login(ctx, password)
	assert.NoError(t, err)
}

func TestAuthGeneratesSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.SessionSecret = ""
	as := NewAuthService(cfg, quietLogger(), NewStoreService(quietLogger(), cfg, storage.NewMemoryStore()))
	assert.NotEmpty(t, as.Secret())
}

func TestHealthStorage(t *testing.T) {
	sm := newTestManager(t, nil)

	status, err := sm.HealthService.GetStorageHealthStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, storage.DriverMemory, status.Driver)
	assert.True(t, sm.HealthService.GetServerHealthStatus().ServiceAlive)
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	sm := newTestManager(t, nil)

	token, claims, err := sm.AuthService.Login(context.Background(), structs.DefaultAdminPassword)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	got, err := sm.AuthService.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, claims.Jti, got.Jti)

	sm.AuthService.Logout(got)
	_, err = sm.AuthService.Authenticate(r)
	assert.ErrorIs(t, err, lib.ErrInvalidToken)
}
