package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("T_DURATION", "15s")
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("T_DURATION", time.Minute))

	t.Setenv("T_DURATION", "30")
	assert.Equal(t, 30*time.Second, getEnvAsTimeDuration("T_DURATION", time.Minute))

	t.Setenv("T_DURATION", "soon")
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("T_DURATION", time.Minute))

	assert.Equal(t, time.Minute, getEnvAsTimeDuration("T_DURATION_UNSET", time.Minute))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("T_SLICE", " a, ,b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("T_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("T_SLICE_UNSET", []string{"x"}))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "lemonshop", cfg.Storage.SnapshotKey)
	assert.Equal(t, "lemonshop_cart", cfg.Storage.CartKey)
	assert.Equal(t, 5<<20, cfg.Storage.MaxBlobBytes)
	assert.Equal(t, 6, cfg.Shop.ItemsPerPage)
	assert.Equal(t, 200000, cfg.Shop.MaxImageSize)
	assert.Equal(t, 7, cfg.Shop.NewForDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("SHOP_ITEMS_PER_PAGE", "12")
	t.Setenv("EMAIL_ORDERS_TO", "a@example.com,b@example.com")

	cfg := Load()
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 12, cfg.Shop.ItemsPerPage)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.OrdersTo)
}

func TestInitializeLoggerBuildsFreshLogger(t *testing.T) {
	first := InitializeLogger()
	second := InitializeLogger()

	assert.NotNil(t, first)
	assert.NotSame(t, first, second)
}
