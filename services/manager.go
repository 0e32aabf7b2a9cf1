package services

import (
	"lemonshop_server/storage"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	StoreService    *StoreService
	CatalogService  *CatalogService
	CartService     *CartService
	OrderService    *OrderService
	SettingsService *SettingsService
	AuthService     *AuthService
	NotifyService   *NotifyService
	HealthService   *HealthService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, blobs storage.BlobStore) *ServiceManager {
	storeService := NewStoreService(logger, cfg, blobs)
	notifyService := NewNotifyService(logger, cfg)

	var notifier OrderNotifier = noopNotifier{}
	if notifyService.Enabled() {
		notifier = notifyService
	}

	return &ServiceManager{
		StoreService:    storeService,
		CatalogService:  NewCatalogService(logger, cfg, storeService),
		CartService:     NewCartService(logger, storeService),
		OrderService:    NewOrderService(logger, cfg, storeService, notifier),
		SettingsService: NewSettingsService(logger, storeService),
		AuthService:     NewAuthService(cfg, logger, storeService),
		NotifyService:   notifyService,
		HealthService:   NewHealthService(logger, cfg.Storage.Driver, blobs),
	}
}
