package config

import (
	"sync"
	"time"

	"lemonshop_server/structs"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "lemonshop"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":8082"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:   int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
			LogLevel:       getEnvAsString("LOG_LEVEL", ""),
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Storage: &structs.StorageConfig{
			Driver:       getEnvAsString("STORAGE_DRIVER", "memory"),
			SnapshotKey:  getEnvAsString("STORAGE_SNAPSHOT_KEY", "lemonshop"),
			CartKey:      getEnvAsString("STORAGE_CART_KEY", "lemonshop_cart"),
			MaxBlobBytes: getEnvAsInt("STORAGE_MAX_BLOB_BYTES", 5<<20), // 5 MiB
		},
		Cache: &structs.CacheConfig{
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			OperationRetry:  getEnvAsInt("REDIS_OPERATION_RETRIES", 3),
		},
		Database: &structs.DatabaseConfig{
			Driver:       getEnvAsString("DB_DRIVER", "pgdriver"),
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "lemonshop_db"),
			SSLMode:      getEnvAsString("DB_SSLMODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
		},
		Auth: &structs.AuthConfig{
			SessionSecret: getEnvAsString("AUTH_SESSION_SECRET", ""),
			SessionExpiry: getEnvAsTimeDuration("AUTH_SESSION_EXPIRY", 12*time.Hour),
			CookieDomain:  getEnvAsString("AUTH_COOKIE_DOMAIN", ""),
		},
		Email: &structs.EmailConfig{
			APIKey:   getEnvAsString("RESEND_API_KEY", ""),
			From:     getEnvAsString("EMAIL_FROM", "lemonshop <orders@lemonshop.kz>"),
			OrdersTo: getEnvAsSlice("EMAIL_ORDERS_TO", nil),
			Enabled:  getEnvAsBool("EMAIL_ENABLED", false),
			Timeout:  getEnvAsTimeDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		Shop: &structs.ShopConfig{
			Name:         getEnvAsString("SHOP_NAME", "lemonshop"),
			ItemsPerPage: getEnvAsInt("SHOP_ITEMS_PER_PAGE", 6),
			NewForDays:   getEnvAsInt("SHOP_NEW_FOR_DAYS", 7),
			Currency:     getEnvAsString("SHOP_CURRENCY", "₸"),
			MaxImageSize: getEnvAsInt("SHOP_MAX_IMAGE_BYTES", 200000),
		},
	}
}

func GetLogLevel() string {
	if level := GetConfig().Server.LogLevel; level != "" {
		return level
	}
	if IsProduction() {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
