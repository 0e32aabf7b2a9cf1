package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Storage  *StorageConfig
	Cache    *CacheConfig
	Database *DatabaseConfig
	Auth     *AuthConfig
	Email    *EmailConfig
	Shop     *ShopConfig
}

type ServerConfig struct {
	AppName        string        // lemonshop
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int   // in bytes
	MaxBodyBytes   int64 // in bytes
	LogLevel       string
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds
}

type StorageConfig struct {
	Driver       string // memory, redis, postgres
	SnapshotKey  string // lemonshop
	CartKey      string // lemonshop_cart
	MaxBlobBytes int
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	OperationRetry  int
}

type DatabaseConfig struct {
	Driver       string // pgdriver, pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfig struct {
	SessionSecret string
	SessionExpiry time.Duration
	CookieDomain  string
}

type EmailConfig struct {
	APIKey   string
	From     string
	OrdersTo []string
	Enabled  bool
	Timeout  time.Duration
}

type ShopConfig struct {
	Name         string
	ItemsPerPage int
	NewForDays   int
	Currency     string // ₸
	MaxImageSize int    // decoded bytes
}
