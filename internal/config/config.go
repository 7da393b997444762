package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // 容器镜像通常不带 zoneinfo，analytics.timezone 依赖它

	"github.com/amineweldmaryem/boutique/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	Order     OrderConfig     `mapstructure:"order"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Dev       DevConfig       `mapstructure:"dev"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 本地身份令牌配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// AuthConfig 身份提供方配置
type AuthConfig struct {
	Provider string         `mapstructure:"provider"` // local / firebase
	Firebase FirebaseConfig `mapstructure:"firebase"`
}

// FirebaseConfig Firebase Admin SDK 配置
type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	// CatalogTTLSeconds 商品目录缓存时长
	CatalogTTLSeconds int `mapstructure:"catalog_ttl_seconds"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
	MaxRetry    int            `mapstructure:"max_retry"`
}

// OrderConfig 订单配置
type OrderConfig struct {
	ShippingCost   string `mapstructure:"shipping_cost"`
	TxnMaxAttempts int    `mapstructure:"txn_max_attempts"`
	MaxItems       int    `mapstructure:"max_items"`
	MaxQuantity    int    `mapstructure:"max_quantity"`
}

// AnalyticsConfig 销售统计配置
type AnalyticsConfig struct {
	Timezone        string `mapstructure:"timezone"`
	TopSellersLimit int    `mapstructure:"top_sellers_limit"`
}

// DevConfig 开发维护开关
type DevConfig struct {
	ResetEnabled bool `mapstructure:"reset_enabled"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit RateLimitConfig `mapstructure:"login_rate_limit"`
	OrderRateLimit RateLimitConfig `mapstructure:"order_rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// Load 读取顺序：默认值 < config.yml < 环境变量（server.port -> SERVER_PORT）。.env 可选
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range []string{".", "./etc", ".."} {
		v.AddConfigPath(dir)
	}
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var notFound viper.ConfigFileNotFoundError
	switch err := v.ReadInConfig(); {
	case err == nil:
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	case errors.As(err, &notFound):
		logger.Warnw("config_file_missing", "fallback", "env_or_defaults")
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 只校验会导致启动后才暴露的问题
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(strings.TrimSpace(c.Auth.Provider)) {
	case "", "local":
	case "firebase":
		if c.Auth.Firebase.ProjectID == "" && c.Auth.Firebase.CredentialsFile == "" {
			errs = append(errs, errors.New("auth.firebase needs project_id or credentials_file"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.provider %q is not local or firebase", c.Auth.Provider))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is empty"))
	}
	if c.Order.TxnMaxAttempts < 1 {
		errs = append(errs, errors.New("order.txn_max_attempts must be at least 1"))
	}
	if c.Analytics.TopSellersLimit < 1 {
		errs = append(errs, errors.New("analytics.top_sellers_limit must be at least 1"))
	}
	if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("analytics.timezone: %w", err))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	for key, value := range map[string]interface{}{
		"server.host": "0.0.0.0",
		"server.port": "8080",
		"server.mode": "debug",

		"log.level":        "",
		"log.dir":          "",
		"log.filename":     "app.log",
		"log.max_size_mb":  100,
		"log.max_backups":  7,
		"log.max_age_days": 30,
		"log.compress":     true,

		"database.driver":                          "sqlite",
		"database.dsn":                             "./db/boutique.db",
		"database.pool.max_open_conns":             1,
		"database.pool.max_idle_conns":             1,
		"database.pool.conn_max_lifetime_seconds":  0,
		"database.pool.conn_max_idle_time_seconds": 0,

		"jwt.secret":       "change-me-in-production",
		"jwt.expire_hours": 24,

		"auth.provider":                  "local",
		"auth.firebase.project_id":       "",
		"auth.firebase.credentials_file": "",

		"redis.enabled":             true,
		"redis.host":                "127.0.0.1",
		"redis.port":                6379,
		"redis.password":            "",
		"redis.db":                  0,
		"redis.prefix":              "bq",
		"redis.catalog_ttl_seconds": 300,

		"queue.enabled":     true,
		"queue.host":        "127.0.0.1",
		"queue.port":        6379,
		"queue.password":    "",
		"queue.db":          1,
		"queue.concurrency": 10,
		"queue.queues":      map[string]int{"critical": 6, "default": 1},
		"queue.max_retry":   10,

		"cors.allowed_origins":   []string{"*"},
		"cors.allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"cors.allowed_headers":   []string{"Content-Type", "Authorization", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		"cors.allow_credentials": true,
		"cors.max_age":           600,

		"security.login_rate_limit.window_seconds": 300,
		"security.login_rate_limit.max_attempts":   5,
		"security.order_rate_limit.window_seconds": 60,
		"security.order_rate_limit.max_attempts":   10,

		"order.shipping_cost":    "8",
		"order.txn_max_attempts": 5,
		"order.max_items":        50,
		"order.max_quantity":     20,

		"analytics.timezone":          "UTC",
		"analytics.top_sellers_limit": 100,

		"dev.reset_enabled": false,

		"metrics.enabled": true,
		"metrics.path":    "/metrics",
	} {
		v.SetDefault(key, value)
	}
}
