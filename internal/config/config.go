package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Fetch    FetchConfig
	Finance  FinanceConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns DATABASE_URL when set, otherwise a key/value connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ViewTTLSeconds int
}

// ViewTTL returns the cache lifetime of a view result.
func (c CacheConfig) ViewTTL() time.Duration {
	if c.ViewTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.ViewTTLSeconds) * time.Second
}

// FetchConfig bounds paginated reads.
type FetchConfig struct {
	PageSize          int
	MaxPages          int
	SalesLookbackDays int
}

// FinanceConfig holds operator supplied cash figures and profit ratios.
type FinanceConfig struct {
	CurrentCash    float64
	MonthlyBurn    float64
	TargetCash     float64
	MonthlyNetGain float64
	COGSRate       float64
	OpExRate       float64
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()
		viper.AutomaticEnv()

		instance = fromViper()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "hypnoscale")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_VIEW_TTL_SECONDS", 60)

	viper.SetDefault("FETCH_PAGE_SIZE", 1000)
	viper.SetDefault("FETCH_MAX_PAGES", 10)
	viper.SetDefault("SALES_LOOKBACK_DAYS", 30)

	viper.SetDefault("FINANCE_CURRENT_CASH", 0)
	viper.SetDefault("FINANCE_MONTHLY_BURN", 0)
	viper.SetDefault("FINANCE_TARGET_CASH", 0)
	viper.SetDefault("FINANCE_MONTHLY_NET_GAIN", 0)
	viper.SetDefault("FINANCE_COGS_RATE", 0.25)
	viper.SetDefault("FINANCE_OPEX_RATE", 0.06)

	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "hypnoscale-snapshots")
	viper.SetDefault("STORAGE_PREFIX", "snapshots")
	viper.SetDefault("STORAGE_USE_SSL", true)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:        viper.GetBool("CACHE_ENABLED"),
			RedisURL:       viper.GetString("REDIS_URL"),
			RedisHost:      viper.GetString("REDIS_HOST"),
			RedisPort:      viper.GetString("REDIS_PORT"),
			RedisPassword:  viper.GetString("REDIS_PASSWORD"),
			RedisDB:        viper.GetInt("REDIS_DB"),
			ViewTTLSeconds: viper.GetInt("CACHE_VIEW_TTL_SECONDS"),
		},
		Fetch: FetchConfig{
			PageSize:          viper.GetInt("FETCH_PAGE_SIZE"),
			MaxPages:          viper.GetInt("FETCH_MAX_PAGES"),
			SalesLookbackDays: viper.GetInt("SALES_LOOKBACK_DAYS"),
		},
		Finance: FinanceConfig{
			CurrentCash:    viper.GetFloat64("FINANCE_CURRENT_CASH"),
			MonthlyBurn:    viper.GetFloat64("FINANCE_MONTHLY_BURN"),
			TargetCash:     viper.GetFloat64("FINANCE_TARGET_CASH"),
			MonthlyNetGain: viper.GetFloat64("FINANCE_MONTHLY_NET_GAIN"),
			COGSRate:       viper.GetFloat64("FINANCE_COGS_RATE"),
			OpExRate:       viper.GetFloat64("FINANCE_OPEX_RATE"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}
