// Package config は起動時に環境変数と .env からアプリケーション設定を組み立てます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"carstock_backend/internal/feature/carmatch/adapters/customvision"
	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
	"carstock_backend/internal/platform/db"
	"carstock_backend/internal/platform/redis"
)

const (
	// BackendCustomVision はAzure Custom Vision予測APIで分類します。
	BackendCustomVision = "customvision"
	// BackendGoogleVision はGoogle Cloud VisionのLABEL_DETECTIONで分類します。
	BackendGoogleVision = "googlevision"

	// StoreMongo はMongoDBの在庫コレクションを検索します。
	StoreMongo = "mongo"
	// StorePostgres はgorm経由でPostgreSQLの cars テーブルを検索します。
	StorePostgres = "postgres"
	// StoreSQLite はgorm経由でSQLiteの cars テーブルを検索します。
	StoreSQLite = "sqlite"
)

// MongoConfig はMongoDB接続設定です。
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Config はアプリケーション全体の設定です。起動時に一度だけ生成します。
type Config struct {
	Port               string
	CORSAllowedOrigins []string
	UploadDir          string
	MaxUploadBytes     int64
	RelayMode          entity.RelayMode

	PredictionBackend string
	CustomVision      customvision.Config
	VisionMaxResults  int64

	StoreBackend string
	Mongo        MongoConfig
	DB           db.Config

	Redis    redis.Config
	CacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// Load は .env を読み込んでから環境変数で設定を組み立てます。
// .env が無い場合はシステムの環境変数のみを使います。
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv は現在の環境変数から設定を組み立てて検証します。
func FromEnv() (Config, error) {
	mode, err := usecase.ParseRelayMode(getEnv("RELAY_MODE", string(entity.ModeLookup)))
	if err != nil {
		return Config{}, err
	}

	dbCfg := db.LoadConfigFromEnv()
	store := strings.ToLower(getEnv("STORE_BACKEND", StoreMongo))
	if store == StoreSQLite || store == StorePostgres {
		dbCfg.Driver = store
	}

	cfg := Config{
		Port:               getEnv("PORT", "4000"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		UploadDir:          getEnv("UPLOAD_DIR", "./images"),
		MaxUploadBytes:     getEnvAsInt64("MAX_UPLOAD_BYTES", usecase.MaxImageSize),
		RelayMode:          mode,

		PredictionBackend: strings.ToLower(getEnv("PREDICTION_BACKEND", BackendCustomVision)),
		CustomVision: customvision.Config{
			Endpoint:      os.Getenv("VISION_PREDICTION_ENDPOINT"),
			PredictionKey: os.Getenv("VISION_PREDICTION_KEY"),
			ResourceID:    os.Getenv("VISION_PREDICTION_RESOURCE_ID"),
			ProjectID:     os.Getenv("PROJECT_ID"),
			Timeout:       getEnvAsDuration("PREDICTION_TIMEOUT", 30*time.Second),
			RateLimit:     int(getEnvAsInt64("PREDICTION_RATE_LIMIT", 0)),
		},
		VisionMaxResults: getEnvAsInt64("VISION_MAX_RESULTS", 10),

		StoreBackend: store,
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "turners"),
			Collection: getEnv("MONGO_COLLECTION", "cars"),
		},
		DB: dbCfg,

		Redis: redis.Config{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CacheTTL: getEnvAsDuration("INVENTORY_CACHE_TTL", 5*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の組み合わせを検証します。
func (c Config) Validate() error {
	var errs []error

	switch c.PredictionBackend {
	case BackendCustomVision:
		if c.CustomVision.Endpoint == "" {
			errs = append(errs, errors.New("VISION_PREDICTION_ENDPOINT is required"))
		}
		if c.CustomVision.PredictionKey == "" {
			errs = append(errs, errors.New("VISION_PREDICTION_KEY is required"))
		}
	case BackendGoogleVision:
	default:
		errs = append(errs, fmt.Errorf("unknown PREDICTION_BACKEND %q", c.PredictionBackend))
	}

	if c.RelayMode != entity.ModeRaw && c.RelayMode != entity.ModeLookup {
		errs = append(errs, fmt.Errorf("unknown RELAY_MODE %q", c.RelayMode))
	}

	switch c.StoreBackend {
	case StoreMongo:
		if c.RelayMode == entity.ModeLookup && c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required"))
		}
	case StorePostgres, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.VisionMaxResults <= 0 || c.VisionMaxResults > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("VISION_MAX_RESULTS must be between 1 and %d, got %d", math.MaxInt32, c.VisionMaxResults))
	}
	if c.CustomVision.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("PREDICTION_RATE_LIMIT must not be negative, got %d", c.CustomVision.RateLimit))
	}

	return errors.Join(errs...)
}

// Addr はサーバーのリッスンアドレスを返します。
func (c Config) Addr() string {
	return ":" + c.Port
}

// getEnv は環境変数を取得し、未設定の場合はデフォルト値を返します。
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 は環境変数を整数として取得します。不正な値はデフォルト値にフォールバックします。
func getEnvAsInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Warn("invalid integer env; using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

// getEnvAsDuration は "30s" のような期間、または秒数として環境変数を取得します。
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("invalid duration env; using default", "key", key, "value", value, "default", defaultValue)
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
