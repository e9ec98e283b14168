package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"carstock_backend/internal/feature/carmatch/adapters"
	"carstock_backend/internal/feature/carmatch/usecase"
	"carstock_backend/internal/platform/cache"
	"carstock_backend/internal/platform/config"
	"carstock_backend/internal/platform/db"
	"carstock_backend/internal/platform/http/handler"
	platformmongo "carstock_backend/internal/platform/mongo"
)

// Inventory は在庫リポジトリとその疎通確認・後始末をまとめたものです。
type Inventory struct {
	Repo   usecase.InventoryRepository
	Checks map[string]handler.Checker
	Close  func()
}

// NewInventory は STORE_BACKEND に応じた在庫リポジトリを生成します。
// rdb が nil でなければRedisのread-throughキャッシュでラップします。
func NewInventory(ctx context.Context, cfg config.Config, rdb *redis.Client) (*Inventory, error) {
	var (
		repo    usecase.InventoryRepository
		check   handler.Checker
		closeFn func()
	)

	switch cfg.StoreBackend {
	case config.StoreMongo:
		client, err := platformmongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		repo = adapters.NewInventoryMongo(coll)
		check = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		closeFn = func() { platformmongo.Disconnect(client) }
		slog.Info("USING_MONGO", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)

	case config.StorePostgres, config.StoreSQLite:
		gdb, err := db.Open(cfg.DB, &adapters.CarModel{})
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		repo = adapters.NewInventoryGorm(gdb)
		check = sqlDB.PingContext
		closeFn = func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	inv := &Inventory{
		Repo:   repo,
		Checks: map[string]handler.Checker{"store": check},
		Close:  closeFn,
	}

	if rdb != nil {
		inv.Repo = cache.NewCachingInventoryRepository(rdb, cfg.CacheTTL, repo, "inventory")
		inv.Checks["cache"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return inv, nil
}
