package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"carstock_backend/internal/app/di"
	"carstock_backend/internal/app/router"
	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/transport/handler"
	"carstock_backend/internal/feature/carmatch/usecase"
	"carstock_backend/internal/platform/config"
	platformhandler "carstock_backend/internal/platform/http/handler"
	"carstock_backend/internal/platform/logging"
	infraredis "carstock_backend/internal/platform/redis"
	"carstock_backend/internal/platform/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env と環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 分類器
	classifier, closeClassifier, err := di.NewClassifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClassifier()

	// 在庫ストア（lookupモードのみ）
	var inventory usecase.InventoryRepository
	checks := map[string]platformhandler.Checker{}
	if cfg.RelayMode == entity.ModeLookup {
		// Redis
		var rdb *redisv9.Client
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("Failed to close Redis client", "error", err)
				}
			}()
		}

		inv, err := di.NewInventory(ctx, cfg, rdb)
		if err != nil {
			return err
		}
		defer inv.Close()
		inventory = inv.Repo
		checks = inv.Checks
	}

	// Usecase
	matchUC, err := usecase.NewCarMatchUsecase(classifier, inventory, cfg.RelayMode)
	if err != nil {
		return err
	}

	// アップロード画像の一時保存先
	stager, err := storage.NewStager(cfg.UploadDir)
	if err != nil {
		return err
	}

	// Handler
	matchH := handler.NewCarMatchHandler(matchUC, stager, cfg.MaxUploadBytes)

	// ルータ生成
	r := router.NewRouter(matchH, checks, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "mode", cfg.RelayMode,
			"backend", cfg.PredictionBackend, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
