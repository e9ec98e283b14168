package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock_backend/internal/feature/carmatch/adapters/customvision"
	"carstock_backend/internal/platform/cache"
	"carstock_backend/internal/platform/config"
	"carstock_backend/internal/platform/db"
)

func TestNewClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name: "success: custom vision with rate limit",
			cfg: config.Config{
				PredictionBackend: config.BackendCustomVision,
				CustomVision:      customvision.Config{Endpoint: "http://cv.example.test", PredictionKey: "k", RateLimit: 10},
			},
		},
		{
			name: "error: custom vision without key",
			cfg: config.Config{
				PredictionBackend: config.BackendCustomVision,
				CustomVision:      customvision.Config{Endpoint: "http://cv.example.test"},
			},
			wantErr: true,
		},
		{
			name:    "error: unknown backend",
			cfg:     config.Config{PredictionBackend: "rekognition"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, cleanup, err := NewClassifier(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &customvision.PredictionClient{}, c)
			cleanup()
		})
	}
}

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		StoreBackend: config.StoreSQLite,
		DB:           db.Config{Driver: db.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "cars.db")},
	}
}

func TestNewInventory_SQLite(t *testing.T) {
	t.Setenv("RUN_MIGRATIONS", "true")

	inv, err := NewInventory(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	defer inv.Close()

	records, err := inv.Repo.FindByBodyStyle(context.Background(), "hatchback")
	require.NoError(t, err)
	assert.Empty(t, records)

	require.Contains(t, inv.Checks, "store")
	assert.NotContains(t, inv.Checks, "cache")
	assert.NoError(t, inv.Checks["store"](context.Background()))
}

func TestNewInventory_WithCache(t *testing.T) {
	t.Setenv("RUN_MIGRATIONS", "true")

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	mock.ExpectPing().SetVal("PONG")

	inv, err := NewInventory(context.Background(), sqliteConfig(t), rdb)
	require.NoError(t, err)
	defer inv.Close()

	assert.IsType(t, &cache.CachingInventoryRepository{}, inv.Repo)
	require.Contains(t, inv.Checks, "cache")
	assert.NoError(t, inv.Checks["cache"](context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewInventory_UnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := NewInventory(context.Background(), config.Config{StoreBackend: "dynamo"}, nil)
	assert.Error(t, err)
}
