package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Database.Driver = config.DriverMemory
	cfg.Server.StaticPath = filepath.Join(t.TempDir(), "static")
	cfg.Server.Mode = "production"
	return cfg
}

func TestMemoryStoreIsSeeded(t *testing.T) {
	cfg := memoryConfig(t)

	store, closeStore, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeStore()

	courses, err := store.Courses().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 4)
}

func TestSeedCanBeDisabled(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Database.Seed = false

	store, closeStore, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeStore()

	courses, err := store.Courses().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestRouterServesPagesAndAPI(t *testing.T) {
	cfg := memoryConfig(t)
	store, closeStore, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeStore()

	deps, err := BuildDependencies(cfg, store, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, deps.AuthMiddleware)

	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)

	for _, path := range []string{"/ping", "/", "/marks", "/api/course", "/student/create"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAuthEnabledBuildsMiddleware(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"

	deps, err := BuildDependencies(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, deps.AuthMiddleware)
	assert.NotNil(t, deps.AuthController)
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Database.Driver = "oracle"

	_, _, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
