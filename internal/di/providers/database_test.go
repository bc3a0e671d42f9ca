package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightstandapp/nightstand-server/internal/config"
	"github.com/nightstandapp/nightstand-server/internal/logger"
)

func TestOpenStore(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "data")
			cfg := &config.Config{Storage: config.StorageConfig{Backend: backend, DataPath: dir}}

			st, err := OpenStore(cfg, logger.Discard().Logger)
			require.NoError(t, err)
			defer st.Close()

			_, err = os.Stat(cfg.DatabasePath())
			assert.NoError(t, err)

			snap, err := st.LoadSnapshot(context.Background())
			require.NoError(t, err)
			assert.Empty(t, snap.Books)
			assert.Nil(t, snap.Profile)
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "postgres", DataPath: t.TempDir()}}
	_, err := OpenStore(cfg, logger.Discard().Logger)
	assert.Error(t, err)
}
