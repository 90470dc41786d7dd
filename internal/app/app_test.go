package app

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/mindnest/internal/config"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

type closeRecorder struct {
	kv.Store
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return c.Store.Close()
}

func testConfig(t *testing.T, listen string) *config.Config {
	t.Helper()
	t.Setenv("MINDNEST_LISTEN_PORT", listen)
	t.Setenv("MINDNEST_STORE_BACKEND", kv.BackendMemory)
	t.Setenv("MINDNEST_CATALOG_FILE", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("MINDNEST_ORPHAN_GC_INTERVAL", "0")
	return config.Load()
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	cfg := testConfig(t, "127.0.0.1:0")
	cfg.StoreBackend = "etcd"

	_, err := openStore(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store backend "etcd"`)
}

func TestRunClosesStoreWhenServerFails(t *testing.T) {
	// hold the port so ListenAndServe fails at once
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a, err := newApp(testConfig(t, ln.Addr().String()), logger.Nop())
	require.NoError(t, err)
	rec := &closeRecorder{Store: a.store}
	a.store = rec

	err = a.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server error")
	assert.Equal(t, 1, rec.closed)
}
