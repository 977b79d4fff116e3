package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"vehlog/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8090
logger:
  level: info
  mode: 420
  dir: /tmp
persistence:
  driver: sqlite
  path: /tmp/vehlog
  maintenanceInterval: 2m
cache:
  enabled: true
  size: 4
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_ReadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 8090, conf.WebServer.Port)
	assert.Equal(t, "sqlite", conf.Persistence.Driver)
	assert.Equal(t, 2*time.Minute, conf.Persistence.MaintenanceInterval)
	assert.Equal(t, "better", conf.Persistence.Compression)
	assert.Equal(t, DefaultSnapshotCapacity, conf.Snapshots.Capacity)
	assert.Equal(t, ",", conf.Export.Separator)
	assert.Equal(t, 5*time.Minute, conf.Cache.TTL)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("VEHLOG_SNAPSHOT_CAPACITY", "3")
	t.Setenv("VEHLOG_PERSISTENCE_DRIVER", "memory")
	t.Setenv("VEHLOG_PERSISTENCE_COMPRESSION", "fastest")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, 3, conf.Snapshots.Capacity)
	assert.Equal(t, "memory", conf.Persistence.Driver)
	assert.Equal(t, "fastest", conf.Persistence.Compression)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: ''\n  port: 0\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
