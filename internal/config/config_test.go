package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill what the file leaves out", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else takes its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "3000", conf.HTTPPort)
		assert.Equal(t, "3001", conf.SocketPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 64, conf.WebSocket.SendBuffer)
		assert.Equal(t, int64(4096), conf.WebSocket.ReadLimit)
		assert.Equal(t, 10*time.Second, conf.WebSocket.WriteWait)
		assert.Equal(t, 30*time.Second, conf.WebSocket.PongWait)
		assert.Equal(t, 25*time.Second, conf.WebSocket.PingPeriod)
		assert.Empty(t, conf.WebSocket.AllowedOrigins)
		assert.Equal(t, 256, conf.History.Buffer)
	})

	t.Run("File values win over defaults", func(t *testing.T) {
		path := writeConfig(t, `
socket-port: "4001"
redis:
  host: cache
  port: "6380"
websocket:
  allowed-origins: ["http://localhost:3000"]
  ping-period: 5s
  pong-wait: 6s
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "4001", conf.SocketPort)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, []string{"http://localhost:3000"}, conf.WebSocket.AllowedOrigins)
		assert.Equal(t, 5*time.Second, conf.WebSocket.PingPeriod)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("SOCKET_PORT", "5001")

		path := writeConfig(t, "socket-port: \"4001\"\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "5001", conf.SocketPort)
	})

	t.Run("Ping period must be shorter than pong wait", func(t *testing.T) {
		path := writeConfig(t, "websocket:\n  ping-period: 30s\n  pong-wait: 30s\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}

func TestRedis_GetRedisAddr(t *testing.T) {
	redis := Redis{Host: "", Port: "6379"}

	assert.Empty(t, redis.GetRedisAddr())
}
