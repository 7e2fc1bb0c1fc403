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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
credit_db:
  dsn: "file::memory:"
  driver: sqlite
zpay:
  pid: "1001"
  key: "secret"
auth:
  jwt_secret: "jwt"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.Credits.InitialGrant)
	assert.Equal(t, 0.01, cfg.Credits.AmountTolerance)
	assert.Equal(t, 3, cfg.Credits.StoreRetries)
	assert.Equal(t, time.Second, cfg.DashScope.PollInterval)
	assert.Equal(t, 60, cfg.DashScope.MaxPollAttempts)
	assert.Equal(t, "wanx2.1-t2i-plus", cfg.DashScope.Model)
	assert.Equal(t, 4, cfg.DashScope.N)
	assert.Equal(t, "https://zpayz.cn/submit.php", cfg.ZPay.SubmitURL)
	assert.Equal(t, "payment-events", cfg.KafkaService.PaymentTopic)
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `
credit_db:
  driver: mysql
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit_db.dsn is required")
	assert.Contains(t, err.Error(), "not supported")
	assert.Contains(t, err.Error(), "zpay.pid and zpay.key are required")
	assert.Contains(t, err.Error(), "auth.jwt_secret is required")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
