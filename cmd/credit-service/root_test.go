package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	cmd := newRootCmd("1.2.3", "2025-01-01", "abc123")
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "credit-service: 1.2.3")
	assert.Contains(t, out, "gitCommit: abc123")
}

func TestTokenCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
credit_db:
  driver: sqlite
  dsn: "file::memory:"
zpay:
  pid: "1001"
  key: "secret"
auth:
  jwt_secret: "jwt"
`), 0o600))

	out, err := execute(t, "token", "user-7", "--config", path)
	require.NoError(t, err)

	userID, err := middleware.ParseToken([]byte("jwt"), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
}

func TestTokenCmd_RequiresConfig(t *testing.T) {
	t.Setenv("CREDIT_CONFIG_PATH", "")
	_, err := execute(t, "token", "user-7")
	assert.Error(t, err)
}

func TestSweepCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
credit_db:
  driver: sqlite
  dsn: "`+filepath.Join(dir, "credit.db")+`"
zpay:
  pid: "1001"
  key: "secret"
auth:
  jwt_secret: "jwt"
log_config:
  log_level: error
`), 0o600))

	out, err := execute(t, "sweep", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "refunded 0 stale generations")
}
