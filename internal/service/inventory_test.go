package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/internal/connect"
)

func writeInventory(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadInventory 凭据引用解析和默认凭据回退
func TestLoadInventory(t *testing.T) {
	path := writeInventory(t, `
credentials:
  lab:
    accounts:
      - login: netops
        password: secret1
    secret: enable1
devices:
  - host: 10.0.0.1
    protocol: ssh
    credentials: lab
  - host: 10.0.0.2
    protocol: telnet
`)
	inv, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, inv.Devices, 2)

	fallback := connect.Credentials{Accounts: []connect.Account{{Login: "def", Password: "def"}}}

	creds := inv.CredentialsFor(inv.Devices[0], fallback)
	require.Len(t, creds.Accounts, 1)
	assert.Equal(t, "netops", creds.Accounts[0].Login)
	assert.Equal(t, "enable1", creds.Secret)

	creds = inv.CredentialsFor(inv.Devices[1], fallback)
	assert.Equal(t, "def", creds.Accounts[0].Login)
}

// TestLoadInventoryValidation 三类配置错误都在加载时挡下
func TestLoadInventoryValidation(t *testing.T) {
	_, err := LoadInventory(writeInventory(t, "devices: []\n"))
	assert.ErrorContains(t, err, "no devices")

	_, err = LoadInventory(writeInventory(t, "devices:\n  - protocol: ssh\n"))
	assert.ErrorContains(t, err, "without host")

	_, err = LoadInventory(writeInventory(t, "devices:\n  - host: 10.0.0.1\n    credentials: nope\n"))
	assert.ErrorContains(t, err, "unknown credentials")

	_, err = LoadInventory(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
