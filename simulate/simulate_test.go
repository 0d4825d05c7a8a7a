package simulate

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig 设备脚本字段和监听参数一起解析
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
devices:
  - name: lab
    protocol: telnet
    listen: ":2302"
    prompt: "sw#"
    more_banner: "--More--"
    page_lines: 24
    press_any_key: true
    radius_flaps: 2
    accounts:
      netops: netops
    commands:
      "show version": "FakeOS 1.0"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Devices, 1)

	dev := cfg.Devices[0]
	assert.Equal(t, "telnet", dev.Protocol)
	assert.Equal(t, ":2302", dev.Listen)
	assert.Equal(t, "sw#", dev.Prompt)
	assert.Equal(t, 24, dev.PageLines)
	assert.True(t, dev.PressAnyKey)
	assert.Equal(t, 2, dev.RadiusFlaps)
	assert.Equal(t, "FakeOS 1.0", dev.Commands["show version"])
	assert.True(t, dev.checkAccount("netops", "netops"))
	assert.False(t, dev.checkAccount("netops", "wrong"))
}

// TestLoadConfigEmpty 空清单直接报错
func TestLoadConfigEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices: []\n"), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "no devices")
}

// TestShellPagingAbort 翻页途中收到Ctrl+C回提示符，不再吐剩余页
func TestShellPagingAbort(t *testing.T) {
	client, server := net.Pipe()
	dev := &Device{
		Name:       "p1",
		Prompt:     "sw#",
		MoreBanner: "--More--",
		PageLines:  1,
		Commands:   map[string]string{"show long": "line one\nline two\nline three"},
	}
	done := make(chan struct{})
	go func() {
		dev.shell(server)
		close(done)
	}()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
		<-done
	})

	readUntil := func(want string) string {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		var buf []byte
		chunk := make([]byte, 256)
		for !strings.Contains(string(buf), want) {
			n, err := client.Read(chunk)
			require.NoError(t, err)
			buf = append(buf, chunk[:n]...)
		}
		return string(buf)
	}

	readUntil("sw#")
	_, err := client.Write([]byte("show long\n"))
	require.NoError(t, err)
	readUntil("--More--")
	_, err = client.Write([]byte{0x03})
	require.NoError(t, err)
	out := readUntil("sw#")
	assert.NotContains(t, out, "line two")
}

// TestManagerStartStop 两种协议的设备都能拉起并干净收尾
func TestManagerStartStop(t *testing.T) {
	cfg := &Config{Devices: []Instance{
		{Device: Device{Name: "s1", Prompt: "a#"}, Protocol: "ssh", Listen: "127.0.0.1:0"},
		{Device: Device{Name: "t1", Prompt: "b#"}, Protocol: "telnet", Listen: "127.0.0.1:0"},
	}}
	mgr, err := Start(cfg)
	require.NoError(t, err)
	mgr.Stop()
}
