package connect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// x/crypto握手失败时的真实错误文本形态
func offerErr(what, offered string) error {
	return errors.New("ssh: handshake failed: ssh: no common algorithm for " + what +
		"; client offered: [curve25519-sha256], server offered: [" + offered + "]")
}

// TestParseOffer 三类算法错误都能取出对端公布的列表
func TestParseOffer(t *testing.T) {
	kind, offered, ok := parseOffer(offerErr("key exchange", "diffie-hellman-group1-sha1 diffie-hellman-group14-sha1"))
	require.True(t, ok)
	assert.Equal(t, "kex", kind)
	assert.Equal(t, []string{"diffie-hellman-group1-sha1", "diffie-hellman-group14-sha1"}, offered)

	kind, _, ok = parseOffer(offerErr("host key", "ssh-rsa ssh-dss"))
	require.True(t, ok)
	assert.Equal(t, "host key", kind)

	kind, offered, ok = parseOffer(offerErr("client to server cipher", "aes128-cbc 3des-cbc"))
	require.True(t, ok)
	assert.Equal(t, "cipher", kind)
	assert.Equal(t, []string{"aes128-cbc", "3des-cbc"}, offered)

	_, _, ok = parseOffer(errors.New("ssh: unable to authenticate"))
	assert.False(t, ok)
	_, _, ok = parseOffer(nil)
	assert.False(t, ok)
}

// TestApplyOverrideKex 对端顺序保留，库不认识的名字被过滤
func TestApplyOverrideKex(t *testing.T) {
	cfg := &TransportConfig{}
	ok := applyOverride(cfg, "kex", []string{
		"diffie-hellman-group14-sha1", "made-up-kex", "diffie-hellman-group1-sha1"})
	require.True(t, ok)
	assert.Equal(t, []string{"diffie-hellman-group14-sha1", "diffie-hellman-group1-sha1"}, cfg.KexAlgorithms)

	// 同类重复写入说明重拨没有进展
	assert.False(t, applyOverride(cfg, "kex", []string{"diffie-hellman-group14-sha1"}))
}

// TestApplyOverrideCipher cipher取对端列表里最后一个可用的
func TestApplyOverrideCipher(t *testing.T) {
	cfg := &TransportConfig{}
	ok := applyOverride(cfg, "cipher", []string{"aes128-cbc", "aes256-cbc", "3des-cbc"})
	require.True(t, ok)
	assert.Equal(t, []string{"3des-cbc"}, cfg.Ciphers)
}

// TestApplyOverrideAccumulates 先解决的kex在后续cipher重拨时保留
func TestApplyOverrideAccumulates(t *testing.T) {
	cfg := &TransportConfig{}
	require.True(t, applyOverride(cfg, "kex", []string{"diffie-hellman-group1-sha1"}))
	require.True(t, applyOverride(cfg, "cipher", []string{"aes128-cbc"}))
	assert.Equal(t, []string{"diffie-hellman-group1-sha1"}, cfg.KexAlgorithms)
	assert.Equal(t, []string{"aes128-cbc"}, cfg.Ciphers)
}

// TestApplyOverrideNoKnown 对端只公布库不支持的算法时放弃
func TestApplyOverrideNoKnown(t *testing.T) {
	cfg := &TransportConfig{}
	assert.False(t, applyOverride(cfg, "kex", []string{"made-up-kex"}))
	assert.False(t, applyOverride(cfg, "cipher", []string{"made-up-cipher"}))
}

// TestTryOrder admin/admin兜底永远排在最后
func TestTryOrder(t *testing.T) {
	creds := Credentials{Accounts: []Account{{Login: "netops", Password: "x"}}}
	order := creds.tryOrder()
	require.Len(t, order, 2)
	assert.Equal(t, "netops", order[0].Login)
	assert.Equal(t, Account{Login: "admin", Password: "admin"}, order[1])
}

// TestTransportDefaults 协议决定默认端口
func TestTransportDefaults(t *testing.T) {
	cfg := &TransportConfig{Protocol: ProtoTelnet, Host: "10.0.0.1"}
	cfg.withDefaults()
	assert.Equal(t, 23, cfg.Port)
	assert.Equal(t, "10.0.0.1:23", cfg.addr())

	cfg = &TransportConfig{Host: "10.0.0.1"}
	cfg.withDefaults()
	assert.Equal(t, ProtoSSH, cfg.Protocol)
	assert.Equal(t, 22, cfg.Port)
	assert.Equal(t, 3, cfg.RadiusRetries)
}
