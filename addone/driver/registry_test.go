package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/collect"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// stubRegistry 清空签名表并在测试结束后还原
func stubRegistry(t *testing.T) {
	registryMu.Lock()
	saved := signatures
	signatures = nil
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		signatures = saved
		registryMu.Unlock()
	})
}

// scriptedDevice 扮演一台按剧本应答的设备：回显命令，查表输出，收尾带提示符
func scriptedDevice(t *testing.T, script map[string]string) *expect.Session {
	devOutR, devOutW := io.Pipe()
	cmdR, cmdW := io.Pipe()
	sess := expect.New(context.Background(), "test", devOutR, cmdW, []io.Closer{devOutR, cmdW})
	t.Cleanup(func() { _ = sess.Close() })

	go func() {
		br := bufio.NewReader(cmdR)
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.TrimSpace(line)
			out, ok := script[cmd]
			if !ok {
				out = "% Unknown command"
			}
			if _, err := fmt.Fprintf(devOutW, "%s\r\n%s\r\nswitch#", cmd, out); err != nil {
				return
			}
		}
	}()
	return sess
}

// fakeDriver 记录是哪条签名构造了它
type fakeDriver struct {
	vendor string
	model  string
}

func (f *fakeDriver) Info() DeviceInfo {
	return DeviceInfo{Vendor: f.vendor, Model: f.model}
}
func (f *fakeDriver) GetInterfaces() ([]collect.InterfaceRow, error) { return nil, nil }
func (f *fakeDriver) GetVlans() ([]collect.VlanRow, error)           { return nil, nil }
func (f *fakeDriver) GetMac(string) ([]collect.MacRow, error)        { return nil, nil }
func (f *fakeDriver) ReloadPort(string) (string, error)              { return "", nil }
func (f *fakeDriver) SetPort(string, string) (string, error)         { return "", nil }
func (f *fakeDriver) SaveConfig() (string, error)                    { return "", nil }
func (f *fakeDriver) PortType(string) (string, error)                { return "", nil }
func (f *fakeDriver) PortConfig(string) (string, error)              { return "", nil }
func (f *fakeDriver) PortErrors(string) (string, error)              { return "", nil }
func (f *fakeDriver) SetDescription(string, string) (string, error)  { return "", nil }
func (f *fakeDriver) Close() error                                   { return nil }

func fakeNew(vendor string) Constructor {
	return func(sess *expect.Session, host, model, secret string) (Driver, error) {
		return &fakeDriver{vendor: vendor, model: model}, nil
	}
}

// TestClassifyRankOrder 两条签名都命中时Rank小的生效
func TestClassifyRankOrder(t *testing.T) {
	stubRegistry(t)
	Register(Signature{Name: "late", Rank: 50,
		Match: func(out string) bool { return strings.Contains(out, "FakeOS") },
		New:   fakeNew("late")})
	Register(Signature{Name: "early", Rank: 10,
		Match: func(out string) bool { return strings.Contains(out, "FakeOS") },
		New:   fakeNew("early")})

	sess := scriptedDevice(t, map[string]string{
		"show version": "FakeOS Software, Version 9.1",
	})
	d, err := Classify(sess, "test", "")
	require.NoError(t, err)
	assert.Equal(t, "early", d.Info().Vendor)
}

// TestClassifyUnknownVendor 全部签名不中时返回UnknownVendorError，绝不落默认驱动
func TestClassifyUnknownVendor(t *testing.T) {
	stubRegistry(t)
	Register(Signature{Name: "never", Rank: 10,
		Match: func(out string) bool { return strings.Contains(out, "nope") },
		New:   fakeNew("never")})

	sess := scriptedDevice(t, map[string]string{
		"show version": "Mystery OS 1.0",
	})
	_, err := Classify(sess, "test", "")
	var unknown *UnknownVendorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "test", unknown.Host)
}

// TestClassifyFallbackProbe show不认时补发兜底探测，用合并后的输出比对签名
func TestClassifyFallbackProbe(t *testing.T) {
	stubRegistry(t)
	Register(Signature{Name: "routeros", Rank: 10,
		Match: func(out string) bool { return strings.Contains(out, "MikroTik") },
		New:   fakeNew("routeros")})

	sess := scriptedDevice(t, map[string]string{
		"show version":          "bad command name show (line 1 column 1)",
		"system resource print": "uptime: 1w2d\r\nplatform: MikroTik",
	})
	d, err := Classify(sess, "test", "")
	require.NoError(t, err)
	assert.Equal(t, "routeros", d.Info().Vendor)
}

// TestClassifySubProbe 二级探测命中时用二级输出提取型号
func TestClassifySubProbe(t *testing.T) {
	stubRegistry(t)
	Register(Signature{Name: "eltex", Rank: 10,
		Match: func(out string) bool { return strings.Contains(out, "Active-image") },
		Probe: "show system",
		Sub: []Signature{
			{Name: "mes",
				Match: func(out string) bool { return strings.Contains(out, "MES") },
				Model: func(out string) string { return "MES2324" },
				New:   fakeNew("mes")},
		}})

	sess := scriptedDevice(t, map[string]string{
		"show version": "Active-image: flash://image-1.bin",
		"show system":  "System Description: MES2324",
	})
	d, err := Classify(sess, "test", "")
	require.NoError(t, err)
	assert.Equal(t, "mes", d.Info().Vendor)
	assert.Equal(t, "MES2324", d.Info().Model)
}

// TestClassifySubProbeMiss 二级全不中回到主表继续比对
func TestClassifySubProbeMiss(t *testing.T) {
	stubRegistry(t)
	Register(Signature{Name: "two-level", Rank: 10,
		Match: func(out string) bool { return strings.Contains(out, "Active-image") },
		Probe: "show system",
		Sub: []Signature{
			{Name: "esr",
				Match: func(out string) bool { return strings.Contains(out, "ESR") },
				New:   fakeNew("esr")},
		}})
	Register(Signature{Name: "flat", Rank: 20,
		Match: func(out string) bool { return strings.Contains(out, "Active-image") },
		New:   fakeNew("flat")})

	sess := scriptedDevice(t, map[string]string{
		"show version": "Active-image: flash://image-1.bin",
		"show system":  "System Description: something else",
	})
	d, err := Classify(sess, "test", "")
	require.NoError(t, err)
	assert.Equal(t, "flat", d.Info().Vendor)
}
