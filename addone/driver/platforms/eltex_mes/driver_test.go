package eltex_mes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccesspro/devaccesspro/addone/driver"
	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// scriptedMES 扮演一台MES：整行回显，按脚本应答并记录收到的命令序列
func scriptedMES(t *testing.T, script map[string]string) (*MES, func() []string) {
	devOutR, devOutW := io.Pipe()
	cmdR, cmdW := io.Pipe()
	sess := expect.New(context.Background(), "test", devOutR, cmdW, []io.Closer{devOutR, cmdW})
	t.Cleanup(func() { _ = sess.Close() })

	var mu sync.Mutex
	var got []string
	go func() {
		br := bufio.NewReader(cmdR)
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.TrimSpace(line)
			mu.Lock()
			got = append(got, cmd)
			mu.Unlock()
			fmt.Fprintf(devOutW, "%s\r\n%s\r\nmes2324#", cmd, script[cmd])
		}
	}()

	exec := driver.NewExecutor(sess, promptRe, moreRe)
	exec.SetTimeout(2 * time.Second)
	d := &MES{Base: driver.NewBase("eltex_mes", driver.DeviceInfo{Vendor: vendor, Host: "test"}, exec)}
	d.Privileged = true
	d.persist = d.saveWrite
	return d, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), got...)
	}
}

// TestSetDescriptionTooLong 超长描述的上限在接口配置态下问出来，问完才退出
func TestSetDescriptionTooLong(t *testing.T) {
	d, sent := scriptedMES(t, map[string]string{
		"description overlong": "%bad parameter value",
		"description ?":        "description  Up to 64 characters",
	})

	out, err := d.SetDescription("gi1/0/1", "overlong")
	require.NoError(t, err)
	assert.Equal(t, "Max length:64", out)

	cmds := sent()
	idx := func(want string) int {
		for i, c := range cmds {
			if c == want {
				return i
			}
		}
		return -1
	}
	require.NotEqual(t, -1, idx("description ?"))
	require.NotEqual(t, -1, idx("end"))
	assert.Greater(t, idx("description ?"), idx("description overlong"))
	assert.Greater(t, idx("end"), idx("description ?"), "问完上限才离开配置态")
}
