package expect

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordWriter 记录会话往流里写了什么
type recordWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *recordWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *recordWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

var (
	testPromptRe = regexp.MustCompile(`#\s*$`)
	testMoreRe   = regexp.MustCompile(`--More--`)
)

// TestExpectMatch 基础命中：Before带出命中前的输出，缓冲被消费到命中结尾
func TestExpectMatch(t *testing.T) {
	pr, pw := io.Pipe()
	w := &recordWriter{}
	sess := New(context.Background(), "test", pr, w, []io.Closer{pr})
	defer sess.Close()

	go func() {
		_, _ = pw.Write([]byte("line one\r\nline two\r\nswitch#"))
	}()

	m, err := sess.Expect(2*time.Second, testPromptRe)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)
	assert.Contains(t, m.Before, "line one")
	assert.Contains(t, m.Before, "line two")
}

// TestExpectEarliestWins 多个模式同时在缓冲里时，取位置最靠前的
func TestExpectEarliestWins(t *testing.T) {
	pr, pw := io.Pipe()
	sess := New(context.Background(), "test", pr, &recordWriter{}, []io.Closer{pr})
	defer sess.Close()

	go func() {
		_, _ = pw.Write([]byte("page head --More-- page tail switch#"))
	}()

	m, err := sess.Expect(2*time.Second, testPromptRe, testMoreRe)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index, "翻页横幅在提示符之前，应该先命中")
	assert.Equal(t, "page head ", m.Before)

	// 横幅之后的内容留在缓冲里，下一次expect继续消费
	m, err = sess.Expect(2*time.Second, testPromptRe)
	require.NoError(t, err)
	assert.Equal(t, " page tail switch", m.Before)
}

// TestExpectTimeoutPartial 超时返回ErrTimeout，已累计的输出全部带出
func TestExpectTimeoutPartial(t *testing.T) {
	pr, pw := io.Pipe()
	sess := New(context.Background(), "test", pr, &recordWriter{}, []io.Closer{pr})
	defer sess.Close()

	go func() {
		_, _ = pw.Write([]byte("partial output without prompt"))
	}()

	m, err := sess.Expect(300*time.Millisecond, testPromptRe)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, -1, m.Index)
	assert.Equal(t, "partial output without prompt", m.Before)
}

// TestExpectClosedStream 对端断开后返回ErrClosed，残余输出不丢
func TestExpectClosedStream(t *testing.T) {
	pr, pw := io.Pipe()
	sess := New(context.Background(), "test", pr, &recordWriter{}, []io.Closer{pr})
	defer sess.Close()

	go func() {
		_, _ = pw.Write([]byte("goodbye"))
		_ = pw.Close()
	}()

	m, err := sess.Expect(2*time.Second, testPromptRe)
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, "goodbye", m.Before)
}

// TestSanitizeControlSequences ANSI转义和退格在匹配前被清洗掉
func TestSanitizeControlSequences(t *testing.T) {
	pr, pw := io.Pipe()
	sess := New(context.Background(), "test", pr, &recordWriter{}, []io.Closer{pr})
	defer sess.Close()

	go func() {
		_, _ = pw.Write([]byte("\x1b[01;32mgreen text\x1b[0m\x08\x08 tail#"))
	}()

	m, err := sess.Expect(2*time.Second, testPromptRe)
	require.NoError(t, err)
	assert.Equal(t, "green text tail", m.Before)
}

// TestSendLineSep SendLine按配置的行结束符补尾
func TestSendLineSep(t *testing.T) {
	pr, _ := io.Pipe()
	w := &recordWriter{}
	sess := New(context.Background(), "test", pr, w, []io.Closer{pr}, WithLineSep("\r\n"))
	defer sess.Close()

	require.NoError(t, sess.SendLine("show version"))
	assert.Equal(t, "show version\r\n", w.String())
}

// TestCloseIdempotent 第二次Close不再发送任何字节
func TestCloseIdempotent(t *testing.T) {
	pr, _ := io.Pipe()
	w := &recordWriter{}
	sess := New(context.Background(), "test", pr, w, []io.Closer{pr})
	sess.SetExitCommands("quit")

	require.NoError(t, sess.Close())
	written := w.String()
	assert.Equal(t, "quit\n", written)
	assert.True(t, sess.Closed())

	require.NoError(t, sess.Close())
	assert.Equal(t, written, w.String(), "重复Close不得再写流")

	// 会话关闭后Send直接拒绝
	assert.ErrorIs(t, sess.Send("x"), ErrClosed)
}
