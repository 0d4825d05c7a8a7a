package expect

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devaccesspro/devaccesspro/internal/util"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

var (
	// ErrTimeout 表示一次expect在期限内没有命中任何模式。
	// 翻页场景下这是正常分支，调用方拿Match.Before里的残余输出继续处理
	ErrTimeout = errors.New("expect: timeout")
	// ErrClosed 表示底层流已经关闭（对端断开或本端Close）
	ErrClosed = errors.New("expect: stream closed")
)

// Match 一次expect的命中结果
type Match struct {
	Index  int    // 命中模式在参数列表里的下标，未命中为-1
	Before string // 命中位置之前累计的输出
	Text   string // 命中模式本身的文本
}

// Session 是对设备交互字节流的封装：后台goroutine持续读取，
// Expect按模式列表匹配缓冲区，Send/SendLine写入。
// 一个Session只允许一个持有者顺序使用，不做内部并发保护
type Session struct {
	host    string
	lineSep string

	w       io.Writer
	closers []io.Closer

	readCh chan []byte
	errCh  chan error
	done   chan struct{}
	text   string // 已解码未消费的输出
	dead   bool   // 读取侧已结束

	ctx      context.Context
	exitCmds []string

	mu     sync.Mutex
	closed bool

	log *logrus.Entry
}

// Option Session构造选项
type Option func(*Session)

// WithLineSep 指定SendLine使用的行结束符，SSH用"\n"，Telnet用"\r\n"
func WithLineSep(sep string) Option {
	return func(s *Session) { s.lineSep = sep }
}

// New 创建Session并启动读取goroutine。closers按顺序在Close时关闭，
// 传入顺序应当保证先关通道后关连接
func New(ctx context.Context, host string, r io.Reader, w io.Writer, closers []io.Closer, opts ...Option) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Session{
		host:    host,
		lineSep: "\n",
		w:       w,
		closers: closers,
		readCh:  make(chan []byte, 64),
		errCh:   make(chan error, 1),
		done:    make(chan struct{}),
		ctx:     ctx,
		log:     logger.WithDevice(host),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.pump(r)
	return s
}

// pump 后台读取循环，把原始块送进通道，出错或会话关闭后退出
func (s *Session) pump(r io.Reader) {
	for {
		chunk := make([]byte, 4096)
		n, err := r.Read(chunk)
		if n > 0 {
			select {
			case s.readCh <- chunk[:n]:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.errCh <- err:
			case <-s.done:
			}
			return
		}
	}
}

// Host 返回会话对应的设备地址
func (s *Session) Host() string {
	return s.host
}

// SetExitCommands 设置Close时尽力发送的下线命令（例如quit、logout）
func (s *Session) SetExitCommands(cmds ...string) {
	s.exitCmds = cmds
}

// push 解码并清洗新到的数据块，追加到未消费缓冲
func (s *Session) push(chunk []byte) {
	s.text += sanitize(util.EnsureUTF8Bytes(chunk))
}

// Expect 在timeout内等待任一模式命中。命中时消费缓冲区到模式结尾，
// 返回命中下标和之前的输出。超时返回ErrTimeout，此时Before带出并消费
// 已累计的全部输出；流关闭返回ErrClosed，语义相同
func (s *Session) Expect(timeout time.Duration, patterns ...*regexp.Regexp) (Match, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if m, ok := s.match(patterns); ok {
			return m, nil
		}
		if s.dead {
			return s.drain(), ErrClosed
		}
		select {
		case chunk := <-s.readCh:
			s.push(chunk)
		case err := <-s.errCh:
			// 读取结束前把通道里残余的数据收完
			for {
				select {
				case chunk := <-s.readCh:
					s.push(chunk)
					continue
				default:
				}
				break
			}
			s.dead = true
			if err != io.EOF {
				s.log.Debugf("stream read ended: %v", err)
			}
		case <-s.done:
			return s.drain(), ErrClosed
		case <-s.ctx.Done():
			return s.drain(), ErrClosed
		case <-timer.C:
			return s.drain(), ErrTimeout
		}
	}
}

// match 在当前缓冲里找最早出现的模式，并列时列表靠前者优先
func (s *Session) match(patterns []*regexp.Regexp) (Match, bool) {
	best := -1
	var bestLoc []int
	for i, p := range patterns {
		if p == nil {
			continue
		}
		loc := p.FindStringIndex(s.text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < bestLoc[0] {
			best = i
			bestLoc = loc
		}
	}
	if best == -1 {
		return Match{}, false
	}
	m := Match{
		Index:  best,
		Before: s.text[:bestLoc[0]],
		Text:   s.text[bestLoc[0]:bestLoc[1]],
	}
	s.text = s.text[bestLoc[1]:]
	return m, true
}

// drain 取走整个未消费缓冲
func (s *Session) drain() Match {
	m := Match{Index: -1, Before: s.text}
	s.text = ""
	return m
}

// Send 原样发送数据
func (s *Session) Send(data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(s.w, data); err != nil {
		return err
	}
	return nil
}

// SendLine 发送一行，自动补行结束符
func (s *Session) SendLine(line string) error {
	return s.Send(line + s.lineSep)
}

// Closed 报告会话是否已经关闭
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close 关闭会话。只有第一次调用会发送下线命令并关闭底层资源，
// 重复调用直接返回nil，不再向流写任何字节
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	defer close(s.done)
	for _, cmd := range s.exitCmds {
		// 对端可能已经断开，失败不影响关闭
		if _, err := io.WriteString(s.w, cmd+s.lineSep); err != nil {
			break
		}
	}

	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.log.Debug("session closed")
	return firstErr
}

var (
	ansiRe      = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b\][^\x07]*\x07|\x1b[=>]`)
	backspaceRe = regexp.MustCompile(`[\x00\x08]+`)
)

// sanitize 去掉终端控制序列，设备翻页时经常用它们回擦more横幅
func sanitize(s string) string {
	s = ansiRe.ReplaceAllString(s, "")
	s = backspaceRe.ReplaceAllString(s, "")
	return s
}
