package driver

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/devaccesspro/devaccesspro/pkg/expect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// 回显匹配只取命令末尾这么多字符，长命令在窄终端上会折行
const echoTailLen = 30

// Executor 翻页命令执行器。所有厂商操作共用这一套协议：
// 发命令、吃回显、循环在"提示符/翻页横幅/超时"三个分支之间走，
// 翻页时发续页键并把各页拼起来。翻页语义只存在于这里
type Executor struct {
	sess    *expect.Session
	prompt  *regexp.Regexp
	more    *regexp.Regexp // nil表示该设备不翻页
	contKey string
	timeout time.Duration
}

// NewExecutor 绑定会话和驱动的固定模式
func NewExecutor(sess *expect.Session, prompt, more *regexp.Regexp) *Executor {
	return &Executor{
		sess:    sess,
		prompt:  prompt,
		more:    more,
		contKey: " ",
		timeout: 10 * time.Second,
	}
}

// Session 暴露底层会话给需要直接收发的驱动构造逻辑（特权提升）
func (e *Executor) Session() *expect.Session {
	return e.sess
}

// SetContinueKey 改续页键，个别厂商不认空格
func (e *Executor) SetContinueKey(key string) {
	e.contKey = key
}

// SetTimeout 改默认单步超时
func (e *Executor) SetTimeout(d time.Duration) {
	e.timeout = d
}

// SetMore 驱动初始化后关掉或更换翻页模式（例如发过disable clipaging之后）
func (e *Executor) SetMore(more *regexp.Regexp) {
	e.more = more
}

type runCfg struct {
	prompt  *regexp.Regexp
	more    *regexp.Regexp
	before  *regexp.Regexp
	echo    bool
	pages   int // <0 不限页数
	timeout time.Duration
	lineSep string
	contKey string
}

// RunOption 单次执行的可选参数
type RunOption func(*runCfg)

// WithBefore 真正的输出前面有横幅时，先消费到锚点再开始收集
func WithBefore(re *regexp.Regexp) RunOption {
	return func(c *runCfg) { c.before = re }
}

// WithoutEcho 设备不回显时跳过回显消费
func WithoutEcho() RunOption {
	return func(c *runCfg) { c.echo = false }
}

// WithPages 限制续页次数，只需要开头几页时避免刷完全部输出
func WithPages(n int) RunOption {
	return func(c *runCfg) { c.pages = n }
}

// WithTimeout 覆盖单步超时
func WithTimeout(d time.Duration) RunOption {
	return func(c *runCfg) { c.timeout = d }
}

// WithPrompt 覆盖提示符模式
func WithPrompt(re *regexp.Regexp) RunOption {
	return func(c *runCfg) { c.prompt = re }
}

// WithMore 覆盖翻页模式，nil表示本次不翻页
func WithMore(re *regexp.Regexp) RunOption {
	return func(c *runCfg) { c.more = re }
}

// WithLineSep 覆盖行结束符，个别固件只认\r\n
func WithLineSep(sep string) RunOption {
	return func(c *runCfg) { c.lineSep = sep }
}

// WithContinueKey 覆盖本次执行的续页键
func WithContinueKey(key string) RunOption {
	return func(c *runCfg) { c.contKey = key }
}

// Run 执行一条命令并返回拼好的完整输出。
// 翻页途中超时不算错误：告警后返回已经拿到的部分。
// 流断掉才返回错误，此时输出参数里还是带着已收的内容
func (e *Executor) Run(command string, opts ...RunOption) (string, error) {
	cfg := runCfg{
		prompt:  e.prompt,
		more:    e.more,
		echo:    true,
		pages:   -1,
		timeout: e.timeout,
		contKey: e.contKey,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var err error
	if cfg.lineSep != "" {
		err = e.sess.Send(command + cfg.lineSep)
	} else {
		err = e.sess.SendLine(command)
	}
	if err != nil {
		return "", err
	}

	log := logger.WithDevice(e.sess.Host())

	if cfg.echo {
		tail := command
		if len(tail) > echoTailLen {
			tail = tail[len(tail)-echoTailLen:]
		}
		echoRe := regexp.MustCompile(regexp.QuoteMeta(tail))
		if _, eerr := e.sess.Expect(cfg.timeout, echoRe); eerr != nil {
			if errors.Is(eerr, expect.ErrClosed) {
				return "", eerr
			}
			log.Debugf("no echo for %q within %s", command, cfg.timeout)
		}
	}

	if cfg.before != nil {
		if _, berr := e.sess.Expect(cfg.timeout, cfg.before); berr != nil {
			if errors.Is(berr, expect.ErrClosed) {
				return "", berr
			}
			log.Debugf("before-anchor %q not seen for %q", cfg.before.String(), command)
		}
	}

	patterns := []*regexp.Regexp{cfg.prompt}
	if cfg.more != nil {
		patterns = append(patterns, cfg.more)
	}

	var out strings.Builder
	pages := cfg.pages
	for {
		m, merr := e.sess.Expect(cfg.timeout, patterns...)
		out.WriteString(m.Before)
		if merr != nil {
			if errors.Is(merr, expect.ErrTimeout) {
				log.Warnf("command %q timed out, returning partial output", command)
				if cfg.more != nil {
					e.abortPaging(&cfg)
				}
				break
			}
			return out.String(), merr
		}
		if m.Index == 0 {
			break
		}
		// 翻页横幅
		if pages == 0 {
			e.abortPaging(&cfg)
			break
		}
		if pages > 0 {
			pages--
		}
		if serr := e.sess.Send(cfg.contKey); serr != nil {
			return out.String(), serr
		}
		out.WriteString("\n")
	}

	logger.DebugCommandOutput(command, out.String(), 5)
	return out.String(), nil
}

// abortPaging 中途不再翻页时设备还停在横幅上等键，发Ctrl+C打断并
// 消费到提示符，否则下一条命令的首字节会被当成续页键吃掉
func (e *Executor) abortPaging(cfg *runCfg) {
	if err := e.sess.Send("\x03"); err != nil {
		return
	}
	_, _ = e.sess.Expect(cfg.timeout, cfg.prompt)
}
