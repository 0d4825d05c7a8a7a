package connect

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/devaccesspro/devaccesspro/pkg/expect"
)

// 支持的接入协议
const (
	ProtoSSH    = "ssh"
	ProtoTelnet = "telnet"
)

// Account 一组登录凭据
type Account struct {
	Login    string `yaml:"login" mapstructure:"login"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Credentials 按顺序尝试的凭据集。设备上到底存着哪套口令事先不知道，
// 所以允许多组，第一组能到提示符的胜出。Secret是特权模式口令，空表示没有
type Credentials struct {
	Accounts []Account `yaml:"accounts" mapstructure:"accounts"`
	Secret   string    `yaml:"secret" mapstructure:"secret"`
}

// tryOrder 返回SSH的实际尝试顺序：调用方给的凭据 + 兜底的admin/admin。
// telnet不走这里：一组错误凭据正好消耗一轮login/password，不追加兜底
func (c Credentials) tryOrder() []Account {
	out := make([]Account, 0, len(c.Accounts)+1)
	out = append(out, c.Accounts...)
	out = append(out, Account{Login: "admin", Password: "admin"})
	return out
}

// TransportConfig 一次连接尝试的传输参数。算法override只由SSH协商器
// 在对端拒绝时写入，累积不清零
type TransportConfig struct {
	Protocol string
	Host     string
	Port     int

	KexAlgorithms     []string
	HostKeyAlgorithms []string
	Ciphers           []string

	DialTimeout   time.Duration // 拨号超时
	StepTimeout   time.Duration // 登录阶段单次expect超时
	RadiusRetries int           // radius闪断时同一凭据的重试上限
}

func (c *TransportConfig) withDefaults() {
	if c.Protocol == "" {
		c.Protocol = ProtoSSH
	}
	if c.Port == 0 {
		if c.Protocol == ProtoTelnet {
			c.Port = 23
		} else {
			c.Port = 22
		}
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.StepTimeout <= 0 {
		c.StepTimeout = 10 * time.Second
	}
	if c.RadiusRetries <= 0 {
		c.RadiusRetries = 3
	}
}

func (c *TransportConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Open 建立并认证一个交互会话。失败时返回*ConnError或*LoginError，
// 已经打开的半成品流在所有错误路径上都会被关掉
func Open(ctx context.Context, cfg *TransportConfig, creds Credentials) (*expect.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg.withDefaults()
	if len(creds.Accounts) == 0 {
		return nil, fmt.Errorf("credentials for %s are empty", cfg.Host)
	}
	switch cfg.Protocol {
	case ProtoTelnet:
		return negotiateTelnet(ctx, cfg, creds)
	case ProtoSSH:
		return negotiateSSH(ctx, cfg, creds)
	default:
		return nil, fmt.Errorf("unknown protocol %q for %s", cfg.Protocol, cfg.Host)
	}
}
