package connect

import (
	"context"
	"errors"
	"io"
	"net"
	"regexp"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/devaccesspro/devaccesspro/pkg/expect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// 老旧设备还在用的算法全集。override只从这里挑，保证不会把底层库
// 不认识的名字写进配置
var (
	legacyKexAlgos = []string{
		"curve25519-sha256",
		"curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256",
		"ecdh-sha2-nistp384",
		"ecdh-sha2-nistp521",
		"diffie-hellman-group-exchange-sha256",
		"diffie-hellman-group16-sha512",
		"diffie-hellman-group14-sha256",
		"diffie-hellman-group14-sha1",
		"diffie-hellman-group-exchange-sha1",
		"diffie-hellman-group1-sha1",
	}
	legacyCiphers = []string{
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
		"chacha20-poly1305@openssh.com",
		"aes128-cbc", "aes192-cbc", "aes256-cbc",
		"3des-cbc",
	}
	legacyHostKeyAlgos = []string{
		"ssh-ed25519",
		"ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521",
		"rsa-sha2-512", "rsa-sha2-256",
		"ssh-rsa", "ssh-dss",
	}
	legacyMACs = []string{
		"hmac-sha2-256-etm@openssh.com",
		"hmac-sha2-256",
		"hmac-sha1",
		"hmac-sha1-96",
	}
)

// 认证成功后走banner用的模式
var (
	sshPromptRe   = regexp.MustCompile(`[#>\]]\s*$`)
	sshSendNRe    = regexp.MustCompile(`The password needs to be changed|Do you want to see the software license`)
	sshPressAnyRe = regexp.MustCompile(`[Pp]ress any key`)
	sshPasswordRe = regexp.MustCompile(`[Pp]ass.*:\s*$`)
)

// handshake失败文本里带着对端公布的算法表
var offerRe = regexp.MustCompile(`no common algorithm for ([^;]+); client offered: \[[^\]]*\], server offered: \[([^\]]*)\]`)

// negotiateSSH 依次尝试凭据；每个凭据内部自动消化算法重协商。
// 认证被拒→下一组凭据；网络或流死亡→ConnError；全部被拒→LoginError
func negotiateSSH(ctx context.Context, cfg *TransportConfig, creds Credentials) (*expect.Session, error) {
	accounts := creds.tryOrder()
	log := logger.WithDevice(cfg.Host)

	for _, acc := range accounts {
		sess, err := dialSSH(ctx, cfg, acc)
		if err != nil {
			if isAuthFailure(err) {
				log.Debugf("ssh auth rejected for %q, trying next credentials", acc.Login)
				continue
			}
			return nil, err
		}
		if err := walkLoginBanner(sess, cfg, acc); err != nil {
			_ = sess.Close()
			return nil, err
		}
		log.Infof("ssh session established as %q", acc.Login)
		return sess, nil
	}
	return nil, &LoginError{Host: cfg.Host, Tried: len(accounts)}
}

// dialSSH 发起一次连接。对端拒绝算法时从错误文本里提取它公布的列表，
// 写入override后重拨。override累积：先解决的kex在后续cipher重拨时保留。
// 三类算法各最多触发一次重拨，循环必然有界
func dialSSH(ctx context.Context, cfg *TransportConfig, acc Account) (*expect.Session, error) {
	log := logger.WithDevice(cfg.Host)

	for attempt := 0; attempt < 4; attempt++ {
		netConn, err := (&net.Dialer{Timeout: cfg.DialTimeout}).DialContext(ctx, "tcp", cfg.addr())
		if err != nil {
			return nil, &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "dial failed", Err: err}
		}

		clientConn, chans, reqs, err := ssh.NewClientConn(netConn, cfg.addr(), clientConfig(cfg, acc))
		if err != nil {
			_ = netConn.Close()
			if kind, offered, ok := parseOffer(err); ok {
				if !applyOverride(cfg, kind, offered) {
					return nil, &ConnError{Host: cfg.Host, Proto: ProtoSSH,
						Reason: "remote offers no expressible " + kind + " algorithm", Err: err}
				}
				log.Debugf("ssh %s renegotiation, server offered %v", kind, offered)
				continue
			}
			if isAuthFailure(err) {
				return nil, err
			}
			return nil, &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "handshake failed", Err: err}
		}

		client := ssh.NewClient(clientConn, chans, reqs)
		sess, err := openShell(ctx, cfg, client)
		if err != nil {
			_ = client.Close()
			return nil, &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "shell setup failed", Err: err}
		}
		return sess, nil
	}
	return nil, &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "algorithm renegotiation did not converge"}
}

// openShell 申请PTY和shell，把通道包成expect会话
func openShell(ctx context.Context, cfg *TransportConfig, client *ssh.Client) (*expect.Session, error) {
	sshSess, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	stdin, err := sshSess.StdinPipe()
	if err != nil {
		_ = sshSess.Close()
		return nil, err
	}
	stdout, err := sshSess.StdoutPipe()
	if err != nil {
		_ = sshSess.Close()
		return nil, err
	}
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	// 宽终端减少命令回显折行，翻页横幅照常出现
	if err := sshSess.RequestPty("xterm", 60, 200, modes); err != nil {
		_ = sshSess.Close()
		return nil, err
	}
	if err := sshSess.Shell(); err != nil {
		_ = sshSess.Close()
		return nil, err
	}
	closers := []io.Closer{sshSess, client}
	return expect.New(ctx, cfg.Host, stdout, stdin, closers, expect.WithLineSep("\n")), nil
}

// walkLoginBanner 认证已过，把banner走到第一个提示符：
// 改密/许可证提示答N，press any key发空格，二次口令提示发口令
func walkLoginBanner(sess *expect.Session, cfg *TransportConfig, acc Account) error {
	for step := 0; step < 8; step++ {
		m, err := sess.Expect(cfg.StepTimeout, sshPromptRe, sshSendNRe, sshPressAnyRe, sshPasswordRe)
		if err != nil {
			if errors.Is(err, expect.ErrTimeout) {
				return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "no shell prompt after login"}
			}
			return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "stream closed before shell prompt"}
		}
		switch m.Index {
		case 0:
			return nil
		case 1:
			if err := sess.Send("N\r"); err != nil {
				return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "send failed", Err: err}
			}
		case 2:
			if err := sess.Send(" "); err != nil {
				return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "send failed", Err: err}
			}
		case 3:
			if err := sess.SendLine(acc.Password); err != nil {
				return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "send failed", Err: err}
			}
		}
	}
	return &ConnError{Host: cfg.Host, Proto: ProtoSSH, Reason: "login banner did not settle"}
}

func clientConfig(cfg *TransportConfig, acc Account) *ssh.ClientConfig {
	cc := &ssh.ClientConfig{
		User: acc.Login,
		Auth: []ssh.AuthMethod{
			ssh.Password(acc.Password),
			// 一些固件只开keyboard-interactive，把所有问题都答成口令
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = acc.Password
				}
				return answers, nil
			}),
		},
		// 机房旧设备的host key没有可信锚点，按运维现实全部放行
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.DialTimeout,
	}
	cc.MACs = legacyMACs
	if len(cfg.KexAlgorithms) > 0 {
		cc.KeyExchanges = cfg.KexAlgorithms
	}
	if len(cfg.Ciphers) > 0 {
		cc.Ciphers = cfg.Ciphers
	}
	if len(cfg.HostKeyAlgorithms) > 0 {
		cc.HostKeyAlgorithms = cfg.HostKeyAlgorithms
	}
	return cc
}

// parseOffer 从握手错误里取出不匹配的算法类别和对端公布的列表
func parseOffer(err error) (kind string, offered []string, ok bool) {
	if err == nil {
		return "", nil, false
	}
	m := offerRe.FindStringSubmatch(err.Error())
	if m == nil {
		return "", nil, false
	}
	what := m[1]
	switch {
	case strings.Contains(what, "key exchange"):
		kind = "kex"
	case strings.Contains(what, "host key"):
		kind = "host key"
	case strings.Contains(what, "cipher"):
		kind = "cipher"
	default:
		return "", nil, false
	}
	offered = strings.Fields(m[2])
	return kind, offered, len(offered) > 0
}

// applyOverride 把对端公布的列表写进配置。kex和host key保留对端给出的
// 顺序；cipher按现场经验取最后一个。重复写同一类别说明重拨没有进展，
// 返回false终止
func applyOverride(cfg *TransportConfig, kind string, offered []string) bool {
	switch kind {
	case "kex":
		if len(cfg.KexAlgorithms) > 0 {
			return false
		}
		cfg.KexAlgorithms = intersectKnown(offered, legacyKexAlgos)
		return len(cfg.KexAlgorithms) > 0
	case "host key":
		if len(cfg.HostKeyAlgorithms) > 0 {
			return false
		}
		cfg.HostKeyAlgorithms = intersectKnown(offered, legacyHostKeyAlgos)
		return len(cfg.HostKeyAlgorithms) > 0
	case "cipher":
		if len(cfg.Ciphers) > 0 {
			return false
		}
		known := intersectKnown(offered, legacyCiphers)
		if len(known) == 0 {
			return false
		}
		cfg.Ciphers = known[len(known)-1:]
		return true
	}
	return false
}

// intersectKnown 按offered顺序过滤出库支持的算法名
func intersectKnown(offered, known []string) []string {
	set := make(map[string]struct{}, len(known))
	for _, k := range known {
		set[k] = struct{}{}
	}
	var out []string
	for _, o := range offered {
		if _, ok := set[o]; ok {
			out = append(out, o)
		}
	}
	return out
}

func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain")
}
