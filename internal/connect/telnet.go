package connect

import (
	"context"
	"errors"
	"io"
	"regexp"

	"github.com/ziutek/telnet"

	"github.com/devaccesspro/devaccesspro/pkg/expect"
	"github.com/devaccesspro/devaccesspro/pkg/logger"
)

// telnet登录阶段的模式表。登录提示那条重写成了不带lookahead的形式：
// 允许"Login:"、"Vlan login:"这类提示，排除"Login incorrect"、
// "login-timeout"、"user profile/list/file"这类普通文本
var (
	telnetLoginRe = regexp.MustCompile(
		`[Ll]ogin:\s*$|[Ll]ogin[^-\siT:][^\n]*:\s*$|[Uu]ser\s*:\s*$|[Uu]ser\s[^lfp\n][^\n]*:\s*$|[Nn]ame[^\n]*:\s*$`)
	telnetPasswordRe = regexp.MustCompile(`[Pp]ass[^\n]*:\s*$`)
	telnetPromptRe   = regexp.MustCompile(`[#>\]]\s*$`)
	telnetRefusedRe  = regexp.MustCompile(`Connection closed|Unable to connect`)
	telnetAnyKeyRe   = regexp.MustCompile(`Press any key to continue`)
	telnetRadiusRe   = regexp.MustCompile(`Timeout or some unexpected error happened on server host`)
	telnetSendNRe    = regexp.MustCompile(`The password needs to be changed|Do you want to see the software license`)
)

// negotiateTelnet 拨号后按凭据顺序走登录状态机。
// 同一attempt里第二次出现登录提示视为该凭据被拒，换下一组；
// radius闪断重试同一凭据，超过上限同样换组；全部用尽返回LoginError
func negotiateTelnet(ctx context.Context, cfg *TransportConfig, creds Credentials) (*expect.Session, error) {
	conn, err := telnet.DialTimeout("tcp", cfg.addr(), cfg.DialTimeout)
	if err != nil {
		return nil, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "dial failed", Err: err}
	}
	conn.SetUnixWriteMode(true)

	sess := expect.New(ctx, cfg.Host, conn, conn, []io.Closer{conn}, expect.WithLineSep("\n"))
	log := logger.WithDevice(cfg.Host)

	// telnet按调用方给的顺序原样尝试，没有admin/admin兜底：
	// N组错误凭据对端正好看到N轮login/password
	accounts := creds.Accounts
	// 上一个凭据被拒时新的登录提示已经被消费掉了，
	// 下一个attempt直接发登录名，不再等提示
	pendingLogin := false

	for _, acc := range accounts {
		ok, err := telnetAttempt(sess, cfg, acc, &pendingLogin)
		if err != nil {
			_ = sess.Close()
			return nil, err
		}
		if ok {
			log.Infof("telnet session established as %q", acc.Login)
			return sess, nil
		}
		log.Debugf("telnet credentials %q rejected", acc.Login)
	}
	_ = sess.Close()
	return nil, &LoginError{Host: cfg.Host, Tried: len(accounts)}
}

// telnetAttempt 用一组凭据走一轮登录。返回(true,nil)=到达提示符，
// (false,nil)=该凭据被拒绝，error=终结性传输故障
func telnetAttempt(sess *expect.Session, cfg *TransportConfig, acc Account, pendingLogin *bool) (bool, error) {
	loginSent := 0
	radiusSeen := 0
	// press any key之后凭据是抢先发出去的，随后出现的一轮提示
	// 已经被应答，只消费不处理
	skipLogin, skipPass := 0, 0

	if *pendingLogin {
		*pendingLogin = false
		if err := sess.SendLine(acc.Login); err != nil {
			return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "send failed", Err: err}
		}
		loginSent = 1
	}

	for step := 0; step < 32; step++ {
		m, err := sess.Expect(cfg.StepTimeout,
			telnetLoginRe, telnetPasswordRe, telnetPromptRe, telnetRefusedRe,
			telnetAnyKeyRe, telnetRadiusRe, telnetSendNRe)
		if err != nil {
			if errors.Is(err, expect.ErrTimeout) {
				return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "login phase timed out"}
			}
			return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "stream closed during login"}
		}

		switch m.Index {
		case 0: // 登录提示
			if skipLogin > 0 {
				skipLogin--
				continue
			}
			if loginSent >= 1 {
				// 又回到登录提示：上一组口令不对
				*pendingLogin = true
				return false, nil
			}
			if err := sess.SendLine(acc.Login); err != nil {
				return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "send failed", Err: err}
			}
			loginSent++
		case 1: // 口令提示
			if skipPass > 0 {
				skipPass--
				continue
			}
			if err := sess.SendLine(acc.Password); err != nil {
				return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "send failed", Err: err}
			}
		case 2: // 命令提示符，登录成功
			return true, nil
		case 3: // 对端明确拒绝
			return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "remote refused: " + m.Text}
		case 4: // press any key横幅会吃掉下一轮提示，直接补发凭据
			if err := sess.Send(" "); err != nil {
				return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "send failed", Err: err}
			}
			_ = sess.SendLine(acc.Login)
			_ = sess.SendLine(acc.Password)
			loginSent++
			skipLogin, skipPass = 1, 1
		case 5: // radius闪断，重试同一组凭据
			radiusSeen++
			if radiusSeen > cfg.RadiusRetries {
				logger.WithDevice(cfg.Host).Warnf("radius timeout repeated %d times, giving up on %q", radiusSeen, acc.Login)
				return false, nil
			}
			loginSent = 0
		case 6: // 改密/许可证询问
			if err := sess.SendLine("N"); err != nil {
				return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "send failed", Err: err}
			}
		}
	}
	return false, &ConnError{Host: cfg.Host, Proto: ProtoTelnet, Reason: "login state machine exceeded step budget"}
}
