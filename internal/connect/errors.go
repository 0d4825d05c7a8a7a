package connect

import "fmt"

// ConnError 传输层失败：端口不可达、握手失败、登录完成前被断开。
// 对调用方而言设备当前不可用，换凭据重试没有意义
type ConnError struct {
	Host   string
	Proto  string
	Reason string
	Err    error
}

func (e *ConnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s transport to %s unavailable: %s: %v", e.Proto, e.Host, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s transport to %s unavailable: %s", e.Proto, e.Host, e.Reason)
}

func (e *ConnError) Unwrap() error { return e.Err }

// LoginError 所有凭据对都被设备拒绝
type LoginError struct {
	Host  string
	Tried int
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("device %s rejected all %d credential pairs", e.Host, e.Tried)
}
