package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type echoPlugin struct{}

func (p *echoPlugin) Name() string { return "echo" }

func (p *echoPlugin) Parse(ctx ParseContext, raw string) Rows {
	return Rows{Interfaces: []InterfaceRow{{Name: raw}}}
}

// TestRegistryDispatch 注册的平台走自己的插件，未注册平台落到default返回零值
func TestRegistryDispatch(t *testing.T) {
	Register("echo_test", &echoPlugin{})

	rows := Parse(ParseContext{Platform: "echo_test", Command: "any"}, "gi0/1")
	assert.Equal(t, []InterfaceRow{{Name: "gi0/1"}}, rows.Interfaces)

	rows = Parse(ParseContext{Platform: "no_such_platform", Command: "any"}, "gi0/1")
	assert.Empty(t, rows.Interfaces)
	assert.Empty(t, rows.Macs)
	assert.Empty(t, rows.VlanIDs)
}
