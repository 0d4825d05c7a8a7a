package collect

import "sync"

var (
	registryMu sync.RWMutex
	registry   = map[string]Plugin{
		"default": &DefaultPlugin{},
	}
)

// Register 注册解析插件，平台包在init里调用
func Register(name string, plugin Plugin) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = plugin
}

// Get 获取指定平台的解析插件
func Get(name string) Plugin {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := registry[name]; ok {
		return p
	}
	return registry["default"]
}

// Parse 按上下文分发到对应平台插件
func Parse(ctx ParseContext, raw string) Rows {
	return Get(ctx.Platform).Parse(ctx, raw)
}
