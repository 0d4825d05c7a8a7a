package collect

// DefaultPlugin 兜底解析插件：不认识任何命令，返回空结果
type DefaultPlugin struct{}

func (p *DefaultPlugin) Name() string { return "default" }

func (p *DefaultPlugin) Parse(ctx ParseContext, raw string) Rows {
	return Rows{}
}
