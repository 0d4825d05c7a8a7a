package collect

// ParseContext 解析上下文：平台键 + 产生原始输出的命令 + 相关端口（可为空）
type ParseContext struct {
	Platform string
	Command  string
	Port     string
}

// InterfaceRow 一个物理端口的概要行
type InterfaceRow struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // up / down / admin down / ...
	Description string `json:"description"`
}

// VlanRow 端口概要行附带展开后的VLAN编号列表
type VlanRow struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Vlans       []int  `json:"vlans"`
}

// MacRow MAC表里的一条 (VLAN, MAC) 记录
type MacRow struct {
	VlanID int    `json:"vlan_id"`
	MAC    string `json:"mac"`
}

// Rows 一次解析的结构化结果。不同命令只会填充其中一类字段
type Rows struct {
	Interfaces []InterfaceRow `json:"interfaces,omitempty"`
	Macs       []MacRow       `json:"macs,omitempty"`
	VlanIDs    []int          `json:"vlan_ids,omitempty"`
}

// Plugin 结构化解析插件接口。按(平台,命令)把厂商原始文本拆成结构化行，
// 新平台只加插件不动协商和翻页逻辑
type Plugin interface {
	Name() string
	// Parse 识别不了的命令返回零值Rows，不报错
	Parse(ctx ParseContext, raw string) Rows
}
