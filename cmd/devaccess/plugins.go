package main

// 引入厂商驱动与解析插件，触发各平台的 init() 完成注册
import (
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/cisco_ios"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/dlink_des"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/eltex_mes"
	_ "github.com/devaccesspro/devaccesspro/addone/collect/platforms/huawei_s"

	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/cisco_ios"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/dlink_des"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/eltex_mes"
	_ "github.com/devaccesspro/devaccesspro/addone/driver/platforms/huawei_s"
)
