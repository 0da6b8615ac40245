package models

// Server is read-only reference data. Rows are seeded at boot and never
// created through the API.
type Server struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Region string `json:"region" gorm:"size:50"`
}

// DefaultServers is the production server list, in seed order (IDs start at 1).
var DefaultServers = []string{
	"艾欧尼亚", "祖安", "诺克萨斯", "班德尔城", "皮尔特沃夫",
	"战争学院", "巨神峰", "雷瑟守备", "裁决之地", "黑色玫瑰",
	"暗影岛", "钢铁烈阳", "水晶之痕", "均衡教派", "影流",
	"守望之海", "征服之海", "卡拉曼达", "皮城警备", "比尔吉沃特",
	"德玛西亚", "弗雷尔卓德", "无畏先锋", "恕瑞玛", "扭曲丛林",
	"巨龙之巢", "教育网专区", "男爵领域", "峡谷之巅", "体验服",
}

const DefaultServerRegion = "中国"
