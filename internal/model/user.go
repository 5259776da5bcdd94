package model

// 角色等级，中间件按最小角色等级放行
const (
	RoleStudent   = 0 // 学生
	RoleClubAdmin = 1 // 社团管理员
	RoleAdmin     = 2 // 系统管理员
)

// RoleName 返回角色的展示名称
func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleClubAdmin:
		return "club_admin"
	default:
		return "student"
	}
}

type User struct {
	Model
	Username string `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"`
	Points   int    `gorm:"default:0;not null" json:"points"` // 积分余额，仅由结算或管理员调整变更
	Avatar   string `gorm:"type:varchar(255);" json:"avatar"`
}
