package model

import "time"

// 报名记录状态
const (
	RegistrationStatusRegistered   = "registered"   // 已报名
	RegistrationStatusParticipated = "participated" // 已签到参与
	RegistrationStatusCompleted    = "completed"    // 已完成并结算积分
)

// Registration 用户与活动的报名记录，(user_id, activity_id) 全局唯一。
// 不使用软删除：取消报名必须真正释放唯一索引，用户才能再次报名。
type Registration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `gorm:"uniqueIndex:idx_user_activity;not null" json:"user_id"`
	ActivityID   uint      `gorm:"uniqueIndex:idx_user_activity;not null" json:"activity_id"`
	Status       string    `gorm:"type:varchar(20);default:registered;not null" json:"status"`
	EarnedPoints int       `gorm:"default:0;not null" json:"earned_points"` // 结算时按活动积分写入
	User         User      `gorm:"foreignKey:UserID" json:"user"`
}
