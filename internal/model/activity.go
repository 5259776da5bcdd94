package model

// 活动持久化状态（展示状态由时间推导，不落库）
const (
	ActivityStatusPending   = "pending"   // 待审核
	ActivityStatusApproved  = "approved"  // 审核通过
	ActivityStatusRejected  = "rejected"  // 审核拒绝
	ActivityStatusCompleted = "completed" // 已完成（结算后写入）

	ActivityStatusUpcoming = "upcoming" // 推导状态：未开始
	ActivityStatusOngoing  = "ongoing"  // 推导状态：进行中
)

type Activity struct {
	Model
	Title           string `gorm:"type:varchar(100);not null" json:"title"`                  // 活动名称
	Description     string `gorm:"type:varchar(255);" json:"description"`                    // 活动描述
	ClubID          uint   `gorm:"index;not null" json:"club_id"`                            // 所属社团ID
	Location        string `gorm:"type:varchar(100);" json:"location"`                       // 活动地点
	StartTime       int64  `gorm:"not null" json:"start_time"`                               // 活动开始时间（Unix 秒）
	EndTime         int64  `gorm:"not null" json:"end_time"`                                 // 活动结束时间（Unix 秒）
	Points          int    `gorm:"default:0;not null" json:"points"`                         // 完成活动可获得的积分
	MaxParticipants int    `gorm:"default:100;not null" json:"max_participants"`             // 最大参与人数
	Status          string `gorm:"type:varchar(20);default:pending;not null" json:"status"`  // 持久化生命周期状态
	ImageURL        string `gorm:"type:varchar(255);" json:"image_url"`                      // 活动封面URL
	Feedback        string `gorm:"type:varchar(255);" json:"feedback"`                       // 审核反馈（拒绝时填写）
	Club            Club   `gorm:"foreignKey:ClubID" json:"club"`                            // 关联到社团
}
