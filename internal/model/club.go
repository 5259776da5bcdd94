package model

type Club struct {
	Model
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 社团名称
	Description string `gorm:"type:varchar(255);" json:"description"`              // 社团简介
	Logo        string `gorm:"type:varchar(255);" json:"logo"`                     // 社团Logo URL
	AdminID     uint   `gorm:"index;not null" json:"admin_id"`                     // 社团管理员用户ID
}
