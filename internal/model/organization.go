package model

import "gorm.io/gorm"

// Organization 组织（租户）表，对应 organizations
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey"                             json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                       json:"name"`
	Code           string `gorm:"type:varchar(30);not null;uniqueIndex"            json:"code"`
	Timezone       string `gorm:"type:varchar(50);not null;default:'Asia/Jakarta'" json:"timezone"`
	IsActive       bool   `gorm:"not null;default:true"                            json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// BeforeCreate 生成主键
func (o *Organization) BeforeCreate(_ *gorm.DB) error {
	newID(&o.OrganizationID)
	return nil
}
