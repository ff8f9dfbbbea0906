package model

import (
	"time"

	"gorm.io/gorm"
)

// 请假状态
const (
	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// LeaveRequest 请假申请表，对应 leave_requests
type LeaveRequest struct {
	LeaveRequestID string     `gorm:"type:uuid;primaryKey"                        json:"leave_request_id"`
	OrganizationID string     `gorm:"type:uuid;not null;index"                    json:"organization_id"`
	MemberID       string     `gorm:"type:uuid;not null;index"                    json:"member_id"`
	LeaveType      string     `gorm:"type:varchar(30);not null"                   json:"leave_type"` // annual | sick | personal | other
	StartDate      time.Time  `gorm:"type:date;not null"                          json:"start_date"`
	EndDate        time.Time  `gorm:"type:date;not null"                          json:"end_date"`
	Reason         string     `gorm:"type:text"                                   json:"reason,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewedBy     *string    `gorm:"type:uuid"                                   json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote     string     `gorm:"type:text"                                   json:"review_note,omitempty"`
	BaseModel

	// 关联
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }

// BeforeCreate 生成主键
func (l *LeaveRequest) BeforeCreate(_ *gorm.DB) error {
	newID(&l.LeaveRequestID)
	return nil
}

// SpanDays 请假跨越的自然日天数（含首尾），按秒差计算，不随跨度分配内存
func (l *LeaveRequest) SpanDays() int64 {
	start := DateOnly(l.StartDate).Unix()
	end := DateOnly(l.EndDate).Unix()
	if end < start {
		return 0
	}
	return (end-start)/secondsPerDay + 1
}

const secondsPerDay = 24 * 60 * 60

// Days 请假跨越的自然日（含首尾）
// 仅对已通过 SpanDays 上限校验的申请调用
func (l *LeaveRequest) Days() []time.Time {
	start := DateOnly(l.StartDate)
	end := DateOnly(l.EndDate)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
