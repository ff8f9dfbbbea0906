package dto

// ── 请假模块 DTO ──

// SubmitLeaveRequest 提交请假申请
type SubmitLeaveRequest struct {
	MemberID  string `json:"member_id"  binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick personal other"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"     binding:"omitempty,max=500"`
}

// ReviewLeaveRequest 审批请假申请
type ReviewLeaveRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// LeaveListRequest 请假列表查询参数
type LeaveListRequest struct {
	PaginationRequest
	OrganizationID string `form:"organization_id" binding:"required"`
	MemberID       string `form:"member_id"`
	Status         string `form:"status"          binding:"omitempty,oneof=pending approved rejected cancelled"`
}

// LeaveResponse 请假申请响应
type LeaveResponse struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Days       int    `json:"days"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewed_by,omitempty"`
	ReviewedAt string `json:"reviewed_at,omitempty"`
	ReviewNote string `json:"review_note,omitempty"`
}
