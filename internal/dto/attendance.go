package dto

// ── 考勤模块 DTO ──

// RecordAttendanceRequest 手工登记考勤请求
// status 不限定取值，未知状态在统计中归入 others
type RecordAttendanceRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Date     string `json:"date"      binding:"required,datetime=2006-01-02"`
	Status   string `json:"status"    binding:"required,max=20"`
	Note     string `json:"note"      binding:"omitempty,max=500"`
}

// CheckInRequest 签到请求
type CheckInRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Note     string `json:"note"      binding:"omitempty,max=500"`
}

// CheckOutRequest 签退请求；early=true 表示提前离开（记为 go_home）
type CheckOutRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Early    bool   `json:"early"`
}

// AttendanceListRequest 考勤记录列表查询参数
type AttendanceListRequest struct {
	PaginationRequest
	OrganizationID string `form:"organization_id" binding:"required"`
	MemberID       string `form:"member_id"`
	GroupID        string `form:"group_id"`
	Status         string `form:"status"          binding:"omitempty,max=20"`
	From           string `form:"from"            binding:"omitempty,datetime=2006-01-02"`
	To             string `form:"to"              binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	CheckInAt  string `json:"check_in_at,omitempty"`
	CheckOutAt string `json:"check_out_at,omitempty"`
	Note       string `json:"note,omitempty"`
	Source     string `json:"source"`
}
