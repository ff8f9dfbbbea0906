package dto

// ── 报表模块 DTO ──

// GroupAttendanceSummary 单个部门的考勤汇总
type GroupAttendanceSummary struct {
	Group   string `json:"group"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
	Excused int    `json:"excused"`
	Others  int    `json:"others"`
	Total   int    `json:"total"`
}

// GroupAttendanceResult 按部门统计考勤的结果
// 查询失败时 Success=false 且 Data 为空列表，不返回部分结果
type GroupAttendanceResult struct {
	Success bool                     `json:"success"`
	Data    []GroupAttendanceSummary `json:"data"`
}

// MemberPerformanceRequest 成员出勤表现查询参数
type MemberPerformanceRequest struct {
	OrganizationID string `form:"organization_id" binding:"required"`
	From           string `form:"from"            binding:"omitempty,datetime=2006-01-02"`
	To             string `form:"to"              binding:"omitempty,datetime=2006-01-02"`
}

// MemberPerformance 单个成员的出勤表现
type MemberPerformance struct {
	MemberID       string  `json:"member_id"`
	FullName       string  `json:"full_name"`
	Group          string  `json:"group,omitempty"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	Excused        int     `json:"excused"`
	Others         int     `json:"others"`
	Total          int     `json:"total"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// DashboardRequest 仪表盘查询参数
type DashboardRequest struct {
	OrganizationID string `form:"organization_id" binding:"required"`
	Date           string `form:"date"            binding:"omitempty,datetime=2006-01-02"`
}

// DashboardSummary 仪表盘汇总
type DashboardSummary struct {
	OrganizationID string `json:"organization_id"`
	Date           string `json:"date"`
	ActiveMembers  int64  `json:"active_members"`
	ActiveGroups   int    `json:"active_groups"`
	Present        int64  `json:"present"`
	Late           int64  `json:"late"`
	Absent         int64  `json:"absent"`
	Excused        int64  `json:"excused"`
	Others         int64  `json:"others"`
	NotRecorded    int64  `json:"not_recorded"`
	PendingLeaves  int64  `json:"pending_leaves"`
}
