package dto

// ── 成员模块 DTO ──

// CreateMemberRequest 创建成员请求
type CreateMemberRequest struct {
	OrganizationID string  `json:"organization_id" binding:"required"`
	GroupID        *string `json:"group_id"`
	FullName       string  `json:"full_name"       binding:"required,min=2,max=100"`
	Email          string  `json:"email"           binding:"omitempty,email"`
	EmployeeCode   string  `json:"employee_code"   binding:"required,max=30"`
	Role           string  `json:"role"            binding:"omitempty,oneof=owner admin manager member"`
	JoinedAt       string  `json:"joined_at"       binding:"omitempty,datetime=2006-01-02"`
}

// UpdateMemberRequest 更新成员请求
// group_id 传空字符串表示移出部门
type UpdateMemberRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	GroupID  *string `json:"group_id"`
	Role     *string `json:"role"      binding:"omitempty,oneof=owner admin manager member"`
}

// MemberListRequest 成员列表查询参数
type MemberListRequest struct {
	PaginationRequest
	OrganizationID  string `form:"organization_id"  binding:"required"`
	GroupID         string `form:"group_id"`
	Keyword         string `form:"keyword"          binding:"omitempty,max=50"`
	IncludeInactive bool   `form:"include_inactive"`
}

// MemberResponse 成员信息响应
type MemberResponse struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	FullName       string      `json:"full_name"`
	Email          string      `json:"email,omitempty"`
	EmployeeCode   string      `json:"employee_code"`
	Role           string      `json:"role"`
	IsActive       bool        `json:"is_active"`
	JoinedAt       string      `json:"joined_at"`
	Group          *GroupBrief `json:"group,omitempty"`
}
