package dto

// ── 部门模块 DTO ──

// CreateGroupRequest 创建部门请求
type CreateGroupRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	Name           string `json:"name"            binding:"required,min=2,max=50"`
	Description    string `json:"description"     binding:"omitempty,max=200"`
}

// UpdateGroupRequest 更新部门请求，version 用于乐观锁
type UpdateGroupRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
	Version     int     `json:"version"     binding:"required,min=1"`
}

// GroupListRequest 部门列表查询参数
type GroupListRequest struct {
	OrganizationID  string `form:"organization_id"  binding:"required"`
	IncludeInactive bool   `form:"include_inactive"`
}

// GroupDetailResponse 部门详细信息响应
type GroupDetailResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	IsActive       bool   `json:"is_active"`
	MemberCount    int64  `json:"member_count"`
	Version        int    `json:"version"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
