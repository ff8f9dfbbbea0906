package dto

// ── 组织模块 DTO ──

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Code     string `json:"code"     binding:"required,min=2,max=30,alphanum"`
	Timezone string `json:"timezone" binding:"omitempty,max=50"`
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Timezone *string `json:"timezone"  binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
}

// OrganizationListRequest 组织列表查询参数
type OrganizationListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// OrganizationResponse 组织信息响应
type OrganizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Timezone  string `json:"timezone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
