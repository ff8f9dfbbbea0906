package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// OrganizationHandler 组织模块 HTTP 处理器
type OrganizationHandler struct {
	orgSvc service.OrganizationService
}

// NewOrganizationHandler 创建 OrganizationHandler
func NewOrganizationHandler(orgSvc service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgSvc: orgSvc}
}

// ListOrganizations 获取组织列表
// GET /api/v1/organizations
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	var req dto.OrganizationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	orgs, err := h.orgSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": orgs})
}

// GetOrganization 获取组织详情
// GET /api/v1/organizations/:id
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	id, ok := requireParam(c, "id", "组织ID不能为空")
	if !ok {
		return
	}

	org, err := h.orgSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleOrganizationError(c, err)
		return
	}

	response.OK(c, org)
}

// CreateOrganization 创建组织
// POST /api/v1/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	org, err := h.orgSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleOrganizationError(c, err)
		return
	}

	response.Created(c, org)
}

// UpdateOrganization 更新组织
// PUT /api/v1/organizations/:id
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	id, ok := requireParam(c, "id", "组织ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	org, err := h.orgSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleOrganizationError(c, err)
		return
	}

	response.OK(c, org)
}

// handleOrganizationError 统一处理组织模块业务错误
func (h *OrganizationHandler) handleOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrganizationNotFound):
		response.NotFound(c, 14001, "组织不存在")
	case errors.Is(err, service.ErrOrganizationCodeExists):
		response.BadRequest(c, 14002, "组织编码已存在")
	case errors.Is(err, service.ErrInvalidTimezone):
		response.BadRequest(c, 14004, "时区无效")
	default:
		response.InternalError(c)
	}
}
