package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// MemberHandler 成员模块 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// ListMembers 获取成员列表（分页）
// GET /api/v1/members?organization_id=xxx&group_id=xxx&keyword=xxx
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetMember 获取成员详情
// GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := requireParam(c, "id", "成员ID不能为空")
	if !ok {
		return
	}

	member, err := h.memberSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// CreateMember 创建成员
// POST /api/v1/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// UpdateMember 更新成员
// PUT /api/v1/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := requireParam(c, "id", "成员ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// DeactivateMember 停用成员（不物理删除，历史考勤仍参与统计）
// POST /api/v1/members/:id/deactivate
func (h *MemberHandler) DeactivateMember(c *gin.Context) {
	id, ok := requireParam(c, "id", "成员ID不能为空")
	if !ok {
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	if err := h.memberSvc.Deactivate(c.Request.Context(), id, callerID); err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleMemberError 统一处理成员模块业务错误
func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 15001, "成员不存在")
	case errors.Is(err, service.ErrMemberInactive):
		response.BadRequest(c, 15002, "成员已停用")
	case errors.Is(err, service.ErrEmployeeCodeExists):
		response.BadRequest(c, 15003, "工号已存在")
	case errors.Is(err, service.ErrInvalidJoinedAt):
		response.BadRequest(c, 15004, "入职日期格式错误")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrGroupInactive):
		response.BadRequest(c, 13004, "部门已停用")
	case errors.Is(err, service.ErrGroupOrgMismatch):
		response.BadRequest(c, 13005, "部门不属于该组织")
	case errors.Is(err, service.ErrOrganizationNotFound):
		response.NotFound(c, 14001, "组织不存在")
	case errors.Is(err, service.ErrOrganizationInactive):
		response.BadRequest(c, 14003, "组织已停用")
	default:
		response.InternalError(c)
	}
}
