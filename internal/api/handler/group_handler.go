package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	pkgerrors "github.com/fachturrpl1/absensi-sub009/pkg/errors"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// GroupHandler 部门模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// ListGroups 获取部门列表
// GET /api/v1/groups?organization_id=xxx
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var req dto.GroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	groups, err := h.groupSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": groups})
}

// GetGroup 获取部门详情
// GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := requireParam(c, "id", "部门ID不能为空")
	if !ok {
		return
	}

	group, err := h.groupSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// CreateGroup 创建部门
// POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.Created(c, group)
}

// UpdateGroup 更新部门
// PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, ok := requireParam(c, "id", "部门ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	group, err := h.groupSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// DeleteGroup 删除部门
// DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := requireParam(c, "id", "部门ID不能为空")
	if !ok {
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleGroupError 统一处理部门模块业务错误
func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrGroupNameExists):
		response.BadRequest(c, 13002, "部门名称已存在")
	case errors.Is(err, service.ErrGroupHasMembers):
		response.BadRequest(c, 13003, "部门下存在在职成员，无法删除")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13006, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrOrganizationNotFound):
		response.NotFound(c, 14001, "组织不存在")
	case errors.Is(err, service.ErrOrganizationInactive):
		response.BadRequest(c, 14003, "组织已停用")
	default:
		response.InternalError(c)
	}
}
