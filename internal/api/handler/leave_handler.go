package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// SubmitLeave 提交请假申请
// POST /api/v1/leaves
func (h *LeaveHandler) SubmitLeave(c *gin.Context) {
	var req dto.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, leave)
}

// ListLeaves 请假申请列表（分页）
// GET /api/v1/leaves?organization_id=xxx&status=pending
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.leaveSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ApproveLeave 批准请假，同时生成 excused 考勤记录
// POST /api/v1/leaves/:id/approve
func (h *LeaveHandler) ApproveLeave(c *gin.Context) {
	h.review(c, h.leaveSvc.Approve)
}

// RejectLeave 驳回请假
// POST /api/v1/leaves/:id/reject
func (h *LeaveHandler) RejectLeave(c *gin.Context) {
	h.review(c, h.leaveSvc.Reject)
}

type reviewFunc func(ctx context.Context, id string, req *dto.ReviewLeaveRequest, callerID string) (*dto.LeaveResponse, error)

func (h *LeaveHandler) review(c *gin.Context, fn reviewFunc) {
	id, ok := requireParam(c, "id", "请假申请ID不能为空")
	if !ok {
		return
	}

	// 审批备注可选，允许空请求体
	var req dto.ReviewLeaveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	leave, err := fn(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// CancelLeave 撤销请假申请（仅待审批）
// POST /api/v1/leaves/:id/cancel
func (h *LeaveHandler) CancelLeave(c *gin.Context) {
	id, ok := requireParam(c, "id", "请假申请ID不能为空")
	if !ok {
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.Cancel(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// LeaveCalendar 已批准请假的 iCalendar 订阅源
// GET /api/v1/leaves/calendar.ics?organization_id=xxx
func (h *LeaveHandler) LeaveCalendar(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		response.BadRequest(c, 10001, "organization_id 不能为空")
		return
	}

	content, filename, err := h.leaveSvc.Calendar(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.NotFound(c, 14001, "组织不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "inline; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleLeaveError 统一处理请假模块业务错误
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 17001, "请假申请不存在")
	case errors.Is(err, service.ErrLeaveNotPending):
		response.BadRequest(c, 17002, "请假申请已处理，无法再次操作")
	case errors.Is(err, service.ErrLeaveInvalidRange):
		response.BadRequest(c, 17003, "请假起止日期无效")
	case errors.Is(err, service.ErrLeaveTooLong):
		response.BadRequest(c, 17004, "请假天数超过上限")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 15001, "成员不存在")
	case errors.Is(err, service.ErrMemberInactive):
		response.BadRequest(c, 15002, "成员已停用")
	default:
		response.InternalError(c)
	}
}
