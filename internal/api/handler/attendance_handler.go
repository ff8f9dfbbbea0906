package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// AttendanceHandler 考勤记录 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// RecordAttendance 手工登记考勤（同一成员同一天覆盖）
// POST /api/v1/attendance
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Record(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// CheckIn 签到
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.CheckIn(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// CheckOut 签退；?early=true 与请求体 early 等价
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if c.Query("early") == "true" {
		req.Early = true
	}

	callerID, ok := GetOperatorID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.CheckOut(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// ListAttendance 查询考勤记录（分页）
// GET /api/v1/attendance?organization_id=xxx&from=2024-03-01&to=2024-03-31
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 15001, "成员不存在")
	case errors.Is(err, service.ErrMemberInactive):
		response.BadRequest(c, 15002, "成员已停用")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 16002, "考勤状态无效")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 16003, "日期格式错误")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.BadRequest(c, 16004, "今日已签到")
	case errors.Is(err, service.ErrNotCheckedIn):
		response.BadRequest(c, 16005, "今日尚未签到")
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.BadRequest(c, 16006, "今日已签退")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 16007, "日期范围无效")
	default:
		response.InternalError(c)
	}
}
