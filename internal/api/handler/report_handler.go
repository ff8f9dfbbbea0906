package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// AttendanceByGroup 按部门统计考勤
// GET /api/v1/reports/attendance-by-group?organization_id=xxx
//
// 未传 organization_id 返回 success=true 的空列表；
// 统计失败返回 500，data 中仍携带 {success:false,data:[]}。
func (h *ReportHandler) AttendanceByGroup(c *gin.Context) {
	result := h.reportSvc.GetAttendanceByGroup(c.Request.Context(), c.Query("organization_id"))
	if !result.Success {
		response.ErrorWithData(c, http.StatusInternalServerError, 18001, "考勤统计失败", result)
		return
	}

	response.OK(c, result)
}

// MemberPerformance 成员出勤表现
// GET /api/v1/reports/member-performance?organization_id=xxx&from=...&to=...
func (h *ReportHandler) MemberPerformance(c *gin.Context) {
	var req dto.MemberPerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.reportSvc.GetMemberPerformance(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Dashboard 组织考勤概览
// GET /api/v1/reports/dashboard?organization_id=xxx&date=2024-03-01
func (h *ReportHandler) Dashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.reportSvc.GetDashboardSummary(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, summary)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 18002, "日期范围无效")
	case errors.Is(err, service.ErrOrganizationNotFound):
		response.NotFound(c, 14001, "组织不存在")
	default:
		response.InternalError(c)
	}
}
