package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fachturrpl1/absensi-sub009/internal/service"
	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendanceByGroup 导出按部门出勤统计
// GET /api/v1/export/attendance-by-group?organization_id=xxx
func (h *ExportHandler) ExportAttendanceByGroup(c *gin.Context) {
	orgID := c.Query("organization_id")
	if orgID == "" {
		response.BadRequest(c, 10001, "organization_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendanceByGroup(c.Request.Context(), orgID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportAggregationFailed):
		response.Error(c, http.StatusInternalServerError, 18003, "考勤统计失败，无法导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 18004, "生成 Excel 文件失败")
	default:
		response.InternalError(c)
	}
}
