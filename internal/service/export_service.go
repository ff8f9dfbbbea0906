package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出模块业务错误 ──

var (
	ErrExportAggregationFailed = errors.New("考勤统计失败，无法导出")
	ErrExportGenerateFail      = errors.New("生成 Excel 文件失败")
)

// groupAttendanceSheet 按部门出勤导出的工作表名
const groupAttendanceSheet = "按部门出勤"

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendanceByGroup 导出按部门统计的考勤为 Excel
	ExportAttendanceByGroup(ctx context.Context, organizationID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	report ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(report ReportService, logger *zap.Logger) ExportService {
	return &exportService{report: report, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendanceByGroup 导出按部门出勤
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "按部门出勤"
//   - 表头：部门 | 出勤 | 迟到 | 缺勤 | 请假 | 其他 | 合计
//   - 数据行顺序与接口返回一致，末行为合计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendanceByGroup(ctx context.Context, organizationID string) (*bytes.Buffer, string, error) {
	result := s.report.GetAttendanceByGroup(ctx, organizationID)
	if !result.Success {
		return nil, "", ErrExportAggregationFailed
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(groupAttendanceSheet)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(groupAttendanceSheet, "A", "A", 24)
	f.SetColWidth(groupAttendanceSheet, "B", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	headers := []string{"部门", "出勤", "迟到", "缺勤", "请假", "其他", "合计"}
	for i, h := range headers {
		f.SetCellValue(groupAttendanceSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(groupAttendanceSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	var sum StatusCounters
	row := 2
	for _, g := range result.Data {
		writeSummaryRow(f, row, g.Group, []int{g.Present, g.Late, g.Absent, g.Excused, g.Others, g.Total})
		sum.Present += g.Present
		sum.Late += g.Late
		sum.Absent += g.Absent
		sum.Excused += g.Excused
		sum.Others += g.Others
		row++
	}

	writeSummaryRow(f, row, "合计", []int{sum.Present, sum.Late, sum.Absent, sum.Excused, sum.Others, sum.Total()})
	f.SetCellStyle(groupAttendanceSheet, cell("A", row), cell(colName(len(headers)-1), row), totalStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("按部门出勤_%s_%s.xlsx", organizationID, s.now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func writeSummaryRow(f *excelize.File, row int, label string, values []int) {
	f.SetCellValue(groupAttendanceSheet, cell("A", row), label)
	for i, v := range values {
		f.SetCellValue(groupAttendanceSheet, cell(colName(i+1), row), v)
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
