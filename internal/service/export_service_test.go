package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	seedOrg1(repos)
	report := NewReportService(repos.repo, testAttendanceConfig(), zap.NewNop())
	return NewExportService(report, zap.NewNop()), repos
}

// ── ExportAttendanceByGroup 测试 ──

func TestExportService_ExportAttendanceByGroup_Success(t *testing.T) {
	svc, repos := setupTestExportService()
	repos.attendance.addStatus("m1", "present")
	repos.attendance.addStatus("m1", "late")
	repos.attendance.addStatus("m2", "absent")
	repos.attendance.addStatus("m3", "excused")
	repos.attendance.addStatus("m3", "go_home")

	buf, filename, err := svc.ExportAttendanceByGroup(context.Background(), "ORG1")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if !strings.HasPrefix(filename, "按部门出勤_ORG1_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(groupAttendanceSheet)
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}

	want := [][]string{
		{"部门", "出勤", "迟到", "缺勤", "请假", "其他", "合计"},
		{"Engineering", "1", "1", "1", "0", "0", "3"},
		{"Sales", "0", "0", "0", "1", "0", "1"},
		{"合计", "1", "1", "1", "1", "0", "4"},
	}
	if len(rows) != len(want) {
		t.Fatalf("期望%d行，实际=%d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("第%d行期望 %v，实际 %v", i+1, want[i], rows[i])
		}
	}
}

func TestExportService_ExportAttendanceByGroup_AggregationFailed(t *testing.T) {
	svc, repos := setupTestExportService()
	repos.member.listErr = errors.New("db down")

	_, _, err := svc.ExportAttendanceByGroup(context.Background(), "ORG1")
	if !errors.Is(err, ErrExportAggregationFailed) {
		t.Errorf("期望 ErrExportAggregationFailed，实际: %v", err)
	}
}

func TestExportService_ExportAttendanceByGroup_EmptyOrganization(t *testing.T) {
	svc, _ := setupTestExportService()

	buf, _, err := svc.ExportAttendanceByGroup(context.Background(), "")
	if err != nil {
		t.Fatalf("未选择组织时应导出空表: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(groupAttendanceSheet)
	if len(rows) != 2 {
		t.Errorf("期望表头加合计共2行，实际=%d", len(rows))
	}
}
