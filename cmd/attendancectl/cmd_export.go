package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fachturrpl1/absensi-sub009/internal/service"
)

// =============================================================================
// EXPORT - 导出 xlsx 到本地文件
// =============================================================================

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出考勤报表",
	}

	var orgID, out string
	groups := &cobra.Command{
		Use:   "groups",
		Short: "导出按部门出勤统计 (.xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.Service) error {
				buf, filename, err := svc.Export.ExportAttendanceByGroup(cmd.Context(), orgID)
				if err != nil {
					return err
				}
				return writeExport(cmd, orgID, out, filename, buf.Bytes())
			})
		},
	}
	groups.Flags().StringVar(&orgID, "org", "", "组织 ID")
	groups.Flags().StringVarP(&out, "out", "o", "", "输出文件路径（默认使用生成的文件名）")
	_ = groups.MarkFlagRequired("org")

	var leaveOrgID, leaveOut string
	leaves := &cobra.Command{
		Use:   "leaves",
		Short: "导出已批准请假日历 (.ics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.Service) error {
				content, filename, err := svc.Leave.Calendar(cmd.Context(), leaveOrgID)
				if err != nil {
					return err
				}
				return writeExport(cmd, leaveOrgID, leaveOut, filename, []byte(content))
			})
		},
	}
	leaves.Flags().StringVar(&leaveOrgID, "org", "", "组织 ID")
	leaves.Flags().StringVarP(&leaveOut, "out", "o", "", "输出文件路径（默认使用生成的文件名）")
	_ = leaves.MarkFlagRequired("org")

	cmd.AddCommand(groups, leaves)
	return cmd
}

// writeExport 写入导出文件并在标准输出打印路径
func writeExport(cmd *cobra.Command, orgID, out, filename string, data []byte) error {
	path := out
	if path == "" {
		path = filename
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	logger.Info("导出完成", zap.String("organization_id", orgID), zap.String("file", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
