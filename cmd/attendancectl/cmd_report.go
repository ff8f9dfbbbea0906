package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/service"
)

var errAggregationFailed = errors.New("按部门统计考勤失败，详见日志")

// =============================================================================
// REPORT - 终端查看统计结果
// =============================================================================

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "查看考勤报表",
	}

	var (
		orgID  string
		asJSON bool
	)
	groups := &cobra.Command{
		Use:   "groups",
		Short: "按部门统计组织考勤",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.Service) error {
				result := svc.Report.GetAttendanceByGroup(cmd.Context(), orgID)
				return writeGroupReport(cmd.OutOrStdout(), result, asJSON)
			})
		},
	}
	groups.Flags().StringVar(&orgID, "org", "", "组织 ID")
	groups.Flags().BoolVar(&asJSON, "json", false, "输出 JSON（与 HTTP 接口的 data 字段一致）")
	_ = groups.MarkFlagRequired("org")
	cmd.AddCommand(groups)

	return cmd
}

// writeGroupReport 输出统计结果；失败结果同样输出后返回错误，保证退出码非零
func writeGroupReport(w io.Writer, result *dto.GroupAttendanceResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if result.Success {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "GROUP\tPRESENT\tLATE\tABSENT\tEXCUSED\tOTHERS\tTOTAL\t")
		for _, g := range result.Data {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
				g.Group, g.Present, g.Late, g.Absent, g.Excused, g.Others, g.Total)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !result.Success {
		return errAggregationFailed
	}
	return nil
}
