package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/config"
	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrInvalidDateRange = errors.New("日期范围无效")
)

// ReportService 考勤报表业务接口
type ReportService interface {
	// GetAttendanceByGroup 按部门统计组织考勤
	// 未指定组织返回 success=true 的空列表；任一查询失败返回 success=false 的空列表
	GetAttendanceByGroup(ctx context.Context, organizationID string) *dto.GroupAttendanceResult
	// GetMemberPerformance 组织内在职成员的出勤表现
	GetMemberPerformance(ctx context.Context, req *dto.MemberPerformanceRequest) ([]dto.MemberPerformance, error)
	// GetDashboardSummary 组织某天的考勤概览
	GetDashboardSummary(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardSummary, error)
}

type reportService struct {
	repo       *repository.Repository
	aggregator *groupAttendanceAggregator
	attCfg     *config.AttendanceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, attCfg *config.AttendanceConfig, logger *zap.Logger) ReportService {
	return &reportService{
		repo:       repo,
		aggregator: newGroupAttendanceAggregator(repo, logger),
		attCfg:     attCfg,
		logger:     logger,
		now:        time.Now,
	}
}

// ────────────────────── GetAttendanceByGroup ──────────────────────

func (s *reportService) GetAttendanceByGroup(ctx context.Context, organizationID string) *dto.GroupAttendanceResult {
	data, err := s.aggregator.Aggregate(ctx, organizationID)
	if err != nil {
		s.logger.Error("按部门统计考勤失败", zap.String("organization_id", organizationID), zap.Error(err))
		return &dto.GroupAttendanceResult{Success: false, Data: []dto.GroupAttendanceSummary{}}
	}
	return &dto.GroupAttendanceResult{Success: true, Data: data}
}

// ────────────────────── GetMemberPerformance ──────────────────────

func (s *reportService) GetMemberPerformance(ctx context.Context, req *dto.MemberPerformanceRequest) ([]dto.MemberPerformance, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	resolved, err := s.aggregator.resolveMembership(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if len(resolved.members) == 0 {
		return []dto.MemberPerformance{}, nil
	}

	rows, err := s.repo.Attendance.ListStatusesInRange(ctx, resolved.membership.MemberIDs, from, to)
	if err != nil {
		s.logger.Error("查询成员考勤失败", zap.String("organization_id", req.OrganizationID), zap.Error(err))
		return nil, err
	}

	counters := make(map[string]*StatusCounters, len(resolved.members))
	for _, m := range resolved.members {
		counters[m.MemberID] = &StatusCounters{}
	}
	for _, row := range rows {
		if c, ok := counters[row.MemberID]; ok {
			c.Add(row.Status)
		}
	}

	result := make([]dto.MemberPerformance, 0, len(resolved.members))
	for _, m := range resolved.members {
		c := counters[m.MemberID]
		result = append(result, dto.MemberPerformance{
			MemberID:       m.MemberID,
			FullName:       m.FullName,
			Group:          resolved.membership.GroupByMember[m.MemberID],
			Present:        c.Present,
			Late:           c.Late,
			Absent:         c.Absent,
			Excused:        c.Excused,
			Others:         c.Others,
			Total:          c.Total(),
			AttendanceRate: attendanceRate(*c),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].AttendanceRate != result[j].AttendanceRate {
			return result[i].AttendanceRate > result[j].AttendanceRate
		}
		return result[i].FullName < result[j].FullName
	})

	return result, nil
}

// attendanceRate 出勤率 = (present + late) / total，保留两位小数
func attendanceRate(c StatusCounters) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	rate := float64(c.Present+c.Late) / float64(total)
	return math.Round(rate*100) / 100
}

// ────────────────────── GetDashboardSummary ──────────────────────

func (s *reportService) GetDashboardSummary(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardSummary, error) {
	org, err := s.repo.Organization.GetByID(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("查询组织失败", zap.String("organization_id", req.OrganizationID), zap.Error(err))
		return nil, err
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		date, err = time.Parse(dto.DateLayout, req.Date)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
	} else {
		date = s.now().In(organizationLocation(org.Timezone, s.attCfg))
	}

	summary := &dto.DashboardSummary{
		OrganizationID: org.OrganizationID,
		Date:           date.Format(dto.DateLayout),
	}

	// 各项统计互不依赖，并发查询
	var statusCounts map[string]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Member.CountActive(gctx, org.OrganizationID)
		summary.ActiveMembers = n
		return err
	})
	g.Go(func() error {
		groups, err := s.repo.Group.ListActiveByOrganization(gctx, org.OrganizationID)
		summary.ActiveGroups = len(groups)
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.Attendance.CountByStatusOnDate(gctx, org.OrganizationID, date)
		statusCounts = counts
		return err
	})
	g.Go(func() error {
		n, err := s.repo.LeaveRequest.CountPending(gctx, org.OrganizationID)
		summary.PendingLeaves = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("查询仪表盘数据失败", zap.String("organization_id", org.OrganizationID), zap.Error(err))
		return nil, err
	}

	var recorded int64
	for status, n := range statusCounts {
		recorded += n
		switch ClassifyStatus(status) {
		case ClassPresent:
			summary.Present += n
		case ClassLate:
			summary.Late += n
		case ClassAbsent:
			summary.Absent += n
		case ClassExcused:
			summary.Excused += n
		case ClassOthers:
			summary.Others += n
		}
	}
	if summary.ActiveMembers > recorded {
		summary.NotRecorded = summary.ActiveMembers - recorded
	}

	return summary, nil
}

// ── 内部辅助方法 ──

// parseDateRange 解析可选的起止日期，均给出时要求 from <= to
func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse(dto.DateLayout, fromStr)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse(dto.DateLayout, toStr)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, ErrInvalidDateRange
	}
	return from, to, nil
}

// organizationLocation 组织时区，无效时回退到配置的默认时区，再回退到 UTC
func organizationLocation(tz string, attCfg *config.AttendanceConfig) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if attCfg != nil && attCfg.DefaultTimezone != "" {
		if loc, err := time.LoadLocation(attCfg.DefaultTimezone); err == nil {
			return loc
		}
	}
	return time.UTC
}
