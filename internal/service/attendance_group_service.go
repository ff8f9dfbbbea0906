package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/model"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
)

// groupAttendanceAggregator 按部门统计组织考勤
//
// 流程：成员解析 → 考勤状态拉取 → 按部门计数 → 输出列表。
// 每次调用都重新查询、重新计数，不持有任何跨请求状态。
// 任一查询失败都整体返回错误，不返回部分结果。
type groupAttendanceAggregator struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func newGroupAttendanceAggregator(repo *repository.Repository, logger *zap.Logger) *groupAttendanceAggregator {
	return &groupAttendanceAggregator{repo: repo, logger: logger}
}

// resolvedMembers 成员解析的完整结果，members 供需要成员明细的报表复用
type resolvedMembers struct {
	membership *Membership
	members    []model.Member
}

// Aggregate 计算组织内各部门的考勤汇总
// organizationID 为空表示未选择组织，返回空列表而非错误
func (a *groupAttendanceAggregator) Aggregate(ctx context.Context, organizationID string) ([]dto.GroupAttendanceSummary, error) {
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return []dto.GroupAttendanceSummary{}, nil
	}

	resolved, err := a.resolveMembership(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	rows, err := a.fetchStatuses(ctx, resolved.membership.MemberIDs)
	if err != nil {
		return nil, err
	}

	tally := BuildGroupTally(resolved.membership, rows)
	return ProjectGroupTally(tally), nil
}

// ═══════════════════════════════════════════════════════════
// 成员解析
// ═══════════════════════════════════════════════════════════
//
// 1. 查询组织内启用的部门（只用于诊断日志）
// 2. 查询组织内在职成员，预加载所属部门
// 3. 主路径：使用预加载的部门，且部门的 organization_id 必须与请求组织一致
// 4. 主路径一个映射都没建立时，按成员引用的 group_id 回查本组织的部门再映射一次
// 未能映射的成员不进入映射表，其考勤记录在计数阶段落入 UnknownGroup

func (a *groupAttendanceAggregator) resolveMembership(ctx context.Context, organizationID string) (*resolvedMembers, error) {
	groups, err := a.repo.Group.ListActiveByOrganization(ctx, organizationID)
	if err != nil {
		a.logger.Error("查询组织部门失败", zap.String("organization_id", organizationID), zap.Error(err))
		return nil, fmt.Errorf("查询组织部门失败: %w", err)
	}

	members, err := a.repo.Member.ListActiveWithGroup(ctx, organizationID)
	if err != nil {
		a.logger.Error("查询组织成员失败", zap.String("organization_id", organizationID), zap.Error(err))
		return nil, fmt.Errorf("查询组织成员失败: %w", err)
	}

	activeGroups := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		activeGroups[g.GroupID] = struct{}{}
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.MemberID)
	}

	groupByMember := a.mapEmbeddedGroups(organizationID, members, activeGroups)
	if len(groupByMember) == 0 && len(members) > 0 {
		groupByMember, err = a.mapByAuthoritativeGroups(ctx, organizationID, members)
		if err != nil {
			return nil, err
		}
	}

	a.logger.Debug("成员解析完成",
		zap.String("organization_id", organizationID),
		zap.Int("active_groups", len(groups)),
		zap.Int("active_members", len(members)),
		zap.Int("mapped_members", len(groupByMember)),
	)

	return &resolvedMembers{
		membership: &Membership{MemberIDs: memberIDs, GroupByMember: groupByMember},
		members:    members,
	}, nil
}

// mapEmbeddedGroups 主路径：信任预加载的部门，但逐条校验其组织归属
func (a *groupAttendanceAggregator) mapEmbeddedGroups(organizationID string, members []model.Member, activeGroups map[string]struct{}) map[string]string {
	result := make(map[string]string, len(members))
	for i := range members {
		m := &members[i]
		group := embeddedGroup(m)
		if group == nil {
			continue
		}
		if !sameOrganization(group.OrganizationID, organizationID) {
			a.logger.Warn("成员关联的部门不属于当前组织，已忽略",
				zap.String("organization_id", organizationID),
				zap.String("member_id", m.MemberID),
				zap.String("group_id", group.GroupID),
				zap.String("group_organization_id", group.OrganizationID),
			)
			continue
		}
		if _, ok := activeGroups[group.GroupID]; !ok {
			a.logger.Debug("成员关联的部门未启用",
				zap.String("member_id", m.MemberID),
				zap.String("group_id", group.GroupID),
			)
		}
		result[m.MemberID] = group.Name
	}
	return result
}

// mapByAuthoritativeGroups 回退路径：按 group_id 批量查询本组织部门，一次建表后复用
func (a *groupAttendanceAggregator) mapByAuthoritativeGroups(ctx context.Context, organizationID string, members []model.Member) (map[string]string, error) {
	result := make(map[string]string)

	seen := make(map[string]struct{})
	groupIDs := make([]string, 0)
	for _, m := range members {
		if m.GroupID == nil || *m.GroupID == "" {
			continue
		}
		if _, ok := seen[*m.GroupID]; ok {
			continue
		}
		seen[*m.GroupID] = struct{}{}
		groupIDs = append(groupIDs, *m.GroupID)
	}
	if len(groupIDs) == 0 {
		return result, nil
	}

	groups, err := a.repo.Group.ListByIDsInOrganization(ctx, organizationID, groupIDs)
	if err != nil {
		a.logger.Error("回查成员部门失败", zap.String("organization_id", organizationID), zap.Error(err))
		return nil, fmt.Errorf("回查成员部门失败: %w", err)
	}

	nameByID := make(map[string]string, len(groups))
	for _, g := range groups {
		if !sameOrganization(g.OrganizationID, organizationID) {
			continue
		}
		nameByID[g.GroupID] = g.Name
	}

	for _, m := range members {
		if m.GroupID == nil || *m.GroupID == "" {
			continue
		}
		name, ok := nameByID[*m.GroupID]
		if !ok {
			a.logger.Warn("成员的部门在当前组织中不存在，计入未知部门",
				zap.String("organization_id", organizationID),
				zap.String("member_id", m.MemberID),
				zap.String("group_id", *m.GroupID),
			)
			continue
		}
		result[m.MemberID] = name
	}
	return result, nil
}

// fetchStatuses 只拉取已解析成员的考勤状态；成员为空时不发起查询
func (a *groupAttendanceAggregator) fetchStatuses(ctx context.Context, memberIDs []string) ([]model.AttendanceStatusRow, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	rows, err := a.repo.Attendance.ListStatusesByMemberIDs(ctx, memberIDs)
	if err != nil {
		a.logger.Error("查询考勤记录失败", zap.Int("members", len(memberIDs)), zap.Error(err))
		return nil, fmt.Errorf("查询考勤记录失败: %w", err)
	}
	return rows, nil
}

// embeddedGroup 取成员上预加载的部门
// 未加载或与成员的 group_id 对不上时视为没有
func embeddedGroup(m *model.Member) *model.Group {
	if m.Group == nil || m.GroupID == nil {
		return nil
	}
	if m.Group.GroupID != *m.GroupID {
		return nil
	}
	return m.Group
}

// sameOrganization 组织 ID 逐字节相等才算同一组织
func sameOrganization(a, b string) bool {
	return a != "" && a == b
}
