package service

import (
	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/model"
)

// UnknownGroup 无法确定部门的记录汇入的内部分组，不对外输出
const UnknownGroup = "Unknown"

// StatusClass 考勤状态的统计归类
type StatusClass int

const (
	ClassPresent StatusClass = iota
	ClassLate
	ClassAbsent
	ClassExcused
	ClassOthers
	// ClassIgnored 提前离开类状态：不计入任何计数
	ClassIgnored
)

// goHomeStatuses 提前离开的几种写法，统计时整体剔除
var goHomeStatuses = map[string]struct{}{
	"go_home":   {},
	"go-home":   {},
	"gone_home": {},
}

// ClassifyStatus 按精确字符串匹配归类，其余任意取值都归入 others
func ClassifyStatus(status string) StatusClass {
	switch status {
	case model.AttendanceStatusPresent:
		return ClassPresent
	case model.AttendanceStatusLate:
		return ClassLate
	case model.AttendanceStatusAbsent:
		return ClassAbsent
	case model.AttendanceStatusExcused:
		return ClassExcused
	}
	if _, ok := goHomeStatuses[status]; ok {
		return ClassIgnored
	}
	return ClassOthers
}

// StatusCounters 一组考勤计数
type StatusCounters struct {
	Present int
	Late    int
	Absent  int
	Excused int
	Others  int
}

// Add 按归类累加一条记录
func (c *StatusCounters) Add(status string) {
	switch ClassifyStatus(status) {
	case ClassPresent:
		c.Present++
	case ClassLate:
		c.Late++
	case ClassAbsent:
		c.Absent++
	case ClassExcused:
		c.Excused++
	case ClassOthers:
		c.Others++
	}
}

// Total 五项计数之和
func (c StatusCounters) Total() int {
	return c.Present + c.Late + c.Absent + c.Excused + c.Others
}

// Membership 成员解析结果：在职成员 ID（有序）与成员→部门名映射
// GroupByMember 中不存在的成员视为部门未知
type Membership struct {
	MemberIDs     []string
	GroupByMember map[string]string
}

// GroupTally 按部门名累计的计数，保留部门首次出现的顺序
type GroupTally struct {
	order    []string
	counters map[string]*StatusCounters
}

func newGroupTally() *GroupTally {
	return &GroupTally{counters: make(map[string]*StatusCounters)}
}

// ensure 取部门计数，不存在时以全零创建
func (t *GroupTally) ensure(group string) *StatusCounters {
	c, ok := t.counters[group]
	if !ok {
		c = &StatusCounters{}
		t.counters[group] = c
		t.order = append(t.order, group)
	}
	return c
}

// Get 返回部门计数副本
func (t *GroupTally) Get(group string) (StatusCounters, bool) {
	c, ok := t.counters[group]
	if !ok {
		return StatusCounters{}, false
	}
	return *c, true
}

// Groups 按插入顺序返回部门名
func (t *GroupTally) Groups() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// BuildGroupTally 将考勤记录折叠为按部门的计数
//
//   - 成员映射中出现的每个部门先以全零占位，保证无记录的部门也出现在结果中
//   - 映射中找不到成员的记录计入 UnknownGroup
//   - 映射为空时所有记录都落入 UnknownGroup，不报错
func BuildGroupTally(membership *Membership, rows []model.AttendanceStatusRow) *GroupTally {
	tally := newGroupTally()

	var groupByMember map[string]string
	if membership != nil {
		groupByMember = membership.GroupByMember
		for _, id := range membership.MemberIDs {
			if group, ok := groupByMember[id]; ok {
				tally.ensure(group)
			}
		}
	}

	for _, row := range rows {
		group, ok := groupByMember[row.MemberID]
		if !ok {
			group = UnknownGroup
		}
		tally.ensure(group).Add(row.Status)
	}

	return tally
}

// ProjectGroupTally 转换为对外的结果列表，剔除 UnknownGroup，顺序与插入顺序一致
func ProjectGroupTally(tally *GroupTally) []dto.GroupAttendanceSummary {
	result := make([]dto.GroupAttendanceSummary, 0, len(tally.order))
	for _, group := range tally.order {
		if group == UnknownGroup {
			continue
		}
		c := tally.counters[group]
		result = append(result, dto.GroupAttendanceSummary{
			Group:   group,
			Present: c.Present,
			Late:    c.Late,
			Absent:  c.Absent,
			Excused: c.Excused,
			Others:  c.Others,
			Total:   c.Total(),
		})
	}
	return result
}
