package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/internal/model"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
	pkgerrors "github.com/fachturrpl1/absensi-sub009/pkg/errors"
)

// ── 测试用 Repository 组装 ──

type testRepos struct {
	repo       *repository.Repository
	org        *mockOrganizationRepo
	group      *mockGroupRepo
	member     *mockMemberRepo
	attendance *mockAttendanceRepo
	leave      *mockLeaveRequestRepo
}

func newTestRepos() *testRepos {
	orgRepo := newMockOrganizationRepo()
	memberRepo := newMockMemberRepo()
	groupRepo := newMockGroupRepo(memberRepo)
	attRepo := newMockAttendanceRepo(memberRepo)
	leaveRepo := newMockLeaveRequestRepo(memberRepo)
	return &testRepos{
		repo: &repository.Repository{
			Organization: orgRepo,
			Group:        groupRepo,
			Member:       memberRepo,
			Attendance:   attRepo,
			LeaveRequest: leaveRepo,
		},
		org:        orgRepo,
		group:      groupRepo,
		member:     memberRepo,
		attendance: attRepo,
		leave:      leaveRepo,
	}
}

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	orgs   map[string]*model.Organization
	getErr error
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrganizationRepo) add(id, code string) *model.Organization {
	org := &model.Organization{
		OrganizationID: id,
		Name:           "组织" + code,
		Code:           code,
		Timezone:       "Asia/Jakarta",
		IsActive:       true,
	}
	m.orgs[id] = org
	return org
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.Code
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) GetByCode(_ context.Context, code string) (*model.Organization, error) {
	for _, o := range m.orgs {
		if o.Code == code {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrganizationRepo) List(_ context.Context, includeInactive bool) ([]model.Organization, error) {
	var result []model.Organization
	for _, o := range m.orgs {
		if !includeInactive && !o.IsActive {
			continue
		}
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockOrganizationRepo) Update(_ context.Context, org *model.Organization) error {
	m.orgs[org.OrganizationID] = org
	return nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.Group
	members *mockMemberRepo

	listActiveErr error
	listByIDsErr  error
	listByIDsHits int
}

func newMockGroupRepo(members *mockMemberRepo) *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.Group), members: members}
}

func (m *mockGroupRepo) add(id, organizationID, name string) *model.Group {
	g := &model.Group{GroupID: id, OrganizationID: organizationID, Name: name, IsActive: true}
	g.Version = 1
	m.groups[id] = g
	return g
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		group.GroupID = "grp-" + group.Name
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetByName(_ context.Context, organizationID, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.OrganizationID == organizationID && g.Name == name {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) ListActiveByOrganization(ctx context.Context, organizationID string) ([]model.Group, error) {
	if m.listActiveErr != nil {
		return nil, m.listActiveErr
	}
	return m.ListByOrganization(ctx, organizationID, false)
}

func (m *mockGroupRepo) ListByOrganization(_ context.Context, organizationID string, includeInactive bool) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if g.OrganizationID != organizationID {
			continue
		}
		if !includeInactive && !g.IsActive {
			continue
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockGroupRepo) ListByIDsInOrganization(_ context.Context, organizationID string, ids []string) ([]model.Group, error) {
	m.listByIDsHits++
	if m.listByIDsErr != nil {
		return nil, m.listByIDsErr
	}
	var result []model.Group
	for _, id := range ids {
		if g, ok := m.groups[id]; ok && g.OrganizationID == organizationID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	stored, ok := m.groups[group.GroupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored != group && stored.Version != group.Version {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version++
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) CountActiveMembers(_ context.Context, groupID string) (int64, error) {
	var count int64
	for _, mem := range m.members.members {
		if mem.IsActive && mem.GroupID != nil && *mem.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (m *mockGroupRepo) BatchCountActiveMembers(ctx context.Context, groupIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(groupIDs))
	for _, id := range groupIDs {
		n, _ := m.CountActiveMembers(ctx, id)
		result[id] = n
	}
	return result, nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
	listErr error
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member)}
}

// add 登记在职成员；group 非空时同时挂上预加载的部门
func (m *mockMemberRepo) add(id, organizationID, fullName string, group *model.Group) *model.Member {
	mem := &model.Member{
		MemberID:       id,
		OrganizationID: organizationID,
		FullName:       fullName,
		EmployeeCode:   "E-" + id,
		Role:           model.MemberRoleMember,
		IsActive:       true,
		JoinedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if group != nil {
		gid := group.GroupID
		mem.GroupID = &gid
		mem.Group = group
	}
	m.members[id] = mem
	return mem
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = "mem-" + member.EmployeeCode
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByEmployeeCode(_ context.Context, organizationID, code string) (*model.Member, error) {
	for _, mem := range m.members {
		if mem.OrganizationID == organizationID && mem.EmployeeCode == code {
			return mem, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListActiveWithGroup(_ context.Context, organizationID string) ([]model.Member, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Member
	for _, mem := range m.members {
		if mem.OrganizationID == organizationID && mem.IsActive {
			result = append(result, *mem)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *mockMemberRepo) ListWithFilters(_ context.Context, filters *repository.MemberListFilters, offset, limit int) ([]model.Member, int64, error) {
	var result []model.Member
	for _, mem := range m.members {
		if mem.OrganizationID != filters.OrganizationID {
			continue
		}
		if filters.GroupID != "" && (mem.GroupID == nil || *mem.GroupID != filters.GroupID) {
			continue
		}
		if !filters.IncludeInactive && !mem.IsActive {
			continue
		}
		if filters.Keyword != "" && !strings.Contains(mem.FullName, filters.Keyword) {
			continue
		}
		result = append(result, *mem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Member{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Deactivate(_ context.Context, id string, _ string) error {
	if mem, ok := m.members[id]; ok {
		mem.IsActive = false
	}
	return nil
}

func (m *mockMemberRepo) CountActive(_ context.Context, organizationID string) (int64, error) {
	var count int64
	for _, mem := range m.members {
		if mem.OrganizationID == organizationID && mem.IsActive {
			count++
		}
	}
	return count, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []*model.AttendanceRecord
	members *mockMemberRepo

	listErr      error
	upsertErr    error
	statusCalls  int
	lastQueryIDs []string
}

func newMockAttendanceRepo(members *mockMemberRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{members: members}
}

// addStatus 追加一条考勤；同一成员的多条记录落在不同日期
func (m *mockAttendanceRepo) addStatus(memberID, status string) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, len(m.records))
	organizationID := ""
	if mem, ok := m.members.members[memberID]; ok {
		organizationID = mem.OrganizationID
	}
	m.records = append(m.records, &model.AttendanceRecord{
		AttendanceRecordID: fmt.Sprintf("att-%d", len(m.records)+1),
		OrganizationID:     organizationID,
		MemberID:           memberID,
		AttendanceDate:     day,
		Status:             status,
		Source:             model.AttendanceSourceManual,
	})
}

// addStatusOn 在指定日期追加一条考勤
func (m *mockAttendanceRepo) addStatusOn(memberID string, day time.Time, status string) {
	m.addStatus(memberID, status)
	m.records[len(m.records)-1].AttendanceDate = model.DateOnly(day)
}

func (m *mockAttendanceRepo) find(memberID string, date time.Time) *model.AttendanceRecord {
	day := model.DateOnly(date)
	for _, r := range m.records {
		if r.MemberID == memberID && r.AttendanceDate.Equal(day) {
			return r
		}
	}
	return nil
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, record *model.AttendanceRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	record.AttendanceDate = model.DateOnly(record.AttendanceDate)
	if existing := m.find(record.MemberID, record.AttendanceDate); existing != nil {
		existing.Status = record.Status
		existing.CheckInAt = record.CheckInAt
		existing.CheckOutAt = record.CheckOutAt
		existing.Note = record.Note
		existing.Source = record.Source
		return nil
	}
	stored := *record
	stored.AttendanceRecordID = fmt.Sprintf("att-%d", len(m.records)+1)
	m.records = append(m.records, &stored)
	return nil
}

func (m *mockAttendanceRepo) GetByMemberAndDate(_ context.Context, memberID string, date time.Time) (*model.AttendanceRecord, error) {
	if r := m.find(memberID, date); r != nil {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *model.AttendanceRecord) error {
	for i, r := range m.records {
		if r.AttendanceRecordID == record.AttendanceRecordID {
			copied := *record
			m.records[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListStatusesByMemberIDs(ctx context.Context, memberIDs []string) ([]model.AttendanceStatusRow, error) {
	return m.ListStatusesInRange(ctx, memberIDs, nil, nil)
}

func (m *mockAttendanceRepo) ListStatusesInRange(_ context.Context, memberIDs []string, from, to *time.Time) ([]model.AttendanceStatusRow, error) {
	m.statusCalls++
	m.lastQueryIDs = append([]string(nil), memberIDs...)
	if m.listErr != nil {
		return nil, m.listErr
	}
	wanted := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		wanted[id] = struct{}{}
	}
	var rows []model.AttendanceStatusRow
	for _, r := range m.records {
		if _, ok := wanted[r.MemberID]; !ok {
			continue
		}
		if from != nil && r.AttendanceDate.Before(model.DateOnly(*from)) {
			continue
		}
		if to != nil && r.AttendanceDate.After(model.DateOnly(*to)) {
			continue
		}
		rows = append(rows, model.AttendanceStatusRow{MemberID: r.MemberID, Status: r.Status})
	}
	return rows, nil
}

func (m *mockAttendanceRepo) ListWithFilters(_ context.Context, filters *repository.AttendanceListFilters, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.OrganizationID != filters.OrganizationID {
			continue
		}
		if filters.MemberID != "" && r.MemberID != filters.MemberID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		mem := m.members.members[r.MemberID]
		if filters.GroupID != "" && (mem == nil || mem.GroupID == nil || *mem.GroupID != filters.GroupID) {
			continue
		}
		if filters.From != nil && r.AttendanceDate.Before(model.DateOnly(*filters.From)) {
			continue
		}
		if filters.To != nil && r.AttendanceDate.After(model.DateOnly(*filters.To)) {
			continue
		}
		copied := *r
		copied.Member = mem
		result = append(result, copied)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return []model.AttendanceRecord{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockAttendanceRepo) CountByStatusOnDate(_ context.Context, organizationID string, date time.Time) (map[string]int64, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make(map[string]int64)
	day := model.DateOnly(date)
	for _, r := range m.records {
		if r.OrganizationID == organizationID && r.AttendanceDate.Equal(day) {
			result[r.Status]++
		}
	}
	return result, nil
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	leaves  map[string]*model.LeaveRequest
	members *mockMemberRepo

	// beforeTransition 在条件更新前执行，用于模拟另一请求抢先修改状态
	beforeTransition func()
	listApprovedErr  error
}

func newMockLeaveRequestRepo(members *mockMemberRepo) *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{leaves: make(map[string]*model.LeaveRequest), members: members}
}

func (m *mockLeaveRequestRepo) Create(_ context.Context, leave *model.LeaveRequest) error {
	if leave.LeaveRequestID == "" {
		leave.LeaveRequestID = fmt.Sprintf("leave-%d", len(m.leaves)+1)
	}
	m.leaves[leave.LeaveRequestID] = leave
	return nil
}

func (m *mockLeaveRequestRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		cp.Member = m.members.members[l.MemberID]
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRequestRepo) ListWithFilters(_ context.Context, filters *repository.LeaveListFilters, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		if l.OrganizationID != filters.OrganizationID {
			continue
		}
		if filters.MemberID != "" && l.MemberID != filters.MemberID {
			continue
		}
		if filters.Status != "" && l.Status != filters.Status {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveRequestID < result[j].LeaveRequestID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.LeaveRequest{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockLeaveRequestRepo) TransitionStatus(_ context.Context, leave *model.LeaveRequest, from string) error {
	if m.beforeTransition != nil {
		m.beforeTransition()
	}
	stored, ok := m.leaves[leave.LeaveRequestID]
	if !ok || stored.Status != from {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = leave.Status
	stored.ReviewNote = leave.ReviewNote
	stored.ReviewedBy = leave.ReviewedBy
	stored.ReviewedAt = leave.ReviewedAt
	stored.UpdatedBy = leave.UpdatedBy
	return nil
}

func (m *mockLeaveRequestRepo) ListApproved(_ context.Context, organizationID string) ([]model.LeaveRequest, error) {
	if m.listApprovedErr != nil {
		return nil, m.listApprovedErr
	}
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		if l.OrganizationID != organizationID || l.Status != model.LeaveStatusApproved {
			continue
		}
		cp := *l
		cp.Member = m.members.members[l.MemberID]
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].LeaveRequestID < result[j].LeaveRequestID
	})
	return result, nil
}

func (m *mockLeaveRequestRepo) CountPending(_ context.Context, organizationID string) (int64, error) {
	var count int64
	for _, l := range m.leaves {
		if l.OrganizationID == organizationID && l.Status == model.LeaveStatusPending {
			count++
		}
	}
	return count, nil
}
