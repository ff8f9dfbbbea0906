package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/config"
	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/model"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrInvalidStatus     = errors.New("考勤状态无效")
	ErrInvalidDate       = errors.New("日期格式错误")
	ErrAlreadyCheckedIn  = errors.New("今日已签到")
	ErrNotCheckedIn      = errors.New("今日尚未签到")
	ErrAlreadyCheckedOut = errors.New("今日已签退")
)

// maxStatusLength 与 attendance_records.status 列宽一致
const maxStatusLength = 20

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// Record 手工登记某天的考勤，同一成员同一天重复登记会覆盖状态
	Record(ctx context.Context, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceRecordResponse, error)
	CheckIn(ctx context.Context, req *dto.CheckInRequest, callerID string) (*dto.AttendanceRecordResponse, error)
	CheckOut(ctx context.Context, req *dto.CheckOutRequest, callerID string) (*dto.AttendanceRecordResponse, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceRecordResponse, int64, error)
}

type attendanceService struct {
	repo   *repository.Repository
	attCfg *config.AttendanceConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, attCfg *config.AttendanceConfig, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:   repo,
		attCfg: attCfg,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Record ──────────────────────

func (s *attendanceService) Record(ctx context.Context, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceRecordResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" || len(status) > maxStatusLength {
		return nil, ErrInvalidStatus
	}
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	member, err := s.activeMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	record := &model.AttendanceRecord{
		OrganizationID: member.OrganizationID,
		MemberID:       member.MemberID,
		AttendanceDate: model.DateOnly(date),
		Status:         status,
		Note:           req.Note,
		Source:         model.AttendanceSourceManual,
	}

	// 覆盖状态时保留已有的签到签退时间
	existing, err := s.repo.Attendance.GetByMemberAndDate(ctx, member.MemberID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		record.CheckInAt = existing.CheckInAt
		record.CheckOutAt = existing.CheckOutAt
	}
	setCreatedBy(&record.BaseModel, callerID)

	return s.upsertAndReload(ctx, record, member)
}

// ────────────────────── CheckIn ──────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, req *dto.CheckInRequest, callerID string) (*dto.AttendanceRecordResponse, error) {
	member, err := s.activeMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	now, err := s.localNow(ctx, member.OrganizationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Attendance.GetByMemberAndDate(ctx, member.MemberID, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}
	if existing != nil && existing.CheckInAt != nil {
		return nil, ErrAlreadyCheckedIn
	}

	lateAfter, err := s.attCfg.LateAfterMinutes()
	if err != nil {
		return nil, err
	}
	status := model.AttendanceStatusPresent
	if now.Hour()*60+now.Minute() > lateAfter {
		status = model.AttendanceStatusLate
	}

	checkInAt := now.UTC()
	record := &model.AttendanceRecord{
		OrganizationID: member.OrganizationID,
		MemberID:       member.MemberID,
		AttendanceDate: model.DateOnly(now),
		Status:         status,
		CheckInAt:      &checkInAt,
		Note:           req.Note,
		Source:         model.AttendanceSourceCheckIn,
	}
	setCreatedBy(&record.BaseModel, callerID)

	return s.upsertAndReload(ctx, record, member)
}

// ────────────────────── CheckOut ──────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, req *dto.CheckOutRequest, callerID string) (*dto.AttendanceRecordResponse, error) {
	member, err := s.activeMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	now, err := s.localNow(ctx, member.OrganizationID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Attendance.GetByMemberAndDate(ctx, member.MemberID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		s.logger.Error("查询考勤记录失败", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}
	if record.CheckInAt == nil {
		return nil, ErrNotCheckedIn
	}
	if record.CheckOutAt != nil {
		return nil, ErrAlreadyCheckedOut
	}

	checkOutAt := now.UTC()
	record.CheckOutAt = &checkOutAt
	if req.Early {
		record.Status = model.AttendanceStatusGoHome
	}
	setUpdatedBy(&record.BaseModel, callerID)

	if err := s.repo.Attendance.Update(ctx, record); err != nil {
		s.logger.Error("签退失败", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}

	return toAttendanceRecordResponse(record, member), nil
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceRecordResponse, int64, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}

	filters := &repository.AttendanceListFilters{
		OrganizationID: req.OrganizationID,
		MemberID:       req.MemberID,
		GroupID:        req.GroupID,
		Status:         strings.TrimSpace(req.Status),
		From:           from,
		To:             to,
	}

	records, total, err := s.repo.Attendance.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出考勤记录失败", zap.String("organization_id", req.OrganizationID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *toAttendanceRecordResponse(&records[i], records[i].Member))
	}
	return result, total, nil
}

// ── 内部辅助方法 ──

func (s *attendanceService) activeMember(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("member_id", memberID), zap.Error(err))
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}
	return member, nil
}

// localNow 组织时区内的当前时间，签到日期与迟到判定都以它为准
func (s *attendanceService) localNow(ctx context.Context, organizationID string) (time.Time, error) {
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrOrganizationNotFound
		}
		s.logger.Error("查询组织失败", zap.String("organization_id", organizationID), zap.Error(err))
		return time.Time{}, err
	}
	return s.now().In(organizationLocation(org.Timezone, s.attCfg)), nil
}

// upsertAndReload 冲突更新后结构体里的主键可能不是库里那条，重新读取一次
func (s *attendanceService) upsertAndReload(ctx context.Context, record *model.AttendanceRecord, member *model.Member) (*dto.AttendanceRecordResponse, error) {
	if err := s.repo.Attendance.Upsert(ctx, record); err != nil {
		s.logger.Error("保存考勤记录失败", zap.String("member_id", record.MemberID), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Attendance.GetByMemberAndDate(ctx, record.MemberID, record.AttendanceDate)
	if err != nil {
		s.logger.Error("读取考勤记录失败", zap.String("member_id", record.MemberID), zap.Error(err))
		return nil, err
	}
	return toAttendanceRecordResponse(saved, member), nil
}

func toAttendanceRecordResponse(r *model.AttendanceRecord, member *model.Member) *dto.AttendanceRecordResponse {
	resp := &dto.AttendanceRecordResponse{
		ID:       r.AttendanceRecordID,
		MemberID: r.MemberID,
		Date:     r.AttendanceDate.Format(dto.DateLayout),
		Status:   r.Status,
		Note:     r.Note,
		Source:   r.Source,
	}
	if member != nil {
		resp.MemberName = member.FullName
	}
	if r.CheckInAt != nil {
		resp.CheckInAt = r.CheckInAt.Format(dto.TimeLayout)
	}
	if r.CheckOutAt != nil {
		resp.CheckOutAt = r.CheckOutAt.Format(dto.TimeLayout)
	}
	return resp
}
