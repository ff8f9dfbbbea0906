package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/config"
	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/model"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
	pkgerrors "github.com/fachturrpl1/absensi-sub009/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound     = errors.New("请假申请不存在")
	ErrLeaveNotPending   = errors.New("请假申请已处理，无法再次操作")
	ErrLeaveInvalidRange = errors.New("请假起止日期无效")
	ErrLeaveTooLong      = errors.New("请假天数超过上限")
)

// LeaveService 请假业务接口
type LeaveService interface {
	Submit(ctx context.Context, req *dto.SubmitLeaveRequest, callerID string) (*dto.LeaveResponse, error)
	List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error)
	// Approve 批准后为请假覆盖的每一天写入 excused 考勤
	Approve(ctx context.Context, id string, req *dto.ReviewLeaveRequest, callerID string) (*dto.LeaveResponse, error)
	Reject(ctx context.Context, id string, req *dto.ReviewLeaveRequest, callerID string) (*dto.LeaveResponse, error)
	Cancel(ctx context.Context, id string, callerID string) (*dto.LeaveResponse, error)
	// Calendar 已批准请假的 iCalendar 内容，返回 (内容, 建议文件名)
	Calendar(ctx context.Context, organizationID string) (string, string, error)
}

type leaveService struct {
	repo   *repository.Repository
	attCfg *config.AttendanceConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, attCfg *config.AttendanceConfig, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:   repo,
		attCfg: attCfg,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *leaveService) Submit(ctx context.Context, req *dto.SubmitLeaveRequest, callerID string) (*dto.LeaveResponse, error) {
	start, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		return nil, ErrLeaveInvalidRange
	}
	end, err := time.Parse(dto.DateLayout, req.EndDate)
	if err != nil {
		return nil, ErrLeaveInvalidRange
	}
	if end.Before(start) {
		return nil, ErrLeaveInvalidRange
	}

	leave := &model.LeaveRequest{
		LeaveType: req.LeaveType,
		StartDate: model.DateOnly(start),
		EndDate:   model.DateOnly(end),
		Reason:    req.Reason,
		Status:    model.LeaveStatusPending,
	}
	if leave.SpanDays() > int64(s.attCfg.MaxLeaveDays) {
		return nil, ErrLeaveTooLong
	}

	member, err := s.repo.Member.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("member_id", req.MemberID), zap.Error(err))
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	leave.OrganizationID = member.OrganizationID
	leave.MemberID = member.MemberID
	setCreatedBy(&leave.BaseModel, callerID)

	if err := s.repo.LeaveRequest.Create(ctx, leave); err != nil {
		s.logger.Error("提交请假申请失败", zap.String("member_id", member.MemberID), zap.Error(err))
		return nil, err
	}
	leave.Member = member

	return toLeaveResponse(leave), nil
}

// ────────────────────── List ──────────────────────

func (s *leaveService) List(ctx context.Context, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error) {
	filters := &repository.LeaveListFilters{
		OrganizationID: req.OrganizationID,
		MemberID:       req.MemberID,
		Status:         req.Status,
	}

	leaves, total, err := s.repo.LeaveRequest.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出请假申请失败", zap.String("organization_id", req.OrganizationID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, total, nil
}

// ────────────────────── Approve ──────────────────────

func (s *leaveService) Approve(ctx context.Context, id string, req *dto.ReviewLeaveRequest, callerID string) (*dto.LeaveResponse, error) {
	leave, err := s.pendingLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	s.markReviewed(leave, model.LeaveStatusApproved, req.Note, callerID)

	// 使用事务保证申请状态与考勤记录同时生效
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := s.transition(ctx, txRepo, leave); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}

	for _, day := range leave.Days() {
		record := &model.AttendanceRecord{
			OrganizationID: leave.OrganizationID,
			MemberID:       leave.MemberID,
			AttendanceDate: day,
			Status:         model.AttendanceStatusExcused,
			Note:           leave.Reason,
			Source:         model.AttendanceSourceLeave,
		}
		setCreatedBy(&record.BaseModel, callerID)

		if err := txRepo.Attendance.Upsert(ctx, record); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("写入请假考勤失败",
				zap.String("leave_request_id", id),
				zap.String("member_id", leave.MemberID),
				zap.Time("date", day),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("请假申请已批准",
		zap.String("leave_request_id", id),
		zap.String("member_id", leave.MemberID),
		zap.Int64("days", leave.SpanDays()),
	)
	return toLeaveResponse(leave), nil
}

// ────────────────────── Reject ──────────────────────

func (s *leaveService) Reject(ctx context.Context, id string, req *dto.ReviewLeaveRequest, callerID string) (*dto.LeaveResponse, error) {
	leave, err := s.pendingLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	s.markReviewed(leave, model.LeaveStatusRejected, req.Note, callerID)

	if err := s.transition(ctx, s.repo, leave); err != nil {
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *leaveService) Cancel(ctx context.Context, id string, callerID string) (*dto.LeaveResponse, error) {
	leave, err := s.pendingLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	leave.Status = model.LeaveStatusCancelled
	setUpdatedBy(&leave.BaseModel, callerID)

	if err := s.transition(ctx, s.repo, leave); err != nil {
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

// ── 内部辅助方法 ──

func (s *leaveService) pendingLeave(ctx context.Context, id string) (*model.LeaveRequest, error) {
	leave, err := s.repo.LeaveRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if leave.Status != model.LeaveStatusPending {
		return nil, ErrLeaveNotPending
	}
	return leave, nil
}

// transition 以 pending 为前置条件写入新状态；
// 并发请求已先一步改变状态时返回 ErrLeaveNotPending
func (s *leaveService) transition(ctx context.Context, repo *repository.Repository, leave *model.LeaveRequest) error {
	err := repo.LeaveRequest.TransitionStatus(ctx, leave, model.LeaveStatusPending)
	if err == nil {
		return nil
	}
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		s.logger.Warn("请假申请状态已被并发修改",
			zap.String("leave_request_id", leave.LeaveRequestID),
			zap.String("target_status", leave.Status),
		)
		return ErrLeaveNotPending
	}
	s.logger.Error("更新请假申请状态失败",
		zap.String("leave_request_id", leave.LeaveRequestID),
		zap.String("target_status", leave.Status),
		zap.Error(err),
	)
	return err
}

func (s *leaveService) markReviewed(leave *model.LeaveRequest, status, note, callerID string) {
	now := s.now().UTC()
	leave.Status = status
	leave.ReviewNote = note
	leave.ReviewedAt = &now
	if callerID != "" {
		leave.ReviewedBy = &callerID
	}
	setUpdatedBy(&leave.BaseModel, callerID)
}

func toLeaveResponse(l *model.LeaveRequest) *dto.LeaveResponse {
	resp := &dto.LeaveResponse{
		ID:         l.LeaveRequestID,
		MemberID:   l.MemberID,
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format(dto.DateLayout),
		EndDate:    l.EndDate.Format(dto.DateLayout),
		Days:       int(l.SpanDays()),
		Reason:     l.Reason,
		Status:     l.Status,
		ReviewNote: l.ReviewNote,
	}
	if l.Member != nil {
		resp.MemberName = l.Member.FullName
	}
	if l.ReviewedBy != nil {
		resp.ReviewedBy = *l.ReviewedBy
	}
	if l.ReviewedAt != nil {
		resp.ReviewedAt = l.ReviewedAt.Format(dto.TimeLayout)
	}
	return resp
}
