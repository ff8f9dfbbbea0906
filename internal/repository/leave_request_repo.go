package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/internal/model"
	pkgerrors "github.com/fachturrpl1/absensi-sub009/pkg/errors"
)

// LeaveListFilters 请假申请查询条件
type LeaveListFilters struct {
	OrganizationID string
	MemberID       string
	Status         string
}

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, leave *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListWithFilters(ctx context.Context, filters *LeaveListFilters, offset, limit int) ([]model.LeaveRequest, int64, error)
	// TransitionStatus 仅当当前状态仍为 from 时写入新状态与审批信息；
	// 状态已被其他请求改变时返回 pkgerrors.ErrOptimisticLock
	TransitionStatus(ctx context.Context, leave *model.LeaveRequest, from string) error
	// ListApproved 组织内已批准的请假，按开始日期排序
	ListApproved(ctx context.Context, organizationID string) ([]model.LeaveRequest, error)
	CountPending(ctx context.Context, organizationID string) (int64, error)
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, leave *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Member").Create(leave).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("leave_request_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRequestRepo) ListWithFilters(ctx context.Context, filters *LeaveListFilters, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var leaves []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).
		Where("organization_id = ?", filters.OrganizationID)
	if filters.MemberID != "" {
		db = db.Where("member_id = ?", filters.MemberID)
	}
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Member").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&leaves).Error; err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *leaveRequestRepo) TransitionStatus(ctx context.Context, leave *model.LeaveRequest, from string) error {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("leave_request_id = ? AND status = ?", leave.LeaveRequestID, from).
		Updates(map[string]interface{}{
			"status":      leave.Status,
			"review_note": leave.ReviewNote,
			"reviewed_by": leave.ReviewedBy,
			"reviewed_at": leave.ReviewedAt,
			"updated_by":  leave.UpdatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *leaveRequestRepo) ListApproved(ctx context.Context, organizationID string) ([]model.LeaveRequest, error) {
	var leaves []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("organization_id = ? AND status = ?", organizationID, model.LeaveStatusApproved).
		Order("start_date ASC, leave_request_id ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRequestRepo) CountPending(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("organization_id = ? AND status = ?", organizationID, model.LeaveStatusPending).
		Count(&count).Error
	return count, err
}
