package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
	"github.com/fachturrpl1/absensi-sub009/internal/model"
	"github.com/fachturrpl1/absensi-sub009/internal/repository"
)

// ── 组织模块业务错误 ──

var (
	ErrOrganizationNotFound   = errors.New("组织不存在")
	ErrOrganizationCodeExists = errors.New("组织编码已存在")
	ErrOrganizationInactive   = errors.New("组织已停用")
	ErrInvalidTimezone        = errors.New("时区无效")
)

// OrganizationService 组织业务接口
type OrganizationService interface {
	Create(ctx context.Context, req *dto.CreateOrganizationRequest, callerID string) (*dto.OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OrganizationResponse, error)
	List(ctx context.Context, req *dto.OrganizationListRequest) ([]dto.OrganizationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOrganizationRequest, callerID string) (*dto.OrganizationResponse, error)
}

type organizationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrganizationService 创建 OrganizationService 实例
func NewOrganizationService(repo *repository.Repository, logger *zap.Logger) OrganizationService {
	return &organizationService{repo: repo, logger: logger}
}

func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest, callerID string) (*dto.OrganizationResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	existing, err := s.repo.Organization.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrOrganizationCodeExists
	}

	tz := req.Timezone
	if tz == "" {
		tz = "Asia/Jakarta"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, ErrInvalidTimezone
	}

	org := &model.Organization{
		Name:     strings.TrimSpace(req.Name),
		Code:     code,
		Timezone: tz,
		IsActive: true,
	}
	setCreatedBy(&org.BaseModel, callerID)

	if err := s.repo.Organization.Create(ctx, org); err != nil {
		s.logger.Error("创建组织失败", zap.Error(err))
		return nil, err
	}

	return toOrganizationResponse(org), nil
}

func (s *organizationService) GetByID(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := s.getOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

func (s *organizationService) List(ctx context.Context, req *dto.OrganizationListRequest) ([]dto.OrganizationResponse, error) {
	orgs, err := s.repo.Organization.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出组织失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		result = append(result, *toOrganizationResponse(&orgs[i]))
	}
	return result, nil
}

func (s *organizationService) Update(ctx context.Context, id string, req *dto.UpdateOrganizationRequest, callerID string) (*dto.OrganizationResponse, error) {
	org, err := s.getOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, ErrInvalidTimezone
		}
		org.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	setUpdatedBy(&org.BaseModel, callerID)

	if err := s.repo.Organization.Update(ctx, org); err != nil {
		s.logger.Error("更新组织失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toOrganizationResponse(org), nil
}

// getOrganization 查询组织并把记录不存在转换为业务错误
func (s *organizationService) getOrganization(ctx context.Context, id string) (*model.Organization, error) {
	org, err := s.repo.Organization.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("查询组织失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return org, nil
}

func toOrganizationResponse(org *model.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:        org.OrganizationID,
		Name:      org.Name,
		Code:      org.Code,
		Timezone:  org.Timezone,
		IsActive:  org.IsActive,
		CreatedAt: org.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt: org.UpdatedAt.Format(dto.TimeLayout),
	}
}
