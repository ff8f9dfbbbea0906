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

// ── 成员模块业务错误 ──

var (
	ErrMemberNotFound     = errors.New("成员不存在")
	ErrMemberInactive     = errors.New("成员已停用")
	ErrEmployeeCodeExists = errors.New("工号已存在")
	ErrInvalidJoinedAt    = errors.New("入职日期格式错误")
)

// MemberService 成员业务接口
type MemberService interface {
	Create(ctx context.Context, req *dto.CreateMemberRequest, callerID string) (*dto.MemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, callerID string) (*dto.MemberResponse, error)
	Deactivate(ctx context.Context, id string, callerID string) error
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest, callerID string) (*dto.MemberResponse, error) {
	org, err := s.repo.Organization.GetByID(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, err
	}
	if !org.IsActive {
		return nil, ErrOrganizationInactive
	}

	code := strings.TrimSpace(req.EmployeeCode)
	existing, err := s.repo.Member.GetByEmployeeCode(ctx, org.OrganizationID, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmployeeCodeExists
	}

	joinedAt := model.DateOnly(time.Now())
	if req.JoinedAt != "" {
		t, err := time.Parse(dto.DateLayout, req.JoinedAt)
		if err != nil {
			return nil, ErrInvalidJoinedAt
		}
		joinedAt = t
	}

	role := req.Role
	if role == "" {
		role = model.MemberRoleMember
	}

	member := &model.Member{
		OrganizationID: org.OrganizationID,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.TrimSpace(req.Email),
		EmployeeCode:   code,
		Role:           role,
		IsActive:       true,
		JoinedAt:       joinedAt,
	}

	if req.GroupID != nil && *req.GroupID != "" {
		group, err := s.groupInOrganization(ctx, *req.GroupID, org.OrganizationID)
		if err != nil {
			return nil, err
		}
		member.GroupID = &group.GroupID
		member.Group = group
	}
	setCreatedBy(&member.BaseModel, callerID)

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建成员失败", zap.Error(err))
		return nil, err
	}

	return toMemberResponse(member), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMemberResponse(member), nil
}

// ────────────────────── List ──────────────────────

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	filters := &repository.MemberListFilters{
		OrganizationID:  req.OrganizationID,
		GroupID:         req.GroupID,
		Keyword:         strings.TrimSpace(req.Keyword),
		IncludeInactive: req.IncludeInactive,
	}

	members, total, err := s.repo.Member.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出成员失败", zap.String("organization_id", req.OrganizationID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toMemberResponse(&members[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest, callerID string) (*dto.MemberResponse, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	if req.FullName != nil {
		member.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		member.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.GroupID != nil {
		if *req.GroupID == "" {
			member.GroupID = nil
			member.Group = nil
		} else {
			group, err := s.groupInOrganization(ctx, *req.GroupID, member.OrganizationID)
			if err != nil {
				return nil, err
			}
			member.GroupID = &group.GroupID
			member.Group = group
		}
	}
	setUpdatedBy(&member.BaseModel, callerID)

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.logger.Error("更新成员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toMemberResponse(member), nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *memberService) Deactivate(ctx context.Context, id string, callerID string) error {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return err
	}
	if !member.IsActive {
		return ErrMemberInactive
	}

	if err := s.repo.Member.Deactivate(ctx, id, callerID); err != nil {
		s.logger.Error("停用成员失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("成员已停用", zap.String("member_id", id), zap.String("organization_id", member.OrganizationID))
	return nil
}

// ── 内部辅助方法 ──

func (s *memberService) getMember(ctx context.Context, id string) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return member, nil
}

// groupInOrganization 成员只能加入本组织的启用部门
func (s *memberService) groupInOrganization(ctx context.Context, groupID, organizationID string) (*model.Group, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询部门失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}
	if !sameOrganization(group.OrganizationID, organizationID) {
		s.logger.Warn("拒绝跨组织分配部门",
			zap.String("organization_id", organizationID),
			zap.String("group_id", groupID),
			zap.String("group_organization_id", group.OrganizationID),
		)
		return nil, ErrGroupOrgMismatch
	}
	if !group.IsActive {
		return nil, ErrGroupInactive
	}
	return group, nil
}

func toMemberResponse(m *model.Member) *dto.MemberResponse {
	resp := &dto.MemberResponse{
		ID:             m.MemberID,
		OrganizationID: m.OrganizationID,
		FullName:       m.FullName,
		Email:          m.Email,
		EmployeeCode:   m.EmployeeCode,
		Role:           m.Role,
		IsActive:       m.IsActive,
		JoinedAt:       m.JoinedAt.Format(dto.DateLayout),
	}
	if g := embeddedGroup(m); g != nil {
		resp.Group = &dto.GroupBrief{ID: g.GroupID, Name: g.Name}
	}
	return resp
}
