package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fachturrpl1/absensi-sub009/internal/dto"
)

// ── 测试辅助 ──

func setupTestMemberService() (MemberService, *testRepos) {
	repos := newTestRepos()
	seedOrg1(repos)
	return NewMemberService(repos.repo, zap.NewNop()), repos
}

// ── Create 测试 ──

func TestMemberService_Create_Success(t *testing.T) {
	svc, _ := setupTestMemberService()

	result, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		OrganizationID: "ORG1",
		GroupID:        strPtr("g-sales"),
		FullName:       "Dewi",
		EmployeeCode:   "E-100",
		JoinedAt:       "2024-02-01",
	}, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Role != "member" {
		t.Errorf("期望默认Role=member，实际=%s", result.Role)
	}
	if result.Group == nil || result.Group.Name != "Sales" {
		t.Errorf("期望所属部门为Sales，实际=%+v", result.Group)
	}
	if result.JoinedAt != "2024-02-01" {
		t.Errorf("期望JoinedAt=2024-02-01，实际=%s", result.JoinedAt)
	}
}

func TestMemberService_Create_CrossOrganizationGroupRejected(t *testing.T) {
	svc, _ := setupTestMemberService()

	_, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		OrganizationID: "ORG1",
		GroupID:        strPtr("g-other"),
		FullName:       "Eka",
		EmployeeCode:   "E-101",
	}, "")
	if !errors.Is(err, ErrGroupOrgMismatch) {
		t.Errorf("期望 ErrGroupOrgMismatch，实际: %v", err)
	}
}

func TestMemberService_Create_EmployeeCodeExists(t *testing.T) {
	svc, _ := setupTestMemberService()

	// seedOrg1 中 m1 的工号为 E-m1
	_, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		OrganizationID: "ORG1",
		FullName:       "Fajar",
		EmployeeCode:   "E-m1",
	}, "")
	if !errors.Is(err, ErrEmployeeCodeExists) {
		t.Errorf("期望 ErrEmployeeCodeExists，实际: %v", err)
	}
}

func TestMemberService_Create_InvalidJoinedAt(t *testing.T) {
	svc, _ := setupTestMemberService()

	_, err := svc.Create(context.Background(), &dto.CreateMemberRequest{
		OrganizationID: "ORG1",
		FullName:       "Gita",
		EmployeeCode:   "E-102",
		JoinedAt:       "01/02/2024",
	}, "")
	if !errors.Is(err, ErrInvalidJoinedAt) {
		t.Errorf("期望 ErrInvalidJoinedAt，实际: %v", err)
	}
}

// ── GetByID / List 测试 ──

func TestMemberService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestMemberService()

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("期望 ErrMemberNotFound，实际: %v", err)
	}
}

func TestMemberService_List_FilterAndPaginate(t *testing.T) {
	svc, _ := setupTestMemberService()

	req := &dto.MemberListRequest{OrganizationID: "ORG1", GroupID: "g-eng"}
	req.PageSize = 1
	members, total, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("期望total=2，实际=%d", total)
	}
	if len(members) != 1 || members[0].FullName != "Andi" {
		t.Errorf("期望第一页只有Andi，实际=%+v", members)
	}
}

// ── Update 测试 ──

func TestMemberService_Update_MoveAndRemoveGroup(t *testing.T) {
	svc, repos := setupTestMemberService()

	result, err := svc.Update(context.Background(), "m1", &dto.UpdateMemberRequest{GroupID: strPtr("g-sales")}, "")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Group == nil || result.Group.ID != "g-sales" {
		t.Errorf("期望调到Sales，实际=%+v", result.Group)
	}

	result, err = svc.Update(context.Background(), "m1", &dto.UpdateMemberRequest{GroupID: strPtr("")}, "")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Group != nil || repos.member.members["m1"].GroupID != nil {
		t.Error("group_id 为空字符串时应移出部门")
	}
}

func TestMemberService_Update_CrossOrganizationGroupRejected(t *testing.T) {
	svc, repos := setupTestMemberService()

	_, err := svc.Update(context.Background(), "m1", &dto.UpdateMemberRequest{GroupID: strPtr("g-other")}, "")
	if !errors.Is(err, ErrGroupOrgMismatch) {
		t.Errorf("期望 ErrGroupOrgMismatch，实际: %v", err)
	}
	if *repos.member.members["m1"].GroupID != "g-eng" {
		t.Error("拒绝后成员部门不应改变")
	}
}

// ── Deactivate 测试 ──

func TestMemberService_Deactivate(t *testing.T) {
	svc, repos := setupTestMemberService()

	if err := svc.Deactivate(context.Background(), "m2", "admin-001"); err != nil {
		t.Fatalf("Deactivate 应成功: %v", err)
	}
	if repos.member.members["m2"].IsActive {
		t.Error("成员应已停用")
	}
	if err := svc.Deactivate(context.Background(), "m2", ""); !errors.Is(err, ErrMemberInactive) {
		t.Errorf("重复停用期望 ErrMemberInactive，实际: %v", err)
	}
	if _, err := svc.Update(context.Background(), "m2", &dto.UpdateMemberRequest{FullName: strPtr("X Y")}, ""); !errors.Is(err, ErrMemberInactive) {
		t.Errorf("停用成员不可更新，实际: %v", err)
	}
}
