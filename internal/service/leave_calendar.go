package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/internal/model"
)

// ── 请假日历导出 ──────────────────────────────────────────────
//
// 已批准的请假发布为 iCalendar (RFC 5545) 订阅源：
//   - 每条请假一个全天 VEVENT，UID 固定为请假 ID，重复订阅不会产生重复事件
//   - DTEND 取结束日的次日（RFC 5545 全天事件的结束日期不含当天）
//   - 待审批、已驳回、已撤销的申请不出现在日历中
// ─────────────────────────────────────────────────────────────

const leaveCalendarProductID = "-//absensi//leave calendar//ID"

// Calendar 生成组织内已批准请假的 .ics 内容与建议文件名
func (s *leaveService) Calendar(ctx context.Context, organizationID string) (string, string, error) {
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrOrganizationNotFound
		}
		s.logger.Error("查询组织失败", zap.String("organization_id", organizationID), zap.Error(err))
		return "", "", err
	}

	leaves, err := s.repo.LeaveRequest.ListApproved(ctx, org.OrganizationID)
	if err != nil {
		s.logger.Error("查询已批准请假失败", zap.String("organization_id", org.OrganizationID), zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(leaveCalendarProductID)
	cal.SetXWRCalName(org.Name + " 请假日历")

	stamp := s.now().UTC()
	for i := range leaves {
		leave := &leaves[i]
		event := cal.AddEvent(leave.LeaveRequestID)
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(leave.StartDate)
		event.SetAllDayEndAt(leave.EndDate.AddDate(0, 0, 1))
		event.SetSummary(leaveEventSummary(leave))
		if reason := strings.TrimSpace(leave.Reason); reason != "" {
			event.SetDescription(reason)
		}
	}

	filename := fmt.Sprintf("leave_%s.ics", org.Code)
	return cal.Serialize(), filename, nil
}

func leaveEventSummary(l *model.LeaveRequest) string {
	name := l.MemberID
	if l.Member != nil && l.Member.FullName != "" {
		name = l.Member.FullName
	}
	return fmt.Sprintf("%s（%s）", name, l.LeaveType)
}
