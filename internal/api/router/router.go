package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fachturrpl1/absensi-sub009/config"
	"github.com/fachturrpl1/absensi-sub009/internal/api/handler"
	"github.com/fachturrpl1/absensi-sub009/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；db 为 nil 时健康检查跳过数据库探测
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		// 组织模块
		orgs := v1.Group("/organizations")
		{
			orgs.GET("", h.Organization.ListOrganizations)
			orgs.GET("/:id", h.Organization.GetOrganization)
			orgs.POST("", h.Organization.CreateOrganization)
			orgs.PUT("/:id", h.Organization.UpdateOrganization)
		}

		// 部门模块
		groups := v1.Group("/groups")
		{
			groups.GET("", h.Group.ListGroups)
			groups.GET("/:id", h.Group.GetGroup)
			groups.POST("", h.Group.CreateGroup)
			groups.PUT("/:id", h.Group.UpdateGroup)
			groups.DELETE("/:id", h.Group.DeleteGroup)
		}

		// 成员模块
		members := v1.Group("/members")
		{
			members.GET("", h.Member.ListMembers)
			members.GET("/:id", h.Member.GetMember)
			members.POST("", h.Member.CreateMember)
			members.PUT("/:id", h.Member.UpdateMember)
			members.POST("/:id/deactivate", h.Member.DeactivateMember)
		}

		// 考勤模块
		attendance := v1.Group("/attendance")
		{
			attendance.GET("", h.Attendance.ListAttendance)
			attendance.POST("", h.Attendance.RecordAttendance)
			attendance.POST("/check-in", h.Attendance.CheckIn)
			attendance.POST("/check-out", h.Attendance.CheckOut)
		}

		// 请假模块
		leaves := v1.Group("/leaves")
		{
			leaves.GET("", h.Leave.ListLeaves)
			leaves.POST("", h.Leave.SubmitLeave)
			leaves.GET("/calendar.ics", h.Leave.LeaveCalendar)
			leaves.POST("/:id/approve", h.Leave.ApproveLeave)
			leaves.POST("/:id/reject", h.Leave.RejectLeave)
			leaves.POST("/:id/cancel", h.Leave.CancelLeave)
		}

		// 报表模块
		reports := v1.Group("/reports")
		{
			reports.GET("/attendance-by-group", h.Report.AttendanceByGroup)
			reports.GET("/member-performance", h.Report.MemberPerformance)
			reports.GET("/dashboard", h.Report.Dashboard)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/attendance-by-group", h.Export.ExportAttendanceByGroup)
		}
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
