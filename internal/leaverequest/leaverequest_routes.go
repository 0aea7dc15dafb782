package leaverequest

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ExtractUserID())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetMine)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.GET("/:id/rejections", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetRejectionHistory)
		leaves.PUT("/:id/resubmit", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Resubmit)
		leaves.PUT("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Cancel)
	}

	balance := r.Group("/balance")
	balance.Use(middleware.AuthMiddleware())
	{
		balance.GET("", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetBalance)
	}

	admin := r.Group("/admin/leaves")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetAll)
		admin.GET("/stats", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetStats)
		admin.GET("/on-leave-today", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetOnLeaveToday)
		admin.GET("/upcoming", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetUpcoming)
		admin.GET("/calendar", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetCalendar)
		admin.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Approve)
		admin.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Reject)
		admin.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.AdminUpdate)
		admin.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.AdminDelete)
	}

	reports := r.Group("/admin/employees")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/leave-summary", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetLeaveSummary)
		reports.GET("/:id/report", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetEmployeeReport)
	}
}
