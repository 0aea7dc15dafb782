package ledger

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balance := r.Group("/balance")
	balance.Use(middleware.AuthMiddleware())
	{
		balance.GET("/history", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetHistory)
	}

	admin := r.Group("/admin/employees")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/:id/balance", middleware.RBACAuthorize(rbacService, "employee", "read_all"), handler.GetEmployeeBalance)
	}
}
