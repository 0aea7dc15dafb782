package app

import (
	"os"

	"leavedesk/internal/auth"
	"leavedesk/internal/employee"
	"leavedesk/internal/holiday"
	"leavedesk/internal/leaverequest"
	"leavedesk/internal/ledger"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notifications"
	"leavedesk/internal/rbac"
	"leavedesk/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	outboxRepo kafka.OutboxRepository,
	mailer notifications.Mailer,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	leaveRepo := leaverequest.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	notifier := notifications.NewNotifier(mailer, os.Getenv("MAIL_FROM"), logger)
	ledgerService := ledger.NewService(ledgerRepo, rdb, logger)
	authService := auth.NewService(gormDB, employeeRepo, outboxRepo, logger)
	employeeService := employee.NewService(employeeRepo, logger)
	leaveService := leaverequest.NewService(
		gormDB,
		leaveRepo,
		ledgerService,
		employeeRepo,
		outboxRepo,
		notifier,
		logger,
	)
	holidayService := holiday.NewService(holidayRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService, logger)
	ledgerHandler := ledger.NewHandler(ledgerService, logger)
	leaveHandler := leaverequest.NewHandler(leaveService, logger)
	holidayHandler := holiday.NewHandler(holidayService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
	}

	return nil
}
