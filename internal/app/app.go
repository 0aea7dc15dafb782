package app

import (
	"os"
	"strconv"

	"leavedesk/internal/employee"
	"leavedesk/internal/holiday"
	"leavedesk/internal/leaverequest"
	"leavedesk/internal/ledger"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/middleware"
	"leavedesk/internal/notifications"
	"leavedesk/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	router.Use(middleware.RequestID())

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&ledger.EmployeeBalance{},
		&ledger.BalanceHistoryEntry{},
		&leaverequest.LeaveRequest{},
		&leaverequest.RejectionHistoryEntry{},
		&holiday.Holiday{},
	); err != nil {
		return err
	}
	if err := gormDB.Exec(outboxTableDDL).Error; err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	mailer := notifications.NewMailer(smtpConfigFromEnv())
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	return registerModules(router, gormDB, redisClient, outboxRepo, mailer, logger)
}

func smtpConfigFromEnv() notifications.SMTPConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return notifications.SMTPConfig{
		Enabled:  os.Getenv("SMTP_ENABLED") == "true",
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		UseTLS:   os.Getenv("SMTP_STARTTLS") != "false",
	}
}

// AutoMigrate does not cover raw-SQL tables; the outbox keeps its DDL here
// because the worker queries it with raw SQL too.
const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
    id UUID PRIMARY KEY,
    request_id TEXT,
    aggregate_type TEXT NOT NULL,
    aggregate_id UUID NOT NULL,
    event_type TEXT NOT NULL,
    topic TEXT NOT NULL,
    payload JSONB NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    retry_count INT NOT NULL DEFAULT 0,
    error_message TEXT,
    next_retry_at TIMESTAMPTZ,
    processed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
