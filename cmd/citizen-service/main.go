package main

import (
	"fmt"
	"os"

	"citizen-service/internal/auth"
	"citizen-service/internal/config"
	"citizen-service/internal/db"
	httphandler "citizen-service/internal/http"
	"citizen-service/internal/http/middleware"
	"citizen-service/internal/logger"
	"citizen-service/internal/repository"
	"citizen-service/internal/service"
	"citizen-service/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	userRepo := repository.NewUserRepository(database)
	complaintRepo := repository.NewComplaintRepository(database)
	noticeRepo := repository.NewNoticeRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	paymentRepo := repository.NewPaymentRepository(database)

	redisClient := session.NewRedis(cfg.Redis, log)
	sessionStore := session.NewStore(redisClient, userRepo, cfg.Session.TTL, log)

	fanout := service.NewNoticeFanout(notificationRepo, userRepo, log)

	complaintService := service.NewComplaintService(complaintRepo, userRepo, notificationRepo, log)
	noticeService := service.NewNoticeService(noticeRepo, fanout, log)
	notificationService := service.NewNotificationService(notificationRepo)
	paymentService := service.NewPaymentService(paymentRepo)
	dashboardService := service.NewDashboardService(complaintRepo, cfg.Dashboard.MaxWindowRows)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(complaintService, noticeService, notificationService, paymentService, dashboardService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser, sessionStore), cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting citizen service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
