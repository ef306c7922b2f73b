package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/ems-backend-go/internal/service/analytics"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	correctionService "github.com/cmlabs-hris/ems-backend-go/internal/service/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	settingsService "github.com/cmlabs-hris/ems-backend-go/internal/service/settings"
	staffService "github.com/cmlabs-hris/ems-backend-go/internal/service/staff"
	taskService "github.com/cmlabs-hris/ems-backend-go/internal/service/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone: ", err)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	staffRepo := postgresql.NewStaffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	otpRepo := postgresql.NewOTPRepository(db)
	analyticsRepo := postgresql.NewAnalyticsRepository(db)

	// Durations were checked by config.Validate.
	accessExp, _ := time.ParseDuration(cfg.JWT.AccessExpiration)
	refreshExp, _ := time.ParseDuration(cfg.JWT.RefreshExpiration)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExp, refreshExp, cfg.App.Env == "production")

	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google)
	} else {
		slog.Info("Google sign-in disabled, GOOGLE_CLIENT_ID/SECRET/REDIRECT_URL not set")
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authService := serviceAuth.NewAuthService(
		transactor,
		staffRepo,
		JWTRepository,
		otpRepo,
		JWTService,
		emailService,
		GoogleService,
		cfg.OTP.TTL,
	)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, settingsRepo, loc)
	correctionSvc := correctionService.NewCorrectionService(
		transactor,
		correctionRepo,
		staffRepo,
		attendanceService.NewLedger(attendanceRepo),
		loc,
	)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, staffRepo, loc)
	taskSvc := taskService.NewTaskService(taskRepo, staffRepo)
	staffSvc := staffService.NewStaffService(staffRepo)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepo, loc)

	handlers := appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService, cfg.App.FrontendURL),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, fileService, loc),
		Correction: appHTTP.NewCorrectionHandler(correctionSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc),
		Staff:      appHTTP.NewStaffHandler(staffSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Analytics:  appHTTP.NewAnalyticsHandler(analyticsSvc),
	}

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		LogLevel:       cfg.LogLevel(),
		GoogleEnabled:  GoogleService != nil,
	}, JWTService, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	cron.NewAuthJobs(authService).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
