package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/nimbushr/attendance-gate/internal/config"
	appHTTP "github.com/nimbushr/attendance-gate/internal/handler/http"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
	"github.com/nimbushr/attendance-gate/internal/pkg/jwt"
	"github.com/nimbushr/attendance-gate/internal/repository/postgresql"
	attendanceService "github.com/nimbushr/attendance-gate/internal/service/attendance"
	auditService "github.com/nimbushr/attendance-gate/internal/service/audit"
	authService "github.com/nimbushr/attendance-gate/internal/service/auth"
	"github.com/nimbushr/attendance-gate/internal/service/master"
	staffService "github.com/nimbushr/attendance-gate/internal/service/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	staffRepo := postgresql.NewStaffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	deviceRadiusRepo := postgresql.NewDeviceRadiusRepository(db)
	deviceSessionRepo := postgresql.NewDeviceSessionRepository(db)
	leaveStatusRepo := postgresql.NewLeaveStatusRepository(db)
	auditLogRepo := postgresql.NewAuditLogRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	policy, err := attendanceService.NewTimePolicy(cfg.Policy)
	if err != nil {
		log.Fatal("Failed to build time policy:", err)
	}

	recorder := auditService.NewRecorder(auditLogRepo)
	authSvc := authService.NewAuthService(staffRepo, JWTService)
	staffSvc := staffService.NewStaffService(staffRepo, recorder)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		locationRepo,
		deviceRadiusRepo,
		deviceSessionRepo,
		leaveStatusRepo,
		settingsRepo,
		recorder,
		policy,
	)
	masterSvc := master.NewMasterService(
		db,
		locationRepo,
		deviceRadiusRepo,
		leaveStatusRepo,
		settingsRepo,
		recorder,
	)
	auditSvc := auditService.NewService(auditLogRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	staffHandler := appHTTP.NewStaffHandler(staffSvc)
	masterHandler := appHTTP.NewMasterHandler(masterSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		authHandler,
		attendanceHandler,
		staffHandler,
		masterHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
