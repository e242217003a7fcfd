package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Equipment *zap.Logger
	Request   *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)

	// --- Репозитории ---
	teamRepo := repositories.NewTeamRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, teamRepo, jwtSvc, loggers.Auth)
	teamService := services.NewTeamService(teamRepo, loggers.Main)
	userService := services.NewUserService(userRepo, teamRepo, loggers.Main)
	equipmentService := services.NewEquipmentService(
		equipmentRepo, requestRepo, cacheRepo, cfg.Cache.EquipmentDefaultsTTL, loggers.Equipment)
	requestService := services.NewRequestService(
		requestRepo, equipmentRepo, txManager, bus, loggers.Request)
	reportService := services.NewReportService(requestRepo, loggers.Main)

	// --- Слушатели событий ---
	notificationListener := listeners.NewNotificationListener(userRepo, loggers.Main)
	notificationListener.Register(bus)

	// --- Контроллеры ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	teamController := controllers.NewTeamController(teamService, loggers.Main)
	userController := controllers.NewUserController(userService, loggers.Main)
	equipmentController := controllers.NewEquipmentController(equipmentService, loggers.Equipment)
	requestController := controllers.NewRequestController(requestService, loggers.Request)
	reportController := controllers.NewReportController(reportService, loggers.Main)

	// --- Роутеры ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runTeamRouter(api, secureGroup, teamController)
	runUserRouter(api, secureGroup, userController)
	runEquipmentRouter(api, secureGroup, equipmentController)
	runRequestRouter(secureGroup, requestController)
	runReportRouter(secureGroup, reportController)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
}
