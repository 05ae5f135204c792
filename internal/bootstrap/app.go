package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/hr_data_bridge/internal/config"
	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/handler"
	"github.com/locvowork/hr_data_bridge/internal/logger"
	"github.com/locvowork/hr_data_bridge/internal/repository"
	"github.com/locvowork/hr_data_bridge/internal/service"
)

type App struct {
	Echo    *echo.Echo
	DB      *sql.DB
	Elastic *database.ElasticSearchClient
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize primary store connection
	dbConfig := database.Config{
		Host:            config.DefaultEnvConfig.DB_HOST,
		Port:            config.DefaultEnvConfig.DB_PORT,
		User:            config.DefaultEnvConfig.DB_USER,
		Password:        config.DefaultEnvConfig.DB_PASSWORD,
		DBName:          config.DefaultEnvConfig.DB_NAME,
		SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}

	db, err := database.NewPostgresDB(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	if err := database.RunMigrations(db, config.DefaultEnvConfig.MIGRATIONS_DIR); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.InfoLog(ctx, "Primary store ready, migrations applied")

	// Initialize replica store connection
	es, err := database.NewElasticSearchClient(
		config.DefaultEnvConfig.ES_URL,
		config.DefaultEnvConfig.LOCAL_EMPLOYEES_INDEX,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize elasticsearch: %w", err)
	}
	if err := es.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure local employee index: %w", err)
	}
	a.Elastic = es
	logger.InfoLog(ctx, "Replica store ready")

	// Initialize dependencies
	empRepo := repository.NewEmployeeRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	empSvc := service.NewEmployeeService(empRepo)
	crossSvc := service.NewCrossQueryService(empRepo, es, 500, 4)

	empHandler := handler.NewEmployeeHandler(empSvc)
	deptHandler := handler.NewDepartmentHandler(deptRepo, empSvc)
	localHandler := handler.NewLocalEmployeeHandler(es)
	crossHandler := handler.NewCrossQueryHandler(crossSvc)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(empHandler, deptHandler, localHandler, crossHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(
	empHandler *handler.EmployeeHandler,
	deptHandler *handler.DepartmentHandler,
	localHandler *handler.LocalEmployeeHandler,
	crossHandler *handler.CrossQueryHandler,
) {
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees", empHandler.ListHandler)
	a.Echo.GET("/employees/:id", empHandler.GetHandler)
	a.Echo.PUT("/employees/:id/salary", empHandler.UpdateSalaryHandler)
	a.Echo.GET("/employees/:id/tenure", empHandler.TenureHandler)

	a.Echo.GET("/departments", deptHandler.ListHandler)
	a.Echo.GET("/departments/:name/budget", deptHandler.BudgetHandler)
	a.Echo.GET("/departments/:name/employees", deptHandler.EmployeesHandler)

	a.Echo.POST("/local-employees", localHandler.CreateHandler)
	a.Echo.GET("/local-employees", localHandler.ListHandler)
	a.Echo.GET("/local-employees/:id", localHandler.GetHandler)
	a.Echo.DELETE("/local-employees/:id", localHandler.DeleteHandler)

	crossGroup := a.Echo.Group("/cross")
	crossGroup.GET("/employees", crossHandler.JoinHandler)
	crossGroup.GET("/employees/export", crossHandler.ExportHandler)

	a.Echo.GET("/healthz", a.HealthHandler)
}

// HealthHandler pings the primary store; the replica is reported but a
// failure there does not fail the check, matching how the old setup
// treated the secondary database as best-effort.
func (a *App) HealthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"primary": err.Error(),
		})
	}

	status := map[string]string{"status": "ok", "primary": "ok", "replica": "ok"}
	if err := a.Elastic.Ping(ctx); err != nil {
		status["replica"] = "unreachable"
	}
	return c.JSON(http.StatusOK, status)
}

func (a *App) Run() error {
	defer a.DB.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
