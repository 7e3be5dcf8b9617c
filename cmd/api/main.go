package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/config"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/orders"
	appHTTP "github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/cache"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/cron"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/database"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/jwt"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/migration"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/shedsuite"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/sse"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/repository/postgresql"
	auditService "github.com/ridgeline-buildings/salescomp-backend-go/internal/service/audit"
	ledgerService "github.com/ridgeline-buildings/salescomp-backend-go/internal/service/ledger"
	payplanService "github.com/ridgeline-buildings/salescomp-backend-go/internal/service/payplan"
	representativeService "github.com/ridgeline-buildings/salescomp-backend-go/internal/service/representative"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()

	if cfg.Database.MigrationsPath != "" {
		if err := migration.Up(dsn, cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to run migrations: ", err)
		}
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	repRepo := postgresql.NewRepresentativeRepository(db)
	payPlanRepo := postgresql.NewPayPlanRepository(db)
	officePlanRepo := postgresql.NewOfficePlanRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	hub := sse.NewHub()

	var cacheStore cache.Store
	if cfg.Redis.Addr != "" {
		cacheStore, err = cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
	} else {
		cacheStore = cache.NewNoopStore()
	}

	var statsSource orders.StatsSource
	sourceMode := orders.SourceMode(cfg.OrderSource.Mode)
	switch sourceMode {
	case orders.SourceModeLocal:
		statsSource = postgresql.NewOrderStatsRepository(db)
	case orders.SourceModeShedSuite:
		client := shedsuite.NewClient(shedsuite.Config{
			BaseURL: cfg.OrderSource.BaseURL,
			APIKey:  cfg.OrderSource.APIKey,
			Timeout: cfg.OrderSource.Timeout,
		})
		statsSource = shedsuite.NewStatsSource(client, repRepo)
	default:
		log.Fatal("Unsupported order source: ", cfg.OrderSource.Mode)
	}

	calculator := ledgerService.NewCalculator()
	ledgerSvc := ledgerService.NewLedgerService(
		txManager,
		ledgerRepo,
		repRepo,
		payPlanRepo,
		officePlanRepo,
		statsSource,
		sourceMode,
		calculator,
		cacheStore,
		hub,
	)
	payPlanSvc := payplanService.NewPayPlanService(txManager, payPlanRepo, officePlanRepo, repRepo)
	repSvc := representativeService.NewRepresentativeService(repRepo)
	auditSvc := auditService.NewAuditService(auditRepo)

	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc, auditSvc, JWTService, hub)
	payPlanHandler := appHTTP.NewPayPlanHandler(payPlanSvc, auditSvc)
	repHandler := appHTTP.NewRepresentativeHandler(repSvc)
	auditHandler := appHTTP.NewAuditHandler(auditSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppEnv:         cfg.App.Env,
			LogLevel:       cfg.App.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		ledgerHandler,
		payPlanHandler,
		repHandler,
		auditHandler,
	)

	if cfg.AutoRefresh.Enabled {
		scheduler := cron.NewScheduler()
		ledgerJobs := cron.NewLedgerJobs(ledgerSvc, auditSvc)
		ledgerJobs.RegisterJobs(scheduler, cfg.AutoRefresh.Interval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
