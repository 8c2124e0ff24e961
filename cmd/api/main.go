package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/leave-ledger/internal/config"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/leave-ledger/internal/handler/http"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/leave-ledger/internal/repository/memory"
	"github.com/cmlabs-hris/leave-ledger/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/leave-ledger/internal/service/auth"
	employeeService "github.com/cmlabs-hris/leave-ledger/internal/service/employee"
	leaveService "github.com/cmlabs-hris/leave-ledger/internal/service/leave"
	notificationService "github.com/cmlabs-hris/leave-ledger/internal/service/notification"
	"github.com/go-chi/httplog/v3"
	"github.com/ulule/limiter/v3"
	limiterMemory "github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/sync/errgroup"
)

const (
	appName         = "leave-ledger"
	appVersion      = "v1.0.0"
	shutdownTimeout = 15 * time.Second
	sseBuffer       = 16
)

// stores bundles the repository ports for one STORE_DRIVER
type stores struct {
	employees     employee.EmployeeRepository
	requests      leave.LeaveRequestRepository
	balances      leave.LeaveBalanceRepository
	notifications notification.Repository
	tx            leave.TransactionManager
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(app.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", app.Env),
	)
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.Database.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		if cfg.Database.SeedFile == "" {
			slog.Warn("using in-memory store without STORE_SEED_FILE; every request will fail authentication until employees exist")
		} else {
			seed, err := memory.LoadSeed(cfg.Database.SeedFile)
			if err != nil {
				return stores{}, err
			}
			if err := store.ApplySeed(seed); err != nil {
				return stores{}, fmt.Errorf("apply seed file: %w", err)
			}
			slog.Info("in-memory store seeded",
				"file", cfg.Database.SeedFile,
				"employees", len(seed.Employees),
				"balances", len(seed.Balances),
			)
		}
		return stores{
			employees:     store.Employees(),
			requests:      store.LeaveRequests(),
			balances:      store.LeaveBalances(),
			notifications: store.Notifications(),
			tx:            store.Transactions(),
			close:         func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.Options{
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		StatementTimeout: cfg.Database.StatementTimeout,
	})
	if err != nil {
		return stores{}, fmt.Errorf("connect to database: %w", err)
	}

	return stores{
		employees:     postgresql.NewEmployeeRepository(db),
		requests:      postgresql.NewLeaveRequestRepository(db),
		balances:      postgresql.NewLeaveBalanceRepository(db),
		notifications: postgresql.NewNotificationRepository(db),
		tx:            postgresql.NewTransactionManager(db.Pool),
		close:         db.Close,
	}, nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	hub := sse.NewHub(sseBuffer)
	defer hub.Close()

	notifSvc := notificationService.NewNotificationService(st.notifications, st.employees, st.requests, hub, notificationService.Config{
		BatchSize:     cfg.Notify.BatchSize,
		FlushInterval: cfg.Notify.FlushInterval,
		WorkerCount:   cfg.Notify.Workers,
		QueueSize:     cfg.Notify.QueueSize,
	})
	defer notifSvc.Stop()

	registry := leaveService.NewRegistry(st.requests)
	ledger := leaveService.NewLedger(st.balances)
	workflow := leaveService.NewWorkflow(st.tx, registry, ledger, notifSvc)
	leaveSvc := leaveService.NewLeaveService(registry, ledger, workflow, notifSvc, cfg.Database.StatementTimeout)
	employeeSvc := employeeService.NewEmployeeService(st.employees)

	scheduler := cron.NewScheduler(logger)
	cron.NewLedgerJobs(leaveService.NewReconciler(st.balances, ledger, cfg.Reconcile.Grace), cfg.Reconcile.Interval).
		RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	rate, err := limiter.NewRateFromFormatted(cfg.HTTP.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.HTTP.RateLimit, err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:              logger,
		AllowedOrigins:      cfg.HTTP.AllowedOrigins,
		RateLimiter:         limiter.New(limiterMemory.NewStore(), rate),
		JWTService:          JWTService,
		Guard:               serviceAuth.NewGuard(),
		EmployeeService:     employeeSvc,
		LeaveHandler:        appHTTP.NewLeaveHandler(leaveSvc),
		EmployeeHandler:     appHTTP.NewEmployeeHandler(employeeSvc),
		NotificationHandler: appHTTP.NewNotificationHandler(notifSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", "addr", server.Addr, "store", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Open SSE streams end when the hub closes their channels.
		hub.Close()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
