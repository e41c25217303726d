package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/featureflags"
	"github.com/aryan0dhankhar/hrportal/internal/handler"
	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/hrportal/internal/mail"
	"github.com/aryan0dhankhar/hrportal/internal/observability/tracing"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
	"github.com/aryan0dhankhar/hrportal/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/hrportal/internal/reliability/retry"
	"github.com/aryan0dhankhar/hrportal/internal/repository/memory"
	"github.com/aryan0dhankhar/hrportal/internal/repository/postgres"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/audit"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/middleware"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrportal/internal/service"
	"github.com/aryan0dhankhar/hrportal/internal/worker"
	"github.com/aryan0dhankhar/hrportal/pkg/config"
	"github.com/aryan0dhankhar/hrportal/pkg/database"
)

const realtimeChannel = "hrportal:realtime"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	flags := featureflags.Load()
	log.Info("starting HR portal server",
		slog.String("environment", cfg.Environment),
		slog.String("storage", cfg.Storage),
		slog.Bool("require_verified_login", flags.RequireVerifiedLogin),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.ConfigFromEnv("hrportal", cfg.Environment), log)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Initialize storage
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	// 4. Initialize Redis client, rate limiter and realtime bus
	var (
		redisClient *redis.Client
		limiter     ratelimit.Limiter
		bus         realtime.Bus
		redisProbe  handler.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedis(redisClient.Universal(), "hrportal:ratelimit:")
		bus = realtime.NewRedisBus(redisClient, realtimeChannel, log)
		redisProbe = redisClient
	} else {
		log.Warn("REDIS_URL not set: using in-process rate limiting and realtime fan-out")
		memLimiter := ratelimit.NewMemory()
		defer memLimiter.Stop()
		limiter = memLimiter
		bus = realtime.NewLocalBus()
	}

	hub := realtime.NewHub(bus, log)
	go func() {
		if err := hub.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("realtime hub stopped", slog.String("error", err.Error()))
		}
	}()

	// 5. Initialize mail delivery
	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			TLS:      cfg.SMTP.TLS,
		})
	}
	sender = mail.NewResilient(sender, retry.DefaultConfig(), circuitbreaker.NewCircuitBreaker(5, 1, time.Minute), log)
	mailer := mail.NewMailer(sender, log)

	// 6. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authz := security.NewAuthorizationService(log)
	auditLogger := audit.NewLogger(log)
	authenticator := middleware.NewAuthenticator(tokenManager, middleware.AuthenticatorConfig{
		AllowQueryToken: cfg.AllowQueryToken,
		SecureCookie:    cfg.CookieSecure,
		LoginURL:        cfg.ClientURL + "/auth/HR/login",
	}, auditLogger, log)

	// 7. Initialize services
	deps := service.Deps{Store: store, Notifier: hub, Authz: authz, Audit: auditLogger, Logger: log}
	dashboardService := service.NewDashboardService(deps, cfg.DashboardCacheTTL)
	deps.Notifier = dashboardService.Invalidating(hub)

	issuer := auth.NewIssuer(tokenManager, store.Credentials(), cfg.CookieSecure, log)
	authService := service.NewAuthService(deps, issuer, mailer, limiter, service.AuthConfig{
		ClientURL:  cfg.ClientURL,
		LoginLimit: cfg.LoginRateLimit,
		Flags:      flags,
	})
	salaryService := service.NewSalaryService(deps)

	// 8. Initialize handlers and routes
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.CookieSecure, log),
		Employees:    handler.NewEmployeeHandler(service.NewEmployeeService(deps), log),
		HRs:          handler.NewHRHandler(service.NewHRService(deps), log),
		Departments:  handler.NewDepartmentHandler(service.NewDepartmentService(deps), log),
		Salaries:     handler.NewSalaryHandler(salaryService, log),
		Leaves:       handler.NewLeaveHandler(service.NewLeaveService(deps), log),
		Requests:     handler.NewRequestHandler(service.NewRequestService(deps), log),
		Attendance:   handler.NewAttendanceHandler(service.NewAttendanceService(deps), log),
		Notices:      handler.NewNoticeHandler(service.NewNoticeService(deps), log),
		Schedules:    handler.NewScheduleHandler(service.NewScheduleService(deps), log),
		Recruitment:  handler.NewRecruitmentHandler(service.NewRecruitmentService(deps), log),
		Organization: handler.NewOrganizationHandler(service.NewOrganizationService(deps), dashboardService, log),
		Health:       handler.NewHealthHandler(store, redisProbe, log),
		Realtime:     realtime.NewHandler(hub, authenticator, cfg.CORSAllowedOrigins, flags.PublicRealtime, log),
	}
	router := handler.NewRouter(handlers, handler.RouterConfig{
		Authenticator: authenticator,
		Authz:         authz,
		Audit:         auditLogger,
		Limiter:       limiter,
		RateLimit:     cfg.RateLimitPerMinute,
		RateWindow:    time.Minute,
		Logger:        log,
	})

	// Chain middleware: request ID -> CORS -> tracing -> routes
	rootHandler := withRequestID(withCORS(tracing.Middleware(router), cfg.CORSAllowedOrigins), log)

	// 9. Start payroll worker in background
	payrollWorker := worker.NewPayrollWorker(store.Credentials(), salaryService, log, cfg.PayrollSweepInterval)
	go payrollWorker.Start(ctx)

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop payroll worker and realtime hub
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

// openStore connects the configured backend and applies migrations when
// enabled.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.Store, func(), error) {
	if cfg.Storage == "memory" {
		log.Warn("using in-memory storage: data is lost on restart")
		return memory.New(), func() {}, nil
	}

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(cfg.Database.URL(), log)
		if err != nil {
			return nil, nil, fmt.Errorf("open migrator: %w", err)
		}
		runErr := migrator.Run("up")
		closeErr := migrator.Close()
		if err := errors.Join(runErr, closeErr); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := database.NewConnectionPool(ctx, &cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := pool.Close(); err != nil {
			log.Warn("close database", slog.String("error", err.Error()))
		}
	}
	return postgres.New(pool.GetDB(), log), closeFn, nil
}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		ctx := audit.WithRequestID(r.Context(), reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

// withCORS honors configured origins. Credentials are allowed because the
// session travels in a cookie.
func withCORS(next http.Handler, allowed []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else if len(allowed) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", allowed[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
