// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/staffhubhq/staffhub/internal/auth"
	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/staffhubhq/staffhub/internal/email"
	"github.com/staffhubhq/staffhub/internal/entitlement"
	"github.com/staffhubhq/staffhub/internal/handler"
	"github.com/staffhubhq/staffhub/internal/middleware"
	"github.com/staffhubhq/staffhub/internal/repository"
	"github.com/staffhubhq/staffhub/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	invRepo := repository.NewInvitationRepository(db)
	attRepo := repository.NewAttendanceRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.ProviderSendgrid)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize entitlement resolver
	resolver := entitlement.NewResolver(entitlement.DefaultPlans(), userRepo)

	// Initialize services
	orgService := service.NewOrganizationService(orgRepo, userRepo, resolver, passwordHasher, tokenManager, emailService, cfg)
	userService := service.NewUserService(userRepo, passwordHasher, tokenManager)
	invService := service.NewInvitationService(invRepo, userRepo, orgRepo, resolver, passwordHasher, tokenManager, emailService, cfg)
	attService := service.NewAttendanceService(attRepo, orgRepo, userRepo)
	deptService := service.NewDepartmentService(deptRepo, userRepo)
	taskService := service.NewTaskService(taskRepo, orgRepo, resolver)
	meetingService := service.NewMeetingService(meetingRepo, orgRepo, resolver)
	leaveService := service.NewLeaveService(leaveRepo, orgRepo, attService, resolver)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(orgService, userService)
	orgHandler := handler.NewOrganizationHandler(orgService, userService)
	invHandler := handler.NewInvitationHandler(invService)
	attHandler := handler.NewAttendanceHandler(attService)
	deptHandler := handler.NewDepartmentHandler(deptService)
	taskHandler := handler.NewTaskHandler(taskService)
	meetingHandler := handler.NewMeetingHandler(meetingService)
	leaveHandler := handler.NewLeaveHandler(leaveService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))

			r.Post("/signup", authHandler.SignupHandler)
			r.Post("/login", authHandler.LoginHandler)
		})

		// Invitation preview and accept work without a session; the token
		// is the credential.
		r.Get("/invitations/{token}", invHandler.PreviewHandler)
		r.With(chimw.AllowContentType("application/json")).
			Post("/invitations/{token}/accept", invHandler.AcceptHandler)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))

			r.Route("/organization", func(r chi.Router) {
				r.Get("/", orgHandler.GetHandler)
				r.Get("/users", orgHandler.ListUsersHandler)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Patch("/schedule", orgHandler.UpdateScheduleHandler)
					r.Post("/upgrade", orgHandler.UpgradeHandler)
				})
			})

			r.Route("/invitations", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", invHandler.ListHandler)
				r.Post("/", invHandler.CreateHandler)
				r.Post("/{id}/cancel", invHandler.CancelHandler)
				r.Post("/{id}/resend", invHandler.ResendHandler)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attHandler.ClockInHandler)
				r.Post("/clock-out", attHandler.ClockOutHandler)
				r.Get("/history", attHandler.HistoryHandler)
				r.With(middleware.RequireAdmin).Get("/summary", attHandler.SummaryHandler)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", deptHandler.ListHandler)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", deptHandler.CreateHandler)
					r.Put("/{id}", deptHandler.UpdateHandler)
					r.Delete("/{id}", deptHandler.DeleteHandler)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListHandler)
				r.Post("/", taskHandler.CreateHandler)
				r.Post("/{id}/transition", taskHandler.TransitionHandler)
				r.Post("/{id}/assign", taskHandler.AssignHandler)
				r.Post("/{id}/comments", taskHandler.CommentHandler)
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/upcoming", meetingHandler.UpcomingHandler)
				r.Post("/", meetingHandler.ScheduleHandler)
				r.Post("/{id}/cancel", meetingHandler.CancelHandler)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", leaveHandler.RequestHandler)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/pending", leaveHandler.PendingHandler)
					r.Post("/{id}/approve", leaveHandler.ApproveHandler)
					r.Post("/{id}/reject", leaveHandler.RejectHandler)
				})
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"error encountered"}`))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
