package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/poseidon-capital/console/config"
	"github.com/poseidon-capital/console/internal/db"
	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/handlers"
	"github.com/poseidon-capital/console/internal/mq"
	"github.com/poseidon-capital/console/internal/security"
	"github.com/poseidon-capital/console/internal/services"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/internal/validation"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 15 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
	RequestTimeout    = 60 * time.Second
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     mq.Backend
	sessions   *security.Registry
	logger     *slog.Logger
}

// New opens the database and event backend and wires every route.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		logger.Info("database migrated", "driver", cfg.Database.Driver)
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backend, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open events backend: %w", err)
	}
	publisher := mq.NewPublisher(backend, cfg.Events.Channel, logger)

	hasher := security.NewBCryptHasher(cfg.Security.BcryptCost)
	sessions := security.NewRegistry(cfg.Session.IdleTimeout)
	cookies := security.NewCookieCodec(cfg.Session.Secret, cfg.Session.MaxLifetime, cfg.Session.SecureCookie)
	throttle := security.NewThrottle(cfg.Security.LoginRatePerMinute, cfg.Security.LoginBurst)

	userRepo := store.NewUserRepository(dbConn)
	userService := services.NewUserService(userRepo, hasher, publisher, sessions, logger)
	bidListService := services.NewBidListService(store.NewBidListRepository(dbConn), publisher)
	curvePointService := services.NewCurvePointService(store.NewCurvePointRepository(dbConn), publisher)
	ratingService := services.NewRatingService(store.NewRatingRepository(dbConn), publisher)
	ruleNameService := services.NewRuleNameService(store.NewRuleNameRepository(dbConn), publisher)
	tradeService := services.NewTradeService(store.NewTradeRepository(dbConn), publisher)

	if cfg.Seed.DefaultUsers {
		if err := userService.SeedDefaults(ctx, cfg.Seed.DefaultPassword); err != nil {
			closeAll(dbConn, backend)
			return nil, err
		}
	}

	views, err := handlers.NewViews(logger)
	if err != nil {
		closeAll(dbConn, backend)
		return nil, err
	}
	validator := validation.New()
	gate := handlers.NewGate(security.DefaultPolicy(), sessions, cookies, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(RequestTimeout),
		gate.Middleware,
	)

	static := handlers.StaticHandler()
	router.Handle("/css/*", static)

	handlers.AuthRouter(router, handlers.NewAuthHandler(handlers.AuthConfig{
		Authenticator: security.NewAuthenticator(userRepo, hasher),
		Sessions:      sessions,
		Cookies:       cookies,
		Throttle:      throttle,
		Views:         views,
		Health:        dbConn.PingContext,
		Logger:        logger,
	}))
	handlers.RecordRouter(router, handlers.NewRecordHandler(forms.BidLists, bidListService, validator, views, logger))
	handlers.RecordRouter(router, handlers.NewRecordHandler(forms.CurvePoints, curvePointService, validator, views, logger))
	handlers.RecordRouter(router, handlers.NewRecordHandler(forms.Ratings, ratingService, validator, views, logger))
	handlers.RecordRouter(router, handlers.NewRecordHandler(forms.RuleNames, ruleNameService, validator, views, logger))
	handlers.RecordRouter(router, handlers.NewRecordHandler(forms.Trades, tradeService, validator, views, logger))
	handlers.UserRouter(router, handlers.NewUserHandler(userService, validator, views, logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		views.Message(w, r, http.StatusNotFound, "Not found", "The requested page does not exist.")
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     backend,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Router exposes the chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Sessions exposes the live session registry.
func (s *Server) Sessions() *security.Registry {
	return s.sessions
}

// Start runs the HTTP server until it fails or is closed.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Serve listens on the configured address and shuts down gracefully when
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("server listening", "addr", listener.Addr().String())

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		err := s.httpServer.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err = grp.Wait()
	closeAll(s.db, s.events)
	return err
}

// Shutdown closes the HTTP server and releases its resources.
func (s *Server) Shutdown() error {
	closeAll(s.db, s.events)
	return s.httpServer.Close()
}

func closeAll(dbConn *sql.DB, events mq.Backend) {
	if events != nil {
		_ = events.Close()
	}
	if dbConn != nil {
		_ = dbConn.Close()
	}
}
