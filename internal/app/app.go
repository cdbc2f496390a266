package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/config"
	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/middleware"
	"github.com/simp-lee/blogbase/internal/module/article"
	"github.com/simp-lee/blogbase/internal/module/auth"
	"github.com/simp-lee/blogbase/internal/module/user"
	"github.com/simp-lee/blogbase/internal/pkg"
	"github.com/simp-lee/blogbase/web"
)

// Default http.Server timeouts; server.timeout overrides read and write.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	shutdownTimeout     = 5 * time.Second
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	tokens *pkg.Tokens
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	read, write := defaultReadTimeout, defaultWriteTimeout
	if timeout > 0 {
		read, write = timeout, timeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       read,
		WriteTimeout:      write,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// migratedModels are created by AutoMigrate in debug mode.
var migratedModels = []any{
	&domain.User{},
	&domain.Article{},
	&domain.Tag{},
	&domain.ArticleTag{},
}

// New wires a fully configured App from cfg: logger, database pool, schema
// (debug only), modules, middleware, templates and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes error details and permissive CORS")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", slog.Any("error", err))
			}
		}
	}()

	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(migratedModels...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	modules, authMiddleware, tokens, err := buildModules(cfg, db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !success {
			tokens.Close()
		}
	}()

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(&cfg.Server)),
		middleware.Negotiate(),
	)

	fsys := fs.FS(web.EmbeddedFS)
	if cfg.Server.Mode == gin.DebugMode {
		if fsys, err = resolveDebugWebFS(); err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	}
	renderer, err := NewTemplateRenderer(fsys, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: modules,
		DB:      db,
		Mode:    cfg.Server.Mode,
		Auth:    authMiddleware,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		logger: log,
		tokens: tokens,
		cfg:    cfg,
	}, nil
}

// buildModules wires service → handler → module for every domain. With auth
// enabled the auth module is added and its tokens guard the protected routes;
// the returned Tokens are nil otherwise.
func buildModules(cfg *config.Config, db *gorm.DB) ([]Module, gin.HandlerFunc, *pkg.Tokens, error) {
	limits := pkg.PageLimits{
		DefaultPerPage: cfg.Pagination.DefaultPerPage,
		MaxPerPage:     cfg.Pagination.MaxPerPage,
	}

	articles := article.NewArticleService(db)
	modules := []Module{
		user.NewModule(user.NewUserHandler(user.NewUserService(db), limits)),
		article.NewModule(
			article.NewArticleHandler(articles, limits),
			article.NewArticlePageHandler(articles, limits),
		),
	}

	if !cfg.Auth.Enabled {
		return modules, nil, nil, nil
	}

	tokens, err := pkg.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup tokens: %w", err)
	}
	modules = append(modules, auth.NewModule(auth.NewHandler(auth.NewService(db, tokens))))
	return modules, middleware.Auth(tokens), tokens, nil
}

// resolveCORSConfig maps server.cors onto the middleware. Without an
// allowlist, release mode denies cross-origin requests and other modes allow
// any origin.
func resolveCORSConfig(server *config.ServerConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	src := server.CORS

	switch {
	case len(src.AllowOrigins) > 0:
		c.AllowOrigins = src.AllowOrigins
	case server.Mode == gin.ReleaseMode:
		c.AllowOrigins = []string{}
	}
	if len(src.AllowMethods) > 0 {
		c.AllowMethods = src.AllowMethods
	}
	if len(src.AllowHeaders) > 0 {
		c.AllowHeaders = src.AllowHeaders
	}
	c.AllowCredentials = src.AllowCredentials
	if maxAge := server.CORSMaxAge(); maxAge > 0 {
		c.MaxAge = maxAge
	}
	return c
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Handler returns the configured gin engine.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run serves HTTP until SIGINT/SIGTERM or a listen failure, then shuts the
// server down gracefully and closes the token service, the database pool and
// the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, a.cfg.Server.RequestTimeout())

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	a.tokens.Close()

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
