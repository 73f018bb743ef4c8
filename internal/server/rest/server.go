// Package rest is the JSON HTTP interface of the password manager.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/metrics"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

// Services are the dependencies of the handlers.
type Services struct {
	Users    *services.UserService
	Sessions *services.SessionService
	Entries  *services.EntryService
	Export   *services.ExportService

	// Ping reports whether storage is reachable.
	Ping func(ctx context.Context) error
}

type RESTServer struct {
	address  string
	echo     *echo.Echo
	users    *services.UserService
	sessions *services.SessionService
	entries  *services.EntryService
	export   *services.ExportService
	ping     func(ctx context.Context) error
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewRESTServer(a string, l logging.Logger, svc Services, m *metrics.Metrics) *RESTServer {
	s := &RESTServer{
		address:  a,
		logger:   logging.ForModule(l, "rest_server"),
		users:    svc.Users,
		sessions: svc.Sessions,
		entries:  svc.Entries,
		export:   svc.Export,
		ping:     svc.Ping,
		metrics:  m,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.echo = s.newEcho()
	return s
}

func (s *RESTServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(s.requestLogger())
	e.Use(s.observe)

	s.registerRoutes(e)
	return e
}

func (s *RESTServer) registerRoutes(e *echo.Echo) {
	e.GET("/", s.root)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := e.Group("/api")
	api.GET("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	authProtected := authGroup.Group("", s.requireAuth)
	authProtected.POST("/verify-master", s.verifyMaster)
	authProtected.GET("/session", s.validateSession)
	authProtected.GET("/profile", s.profile)

	passwords := api.Group("/passwords", s.requireAuth)
	passwords.GET("", s.listPasswords)
	passwords.POST("", s.createPassword)
	passwords.POST("/export", s.exportPasswords)
	passwords.GET("/:id", s.getPassword)
	passwords.PUT("/:id", s.updatePassword)
	passwords.DELETE("/:id", s.deletePassword)
	passwords.POST("/:id/decrypt", s.decryptPassword)
}

// Handler exposes the router, mainly for httptest.
func (s *RESTServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
