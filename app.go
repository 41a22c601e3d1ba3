// @title           Domain Report API
// @version         1.0
// @description     WHOIS with ordered server fallback, RDAP, DNS, certificate, hosting, blacklist, ping and web stack lookups for a domain.

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vit0-9/domain_report/docs" // generated by swag init
	"github.com/vit0-9/domain_report/handlers"
	"github.com/vit0-9/domain_report/pkg/metrics"
	"github.com/vit0-9/domain_report/pkg/report"
)

// App encapsulates all the components of the API server
type App struct {
	Router          *gin.Engine
	DomainHandlers  *handlers.DomainHandlers
	NetworkHandlers *handlers.NetworkHandlers
	HealthHandler   *handlers.HealthHandler
	Metrics         *metrics.Metrics
	Limiter         *handlers.LimiterStore

	server *http.Server
}

// AppOptions configures NewApp. RateLimitRPS <= 0 disables rate limiting.
type AppOptions struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewApp creates and initializes a new application instance
func NewApp(b *report.Builder, m *metrics.Metrics, opts AppOptions) *App {
	router := gin.New()
	router.Use(gin.Recovery())

	app := &App{
		Router:          router,
		DomainHandlers:  handlers.NewDomainHandlers(b),
		NetworkHandlers: handlers.NewNetworkHandlers(b),
		HealthHandler:   handlers.NewHealthHandler(),
		Metrics:         m,
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		app.Limiter = handlers.NewLimiterStore(opts.RateLimitRPS, burst)
	}

	app.setupRoutes()
	app.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	app.Router.Use(handlers.RequestMetrics(app.Metrics))

	app.Router.GET("/api/v1/health", app.HealthHandler.HealthCheckHandler)
	app.Router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	api := app.Router.Group("/api/v1", handlers.RateLimit(app.Limiter, app.Metrics))

	domainV1 := api.Group("/domain")
	{
		domainV1.GET("/whois", app.DomainHandlers.WhoisLookupHandler)
		domainV1.GET("/rdap", app.DomainHandlers.RDAPLookupHandler)
		domainV1.GET("/report", app.DomainHandlers.ReportHandler)
		domainV1.GET("/web", app.DomainHandlers.WebAnalysisHandler)
		domainV1.GET("/dns", app.NetworkHandlers.DNSLookupHandler)
		domainV1.GET("/ssl", app.NetworkHandlers.SSLCheckHandler)
		domainV1.GET("/hosting", app.NetworkHandlers.HostingHandler)
		domainV1.GET("/blacklist", app.NetworkHandlers.BlacklistHandler)
		domainV1.GET("/ping", app.NetworkHandlers.PingHandler)
	}

	netV1 := api.Group("/net")
	{
		netV1.GET("/public-ip", app.NetworkHandlers.PublicIPHandler)
	}
}

// Start runs the HTTP server until Shutdown is called.
func (app *App) Start() error {
	logrus.Infof("API server starting on %s", app.server.Addr)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (app *App) Shutdown(ctx context.Context) error {
	logrus.Info("Shutting down server...")
	return app.server.Shutdown(ctx)
}
