package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bizsuite/identity-service/docs"
	"github.com/bizsuite/identity-service/internal/api/handler"
	"github.com/bizsuite/identity-service/internal/api/middleware"
	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
	"github.com/bizsuite/identity-service/internal/core/service"
	"github.com/bizsuite/identity-service/internal/infrastructure/config"
	mongodb "github.com/bizsuite/identity-service/internal/infrastructure/db/mongo"
	"github.com/bizsuite/identity-service/internal/infrastructure/session"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The session strategy and the application mode (multi-tenant suite vs the
// gated assistant app) are both selected by configuration.
func NewRouter(cfg *config.Config, client *mongo.Client, db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	companies := mongodb.NewCompanyRepository(db)
	members := mongodb.NewMembershipRepository(db)
	invitations := mongodb.NewInvitationRepository(db)
	tx := mongodb.NewTransactor(client)

	var sessions ports.SessionProvider
	if cfg.SessionStrategy == config.StrategyStateful {
		sessions = session.NewRedisProvider(rdb)
	} else {
		sessions = session.NewJWTProvider(cfg.JWTSecret)
	}

	companyService := service.NewCompanyService(companies, members, users, sessions, audit, cfg.TokenTTL, log)
	authService := service.NewAuthService(users, companyService, sessions, members, companies, tx, audit, cfg.TokenTTL, log)
	invitationService := service.NewInvitationService(invitations, users, members, tx, audit, log)

	authHandler := handler.NewAuthHandler(authService, companyService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	authMW := middleware.Auth(sessions)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/select-company", authHandler.SelectCompany, authMW)
	e.GET("/auth/me", authHandler.Me, authMW)
	e.GET("/auth/companies", authHandler.Companies, authMW)
	e.POST("/auth/invitations/accept", invitationHandler.Accept)

	e.POST("/companies/:id/invitations", invitationHandler.Invite,
		authMW, middleware.RequireCompany(), middleware.RequirePermission(domain.PermUsersManage))

	// --- Assistant mode: the binary super-user gate, no company scoping ---
	if cfg.AppMode == config.ModeAssistant {
		gate := middleware.NewGate(users, cfg.SuperUserEmails)
		assistant := e.Group("/assistant", authMW, gate.RequireSuperUser())
		assistant.GET("/me", authHandler.Me)
		assistant.GET("/coaching/status", func(c echo.Context) error {
			return c.JSON(200, map[string]bool{"coaching_access": true})
		}, gate.RequireCoachingAccess())
	}

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
