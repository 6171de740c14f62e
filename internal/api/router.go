package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/simmerkit/recipe-vault/internal/api/handler"
	"github.com/simmerkit/recipe-vault/internal/api/middleware"
	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/service"
	mongorepo "github.com/simmerkit/recipe-vault/internal/infrastructure/db/mongo"
	rediskv "github.com/simmerkit/recipe-vault/internal/infrastructure/db/redis"
	"github.com/simmerkit/recipe-vault/internal/infrastructure/queue"
)

// Deps carries everything the router needs to assemble the service graph.
type Deps struct {
	Mongo         *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	ImportWorkers int
	Log           zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered and
// returns it together with the import dispatcher (the caller starts the
// workers with its own lifecycle context).
func NewRouter(d Deps) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("recipevault"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(d.Mongo)
	recipeRepo := mongorepo.NewRecipeRepository(d.Mongo)
	kv := rediskv.NewKVStore(d.Redis)

	authService := service.NewAuthService(userRepo, d.JWTSecret, 24*time.Hour)
	recipeService := service.NewRecipeService(recipeRepo, d.Log)
	importService := service.NewImportService(recipeService, d.Log)
	profiles := service.NewProfileManager(kv, authService, d.Log)
	dispatcher := queue.NewDispatcher(d.ImportWorkers, importService, d.Log)

	authHandler := handler.NewAuthHandler(authService, profiles)
	onboardingHandler := handler.NewOnboardingHandler(profiles)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	importHandler := handler.NewImportHandler(dispatcher)
	authMiddleware := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Onboarding routes (pre-auth, keyed by device profile) ---
	e.GET("/v1/onboarding", onboardingHandler.State)
	e.POST("/v1/onboarding/advance", onboardingHandler.Advance)
	e.POST("/v1/onboarding/reset", onboardingHandler.Reset)
	e.GET("/v1/route", onboardingHandler.Route)

	// --- Content routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/recipes", recipeHandler.Create)
	v1.GET("/recipes", recipeHandler.List)
	v1.GET("/recipes/:id", recipeHandler.Get)
	v1.GET("/collections", recipeHandler.Collections)
	v1.GET("/collections/:key", recipeHandler.Collection)
	v1.GET("/home", recipeHandler.Home)
	v1.GET("/subscription", recipeHandler.Subscription)

	// Automated imports are a premium feature; free accounts add recipes
	// manually.
	v1.POST("/imports", importHandler.Receive, middleware.RequirePlan(string(domain.PlanPremium)))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, dispatcher
}
