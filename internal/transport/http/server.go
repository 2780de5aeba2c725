package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "visaguide/internal/app"
	"visaguide/internal/bootstrap"
	"visaguide/internal/repository"
	"visaguide/internal/transport/http/handler"
	"visaguide/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	if err := router.SetTrustedProxies(app.Config.App.TrustedProxies); err != nil {
		app.Logger.WithError(err).Warn("invalid trusted proxies, using peer address only")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(middleware.RequestLog(app.Logger), gin.Recovery())
	router.Use(cors.New(corsConfig(app.Config.App.AllowedOrigins)))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(
		app.Completer,
		app.History,
		app.LLMConfig(),
		app.Config.Chat.HistoryTurns,
		app.Logger,
	)

	var importQueue handler.ImportQueue
	if publisher := app.ImportPublisher(); publisher != nil {
		importQueue = publisher
	}

	visaHandler := handler.NewVisaHandler(app.VisaService(), importQueue, app.Logger)
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	advisorHandler := handler.NewAdvisorHandler()

	api := router.Group("/api")
	api.Use(middleware.BodyLimit(int64(app.Config.App.MaxBodyBytes)))
	api.GET("/visa", visaHandler.List)
	api.GET("/visa/search", visaHandler.Search)
	api.GET("/visa/country/:country", visaHandler.ByCountry)
	api.GET("/visa/country/:country/types", visaHandler.VisaTypes)
	api.GET("/visa/country/:country/type/:type", visaHandler.ByCountryAndType)
	api.GET("/countries", visaHandler.Countries)
	api.POST("/visa/import", visaHandler.Import)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	chatGroup := api.Group("/chat")
	chatGroup.Use(
		middleware.RateLimit(app.Limiter, "chat", app.Logger),
		middleware.OptionalAuthJWT(app.Config.Auth.JWTSecret),
	)
	chatGroup.POST("/message", chatHandler.SendMessage)

	api.POST("/predictions/success", advisorHandler.PredictSuccess)
	api.POST("/recommendations", advisorHandler.Recommend)

	return router
}

// corsConfig allows any origin when the list is empty or contains "*";
// credentials are only allowed for explicit origins.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
