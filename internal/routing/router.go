package routing

import (
	"net/http"
	"time"

	"url-shrinker/internal/config"
	"url-shrinker/internal/handlers"
	"url-shrinker/internal/managers"
	"url-shrinker/internal/middleware"
	"url-shrinker/internal/schemas"
	"url-shrinker/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, sessionMgr managers.SessionMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router, cfg.FrontendURL)
	// Setup routes
	setupRoutes(router, cfg, databaseMgr, mailMgr, jwtMgr, sessionMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine, frontendURL string) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
	router.Use(middleware.Metrics())
}

func setupRoutes(router *gin.Engine, cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, sessionMgr managers.SessionMgr) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "URL Shortner")
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			utils.LogMessageWithFieldsAndError(c, "error", "Database ping failed", err)
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	authGate := middleware.AuthGate(jwtMgr, sessionMgr, cfg.SessionCookieName)

	linkHdl := handlers.NewLinkHandler(databaseMgr, cfg.CreatedAtLocation())
	router.GET("/:"+utils.ShortUrlKey, linkHdl.Redirect)

	apiRouter := router.Group("/api")
	{
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(databaseMgr, jwtMgr, mailMgr, sessionMgr, handlers.CookieSettings{
			Name:   cfg.SessionCookieName,
			Secure: cfg.CookieSecure,
		})
		userRoutes(userRouter, userHdl, authGate)

		shrinkerRouter := apiRouter.Group("/shrinker")
		shrinkerRouter.Use(authGate)
		shrinkerRoutes(shrinkerRouter, linkHdl)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, authGate gin.HandlerFunc) {
	userRouter.POST("/register", middleware.ValidateAndSanitizeStruct[schemas.RegistrationRequest](), userHdl.RegisterUser)
	userRouter.GET("/confirmation/:"+utils.ActivationTokenKey, userHdl.ActivateUser)
	userRouter.POST("/login", middleware.ValidateAndSanitizeStruct[schemas.LoginRequest](), userHdl.LoginUser)
	userRouter.POST("/forgot-password", middleware.ValidateAndSanitizeStruct[schemas.ForgotPasswordRequest](), userHdl.ForgotPassword)
	userRouter.GET("/reset-password/:"+utils.ResetTokenKey, userHdl.VerifyResetToken)
	userRouter.POST("/reset-password/:"+utils.ResetTokenKey, middleware.ValidateAndSanitizeStruct[schemas.ResetPasswordRequest](), userHdl.ResetPassword)
	// The following routes require the user to be authenticated
	userRouter.Use(authGate)
	userRouter.GET("/user", userHdl.HandleGetUserRequest)
	userRouter.POST("/logout", userHdl.LogoutUser)
	userRouter.POST("/refresh", userHdl.RefreshSession)
}

func shrinkerRoutes(shrinkerRouter *gin.RouterGroup, linkHdl handlers.LinkHdl) {
	shrinkerRouter.POST("/shortUrls", linkHdl.CreateLink)
	shrinkerRouter.GET("/shortUrls", linkHdl.ListLinks)
}
