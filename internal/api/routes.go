package api

import (
	"net/http"

	"nextlevel/academy-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	planService service.PlanService,
	mediaService service.MediaService,
) {
	authHandler := NewAuthHandler(authService)
	sessionHandler := NewSessionHandler(profileService, planService)
	onboardingHandler := NewOnboardingHandler(profileService)
	profileHandler := NewProfileHandler(profileService)
	planHandler := NewPlanHandler(planService)
	chatHandler := NewChatHandler(planService)
	mediaHandler := NewMediaHandler(mediaService)

	authMiddleware := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// View routing works with or without a token.
		sessionGroup := apiV1.Group("/session")
		sessionGroup.Use(optionalAuth)
		{
			sessionGroup.GET("/view", sessionHandler.View)
			sessionGroup.POST("/start", sessionHandler.Start)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/session/logout", sessionHandler.Logout)
		protected.GET("/profile", profileHandler.GetProfile)

		onboardingGroup := protected.Group("/onboarding")
		{
			onboardingGroup.POST("/validate", onboardingHandler.ValidateStep)
			onboardingGroup.POST("/complete", onboardingHandler.Complete)
		}

		planGroup := protected.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.POST("/week/review", planHandler.ReviewWeek)
			planGroup.POST("/sessions/:id/toggle", planHandler.ToggleSession)
			planGroup.POST("/sessions/:id/open", planHandler.OpenSession)
			planGroup.POST("/sessions/:id/finish", planHandler.FinishSession)
			planGroup.POST("/sessions/:id/exercises/:index/toggle", planHandler.ToggleExercise)
			planGroup.POST("/sessions/:id/exercises/:index/focus", planHandler.FocusExercise)
		}

		protected.POST("/coach/chat", chatHandler.Chat)

		clipsGroup := protected.Group("/assessment/clips")
		{
			clipsGroup.POST("", mediaHandler.RequestUpload)
			clipsGroup.GET("", mediaHandler.ListClips)
			clipsGroup.POST("/:id/confirm", mediaHandler.ConfirmUpload)
		}
	}
}
