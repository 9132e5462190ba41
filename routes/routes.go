package routes

import (
	"context"
	"log"
	"time"

	"preggy/config"
	"preggy/controllers"
	"preggy/middlewares"
	"preggy/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()

	gem, err := services.NewGeminiService(context.Background())
	if err != nil {
		// chat and record drafting degrade, food lookup still works
		log.Printf("gemini unavailable: %v", err)
	}

	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Fatalf("rekognition init failed: %v", err)
	}
	foodSvc := services.NewFoodService(services.NewEdamamService(), rek, gem)
	chatSvc := services.NewChatService(gem, hub)

	push, err := services.NewPushService(config.DB, hub)
	if err != nil {
		log.Fatalf("push init failed: %v", err)
	}
	services.NewReminderScheduler(config.DB, push).Start(24 * time.Hour)

	foodCtl := controllers.NewFoodController(foodSvc)
	chatCtl := controllers.NewChatController(chatSvc)
	deviceCtl := controllers.NewDeviceController(push)
	rtCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.POST("/onboarding", controllers.CompleteOnboarding)
		user.DELETE("/account", controllers.DeleteAccount)
		user.GET("/favorites", controllers.ListFavorites)
		user.POST("/devices", deviceCtl.RegisterDevice)
		user.POST("/notifications/toggle", controllers.ToggleNotifications)
		user.GET("/alerts", controllers.ListAlerts)
	}

	food := r.Group("/food")
	food.Use(middlewares.AuthMiddleware())
	{
		food.GET("/search", foodCtl.Search)
		food.POST("/recognize", foodCtl.Recognize)
		food.GET("/:id", foodCtl.Details)
		food.POST("/:id/favorite", controllers.AddFavorite)
		food.DELETE("/:id/favorite", controllers.RemoveFavorite)
	}

	chat := r.Group("/chat")
	chat.Use(middlewares.AuthMiddleware())
	{
		chat.POST("/conversations", chatCtl.CreateConversation)
		chat.GET("/conversations", chatCtl.ListConversations)
		chat.GET("/conversations/:id/messages", chatCtl.ListMessages)
		chat.POST("/conversations/:id/messages", chatCtl.SendMessage)
	}

	upload := r.Group("/upload")
	upload.Use(middlewares.AuthMiddleware())
	{
		upload.POST("/image", controllers.UploadImage)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", rtCtl.Connect)
	}

	return r
}
