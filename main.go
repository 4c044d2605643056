package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"realtyshare/internal/db"
	"realtyshare/internal/handlers"
	"realtyshare/internal/middleware"
	"realtyshare/internal/notify"
	"realtyshare/internal/observability"
	"realtyshare/internal/presence"
	"realtyshare/internal/rabbitmq"
	"realtyshare/internal/repositories"
	"realtyshare/internal/telemetry"
	"realtyshare/internal/ws"
)

func main() {
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, "realtyshare", getEnv("OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		log.Fatalf("invalid REDIS_DB: %v", err)
	}
	tracker, err := presence.NewTracker(getEnv("REDIS_ADDR", "localhost:6379"), getEnv("REDIS_PASSWORD", ""), redisDB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer tracker.Close()

	amqpURL := getEnv("AMQP_URL", "")
	exchange := getEnv("AMQP_EXCHANGE", "realtyshare.events")
	auditPublisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer auditPublisher.Close()
	audit := telemetry.NewAuditEmitter(auditPublisher, "audit.realtyshare", "realtyshare", getEnv("ENVIRONMENT", "dev"))

	if amqpURL != "" {
		if eventPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err != nil {
			log.Printf("event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(eventPublisher)
			defer eventPublisher.Close()
		}
	}

	profileRepo := repositories.NewProfileRepo(database)
	tokenRepo := repositories.NewTokenRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	mediaRepo := repositories.NewMediaRepo(database)

	hub := ws.NewHub()
	router := notify.NewRouter(hub)

	authHandler := handlers.NewAuthHandler(profileRepo, tokenRepo, tracker, audit)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	friendsHandler := handlers.NewFriendsHandler(friendRepo)
	chatHandler := handlers.NewChatHandler(roomRepo, messageRepo, friendRepo, profileRepo, hub, router)
	mediaHandler := handlers.NewMediaHandler(mediaRepo, profileRepo)
	presenceHandler := handlers.NewPresenceHandler(tracker)
	adminHandler := handlers.NewAdminHandler(profileRepo)
	socketHandler := ws.NewSocketHandler(hub, roomRepo, messageRepo, tokenRepo, tracker)

	engine := gin.Default()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("realtyshare"))
	engine.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokenRepo)
	adminMiddleware := middleware.AdminMiddleware(profileRepo)

	engine.POST("/auth/signup", authHandler.SignUp)
	engine.POST("/auth/login", authHandler.Login)
	engine.POST("/auth/logout", authMiddleware, authHandler.Logout)
	engine.DELETE("/auth/account", authMiddleware, authHandler.DeleteAccount)

	engine.GET("/profile", authMiddleware, profileHandler.GetMyProfile)
	engine.PUT("/profile", authMiddleware, profileHandler.UpdateMyProfile)
	engine.GET("/users", authMiddleware, profileHandler.ListUsers)
	engine.GET("/users/:user_id", authMiddleware, profileHandler.GetUser)

	engine.POST("/friends/requests", authMiddleware, friendsHandler.SendRequest)
	engine.POST("/friends/requests/:user_id/accept", authMiddleware, friendsHandler.AcceptRequest)
	engine.POST("/friends/requests/:user_id/reject", authMiddleware, friendsHandler.RejectRequest)
	engine.DELETE("/friends/:user_id", authMiddleware, friendsHandler.RemoveFriend)
	engine.GET("/friends", authMiddleware, friendsHandler.ListFriends)
	engine.GET("/friends/requests/sent", authMiddleware, friendsHandler.ListSentRequests)
	engine.GET("/friends/requests/received", authMiddleware, friendsHandler.ListReceivedRequests)

	engine.POST("/chats/start", authMiddleware, chatHandler.StartChat)
	engine.GET("/chats", authMiddleware, chatHandler.ListRooms)
	engine.GET("/chats/:room_id/messages", authMiddleware, chatHandler.GetMessages)
	engine.POST("/chats/:room_id/messages", authMiddleware, chatHandler.PostMessage)

	engine.GET("/media", authMiddleware, mediaHandler.ListMedia)
	engine.POST("/media", authMiddleware, mediaHandler.CreateMedia)
	engine.POST("/media/:media_id/like", authMiddleware, mediaHandler.ToggleLike)
	engine.DELETE("/media/:media_id", authMiddleware, mediaHandler.DeleteMedia)

	engine.GET("/presence/:user_id", authMiddleware, presenceHandler.GetPresence)

	engine.PATCH("/admin/users/:user_id/role", authMiddleware, adminMiddleware, adminHandler.SetRole)

	engine.GET("/ws", socketHandler.Handle)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := getEnv("PORT", "8080")
	if err := engine.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
