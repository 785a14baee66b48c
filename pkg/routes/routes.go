package pkg

import (
	"SchoolHub/internal/auth"
	"SchoolHub/internal/config"
	"SchoolHub/internal/forum"
	"SchoolHub/internal/messaging"
	"SchoolHub/internal/notification"
	pkgmiddleware "SchoolHub/pkg/middleware"
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewAuthService),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(notification.NewNotificationService),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(notification.NewEmailDispatcher),
	fx.Provide(messaging.NewMessagingRepository),
	fx.Provide(messaging.NewMessagingService),
	fx.Provide(messaging.NewMessagingHandler),
	fx.Provide(forum.NewForumRepository),
	fx.Provide(forum.NewForumService),
	fx.Provide(forum.NewForumHandler),
	fx.Invoke(EnsureIndexes),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(StartDispatcher))

func EnsureIndexes(client *config.MongoDBClient) {
	config.UniqueEmailIndex(client.GetCollection("users"))
}

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	port := ":8080"
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func StartDispatcher(lc fx.Lifecycle, dispatcher *notification.EmailDispatcher) {
	dispatcher.Start(lc)
}

func RegisterRoutes(e *echo.Echo,
	authHandler *auth.AuthHandler,
	notificationHandler *notification.NotificationHandler,
	messagingHandler *messaging.MessagingHandler,
	forumHandler *forum.ForumHandler) {

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/verify-email", authHandler.VerifyEmail)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password", authHandler.ResetPassword)

	protected := e.Group("/api")
	protected.Use(pkgmiddleware.JWTMiddleware)
	protected.Use(pkgmiddleware.CasbinMiddleware)

	protected.GET("/profile", authHandler.Profile)

	protected.POST("/notifications", notificationHandler.Create)
	protected.GET("/notifications", notificationHandler.List)
	protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
	protected.POST("/notifications/mark-all-read", notificationHandler.MarkAllRead)
	protected.DELETE("/notifications/:id", notificationHandler.Deactivate)

	protected.POST("/conversations", messagingHandler.StartConversation)
	protected.GET("/conversations", messagingHandler.ListConversations)
	protected.GET("/conversations/:id/messages", messagingHandler.Messages)
	protected.POST("/conversations/:id/messages", messagingHandler.SendMessage)
	protected.POST("/messages/:id/read", messagingHandler.MarkMessageRead)

	protected.POST("/topics", forumHandler.CreateTopic)
	protected.GET("/topics", forumHandler.ListTopics)
	protected.GET("/topics/:id", forumHandler.GetTopic)
	protected.POST("/topics/:id/replies", forumHandler.CreateReply)
	protected.GET("/topics/:id/replies", forumHandler.ListReplies)
}
