package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videotube-api/internal/database"
	"videotube-api/internal/handlers"
	"videotube-api/internal/middleware"
	"videotube-api/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}
}

func main() {
	// Set up signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if err := database.InitDB(); err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	if err := storage.InitStorage(); err != nil {
		logrus.Fatalf("Failed to initialize media storage: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.ErrorHandlingMiddleware())
	router.SetTrustedProxies(nil)

	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" && origin != "*" {
		corsConfig.AllowOrigins = []string{origin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	router.Use(cors.New(corsConfig))

	// Cap multipart memory; videos spool through temp files anyway.
	router.MaxMultipartMemory = 100 << 20 // 100 MB

	auth := middleware.AuthMiddleware()

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", handlers.Register)
			users.POST("/login", handlers.Login)
			users.POST("/refresh-token", handlers.RefreshAccessToken)
			users.POST("/logout", auth, handlers.Logout)
			users.GET("/current-user", auth, handlers.GetCurrentUser)
			users.POST("/change-password", auth, handlers.ChangePassword)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", auth, handlers.GetAllVideos)
			videos.POST("", auth, handlers.PublishVideo)
			videos.GET("/all", handlers.GetAll)
			videos.GET("/:videoId", handlers.GetVideoByID)
			videos.PATCH("/:videoId", auth, handlers.UpdateVideo)
			videos.DELETE("/:videoId", auth, handlers.DeleteVideo)
			videos.PATCH("/toggle/publish/:videoId", auth, handlers.TogglePublishStatus)
			videos.GET("/update-views/:videoId", handlers.UpdateViews)
		}

		comments := api.Group("/comments", auth)
		{
			comments.GET("/:videoId", handlers.GetVideoComments)
			comments.POST("/:videoId", handlers.AddComment)
			comments.PATCH("/c/:commentId", handlers.UpdateComment)
			comments.DELETE("/c/:commentId", handlers.DeleteComment)
		}

		likes := api.Group("/likes", auth)
		{
			likes.GET("/checklike/v/:videoId", handlers.CheckVideoLike)
			likes.GET("/checklike/c/:commentId", handlers.CheckCommentLike)
			likes.POST("/toggle/v/:videoId", handlers.ToggleVideoLike)
			likes.POST("/toggle/c/:commentId", handlers.ToggleCommentLike)
			likes.POST("/toggle/t/:tweetId", handlers.ToggleTweetLike)
			likes.GET("/videos", handlers.GetLikedVideos)
		}

		tweets := api.Group("/tweets", auth)
		{
			tweets.POST("", handlers.CreateTweet)
			tweets.GET("/user/:userId", handlers.GetUserTweets)
			tweets.PATCH("/:tweetId", handlers.UpdateTweet)
			tweets.DELETE("/:tweetId", handlers.DeleteTweet)
		}

		playlist := api.Group("/playlist", auth)
		{
			playlist.POST("", handlers.CreatePlaylist)
			playlist.GET("/user", handlers.GetUserPlaylists)
			playlist.GET("/:playlistId", handlers.GetPlaylistByID)
			playlist.PATCH("/:playlistId", handlers.UpdatePlaylist)
			playlist.DELETE("/:playlistId", handlers.DeletePlaylist)
			playlist.PATCH("/add/:videoId/:playlistId", handlers.AddVideoToPlaylist)
			playlist.PATCH("/remove/:videoId/:playlistId", handlers.RemoveVideoFromPlaylist)
		}

		subscriptions := api.Group("/subscriptions", auth)
		{
			subscriptions.POST("/c/:channelId", handlers.ToggleSubscription)
			subscriptions.GET("/c/:channelId", handlers.GetUserChannelSubscribers)
			subscriptions.GET("/u/:subscriberId", handlers.GetSubscribedChannels)
		}

		dashboard := api.Group("/dashboard", auth)
		{
			dashboard.GET("/stats", handlers.GetChannelStats)
			dashboard.GET("/videos", handlers.GetChannelVideos)
		}
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("Failed to start server: %v", err)
		}
	}()

	<-quit
	logrus.Info("Server is shutting down...")

	// Give outstanding operations 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
