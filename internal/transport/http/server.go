package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/auth"
	"github.com/fakasys/fakachat-server/internal/config"
	"github.com/fakasys/fakachat-server/internal/core"
	"github.com/fakasys/fakachat-server/internal/service/friends"
	"github.com/fakasys/fakachat-server/internal/store"
)

// NewServer builds the HTTP server with all routes wired.
func NewServer(hub *core.Hub, authService *auth.Service, friendsService *friends.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	apiHandlers := NewAPIHandlers(authService, logger)
	userHandlers := NewUserHandlers(st, cfg.AvatarDir, logger)
	friendsHandlers := NewFriendsHandlers(friendsService, logger)
	wsHandler := NewWSHandler(hub, authService, st, logger)

	router.GET("/health", healthHandler)
	router.GET("/ws", wsHandler.Handle)
	router.Static("/avatars", cfg.AvatarDir)

	api := router.Group("/api")
	api.POST("/register", apiHandlers.Register)
	api.POST("/login", apiHandlers.Login)
	// Profiles are publicly readable.
	api.GET("/profile/:username", userHandlers.GetProfile)

	authed := api.Group("", AuthMiddleware(authService, logger))
	authed.POST("/logout", apiHandlers.Logout)
	authed.POST("/profile/update", userHandlers.UpdateProfile)
	authed.POST("/avatar", userHandlers.UploadAvatar)
	authed.GET("/messages", userHandlers.ListMessages)
	authed.POST("/friends/request", friendsHandlers.SendRequest)
	authed.POST("/friends/respond", friendsHandlers.Respond)
	authed.GET("/friends", friendsHandlers.Overview)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
