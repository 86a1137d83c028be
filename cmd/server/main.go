package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tagstore/internal/api"
	"tagstore/internal/config"
	"tagstore/internal/model"
	"tagstore/internal/taxonomy"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedSystemTaxonomies(context.Background(), repo, cfg); err != nil {
			logrus.WithError(err).Warn("failed to seed system taxonomies")
		}
	}

	tagging := taxonomy.NewService(repo, taxonomy.NewUserDirectory(repo), taxonomy.StaticLocales(cfg.SupportedLocales))

	httpHandler, err := api.NewHTTPHandler(cfg, repo, tagging)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.GET("/status", httpHandler.AuthStatus)
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.GET("/taxonomies", httpHandler.ListTaxonomies)
	protected.GET("/taxonomies/:id", httpHandler.GetTaxonomy)
	protected.GET("/taxonomies/:id/tags", httpHandler.ListTaxonomyTags)
	protected.GET("/object-tags/:object_id", httpHandler.ListObjectTags)
	protected.PUT("/taxonomies/:id/object-tags/:object_id", httpHandler.ReplaceObjectTags)

	taxonomyAdmin := protected.Group("/taxonomies")
	taxonomyAdmin.Use(httpHandler.RequireAdmin())
	taxonomyAdmin.POST("", httpHandler.CreateTaxonomy)
	taxonomyAdmin.PATCH(":id", httpHandler.UpdateTaxonomy)
	taxonomyAdmin.DELETE(":id", httpHandler.DeleteTaxonomy)

	resyncAdmin := protected.Group("/object-tags")
	resyncAdmin.Use(httpHandler.RequireAdmin())
	resyncAdmin.POST("/resync", httpHandler.ResyncObjectTags)

	userAdmin := protected.Group("/users")
	userAdmin.Use(httpHandler.RequireAdmin())
	userAdmin.GET("", httpHandler.ListUsers)
	userAdmin.POST("", httpHandler.CreateUser)
	userAdmin.PATCH(":id", httpHandler.UpdateUser)
	userAdmin.DELETE(":id", httpHandler.DeleteUser)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed to start")
	}
}

// CORSMiddleware allows cross-origin requests from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs one structured line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
