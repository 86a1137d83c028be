package api

import (
	"tagstore/internal/auth"
	"tagstore/internal/config"
	"tagstore/internal/model"
	"tagstore/internal/taxonomy"
	"time"
)

// HTTPHandler handles HTTP requests.
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager

	tagging *taxonomy.Service
}

// NewHTTPHandler creates the HTTP handler instance.
func NewHTTPHandler(cfg config.Config, repo model.Repository, tagging *taxonomy.Service) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:         cfg,
		repo:        repo,
		authManager: authManager,
		tagging:     tagging,
	}, nil
}
