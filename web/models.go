/* models.go
 * Contains the types shared by the webhook server and its handlers
 */

package web

import (
	"context"

	"go.uber.org/zap"
)

// Refresher drops cached data for a competition. api.API implements it
type Refresher interface {
	Refresh(ctx context.Context, sku string, teams []string) error
}

// Config holds the configuration for the web server
type Config struct {
	Addr      string
	Refresher Refresher
	Token     string // shared secret expected in the X-Webhook-Token header; empty accepts any caller
	SKUPrefix string // only competitions whose sku has this prefix are refreshed; empty accepts all
	Logger    *zap.Logger
}

// Server is the HTTP server that handles webhook requests
type Server struct {
	refresher Refresher
	token     string
	skuPrefix string
	logger    *zap.Logger
}

// ResultsEvent is the body of a results webhook. Teams lists the teams whose matches changed, if known
type ResultsEvent struct {
	SKU   string   `json:"sku"`
	Event string   `json:"event"`
	Teams []string `json:"teams,omitempty"`
}

// NewServer creates a Server from cfg
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		refresher: cfg.Refresher,
		token:     cfg.Token,
		skuPrefix: cfg.SKUPrefix,
		logger:    logger,
	}
}
