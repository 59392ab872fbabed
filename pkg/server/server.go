// Package server exposes the marquee HTTP server for embedding.
package server

import (
	"context"
	"log/slog"
	"net"

	internalserver "github.com/acs560/marquee/internal/server"
)

// Server is the marquee HTTP server.
type Server = internalserver.Server

// Config holds the dependencies and settings of a Server.
type Config = internalserver.Config

// Hub fans catalog changes out to websocket clients.
type Hub = internalserver.Hub

// ErrorResponse is the body of every failed API call.
type ErrorResponse = internalserver.ErrorResponse

// New creates a server. It does not start listening.
func New(cfg Config) *Server {
	return internalserver.New(cfg)
}

// NewHub creates an empty websocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return internalserver.NewHub(logger)
}

// RunMetrics serves /metrics on ln until ctx is done.
func RunMetrics(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	return internalserver.RunMetrics(ctx, ln, logger)
}
