package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/handlers"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
)

type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
	metrics  *metrics.Registry
	httpSrv  *http.Server
}

func New(h *handlers.Handlers, m *metrics.Registry, cfg *config.Config) *Server {
	router := gin.Default()

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		metrics:  m,
	}

	s.setupRoutes()

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/products", s.handlers.ListProducts)
		v1.POST("/products", s.handlers.CreateProduct)
		v1.PATCH("/products/:id", s.handlers.UpdateProduct)
		v1.DELETE("/products/:id", s.handlers.DeleteProduct)

		v1.GET("/orders", s.handlers.ListOrders)
		v1.POST("/checkout", s.handlers.Checkout)
		v1.POST("/orders/:id/status", s.handlers.UpdateOrderStatus)

		v1.GET("/posts", s.handlers.ListPosts)
		v1.POST("/posts", s.handlers.UploadPost)
		v1.DELETE("/posts/:id", s.handlers.DeletePost)
		v1.POST("/posts/:id/like", s.handlers.ToggleLike)
		v1.POST("/posts/:id/comments", s.handlers.AddComment)

		v1.POST("/feed/mounts", s.handlers.MountFeed)
		v1.DELETE("/feed/mounts/:id", s.handlers.UnmountFeed)
		v1.POST("/feed/visibility", s.handlers.ReportVisibility)

		v1.PUT("/sellers/profile", s.handlers.UpsertSellerProfile)
		v1.GET("/sellers/orders", s.handlers.SellerOrders)
		v1.GET("/sellers/earnings", s.handlers.SellerEarnings)
	}
}

func (s *Server) Start() error {
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
