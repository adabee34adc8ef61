package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/engagement"
	"github.com/unixchange/unixchange-sync-service/internal/feed"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/store"
	"github.com/unixchange/unixchange-sync-service/internal/sync"
)

// Handlers holds all HTTP handlers for the sync service.
type Handlers struct {
	store      *store.Store
	reconciler *sync.Reconciler
	engagement *engagement.Controller
	feed       *feed.Scheduler
	directory  *seller.Directory
	config     *config.Config
	logger     *zap.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	st *store.Store,
	reconciler *sync.Reconciler,
	controller *engagement.Controller,
	scheduler *feed.Scheduler,
	directory *seller.Directory,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		store:      st,
		reconciler: reconciler,
		engagement: controller,
		feed:       scheduler,
		directory:  directory,
		config:     cfg,
		logger:     logger.Named("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	default:
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": ve.Message,
				"field": ve.Field,
			})
			return
		}
		var re *apperrors.RemoteError
		if errors.As(err, &re) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream store error"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
