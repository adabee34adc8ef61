package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MountFeed handles POST /api/v1/feed/mounts
//
// A mount is one rendered instance of the feed. View latches live on the
// mount: a reload creates a new mount and may count fresh views.
func (h *Handlers) MountFeed(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"mountId": h.feed.Mount()})
}

// UnmountFeed handles DELETE /api/v1/feed/mounts/:id
func (h *Handlers) UnmountFeed(c *gin.Context) {
	h.feed.Unmount(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "unmounted"})
}

// ReportVisibility handles POST /api/v1/feed/visibility
//
// The renderer streams intersection ratios here; the response carries the
// play/pause commands the transition produced.
func (h *Handlers) ReportVisibility(c *gin.Context) {
	var req struct {
		MountID string  `json:"mountId"`
		PostID  string  `json:"postId"`
		Ratio   float64 `json:"ratio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.MountID == "" || req.PostID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mountId and postId are required"})
		return
	}

	cmds, err := h.feed.Report(c.Request.Context(), req.MountID, req.PostID, req.Ratio)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"commands": cmds})
}
