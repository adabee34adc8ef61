package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// ListPosts handles GET /api/v1/posts
func (h *Handlers) ListPosts(c *gin.Context) {
	posts := h.store.Posts()
	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// UploadPost handles POST /api/v1/posts (multipart)
func (h *Handlers) UploadPost(c *gin.Context) {
	file, header, err := c.Request.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	defer file.Close()

	upload := clients.PostUpload{
		Media:    file,
		Filename: header.Filename,
		Caption:  c.PostForm("caption"),
		Owner: models.PostOwner{
			UserID:    c.PostForm("userId"),
			Name:      c.PostForm("userName"),
			Email:     c.PostForm("userEmail"),
			StoreName: c.PostForm("storeName"),
			Avatar:    c.PostForm("userAvatar"),
		},
	}
	if raw := c.PostForm("promotion"); raw != "" {
		var promo models.Promotion
		if err := json.Unmarshal([]byte(raw), &promo); err == nil {
			upload.Promotion = &promo
		}
	}

	view, err := h.reconciler.UploadPost(c.Request.Context(), upload)
	if err != nil {
		h.logger.Error("post upload failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.reconciler.DeletePost(c.Request.Context(), id, req.UserID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post removed"})
}

// ToggleLike handles POST /api/v1/posts/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	view, err := h.engagement.ToggleLike(c.Request.Context(), id, req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddComment handles POST /api/v1/posts/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		User string `json:"user"`
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.engagement.AppendComment(c.Request.Context(), id, req.User, req.Text)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
