package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// UpsertSellerProfile handles PUT /api/v1/sellers/profile
//
// Profile edits never touch banking snapshots already frozen onto orders.
func (h *Handlers) UpsertSellerProfile(c *gin.Context) {
	var req models.SellerProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId or email is required"})
		return
	}

	h.directory.Upsert(req)
	c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
}

// SellerOrders handles GET /api/v1/sellers/orders
//
// The candidate identity arrives in query parameters; records with no
// seller linkage are unclaimed and excluded.
func (h *Handlers) SellerOrders(c *gin.Context) {
	candidate := sellerIdentityFromQuery(c)
	if candidate.Email == "" && candidate.Name == "" && candidate.StoreName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller identity is required"})
		return
	}

	views := h.store.Orders()
	matched := make([]store.OrderView, 0)
	for _, v := range views {
		if seller.Matches(v.SellerKeys(), candidate) {
			matched = append(matched, v)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": matched,
		"count":  len(matched),
	})
}

// SellerEarnings handles GET /api/v1/sellers/earnings
func (h *Handlers) SellerEarnings(c *gin.Context) {
	candidate := sellerIdentityFromQuery(c)
	if candidate.Email == "" && candidate.Name == "" && candidate.StoreName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller identity is required"})
		return
	}

	total := decimal.Zero
	pending := decimal.Zero
	count := 0
	for _, v := range h.store.Orders() {
		if !seller.Matches(v.SellerKeys(), candidate) {
			continue
		}
		count++
		switch v.Status {
		case models.OrderStatusCompleted:
			total = total.Add(v.Amount)
		case models.OrderStatusPending:
			pending = pending.Add(v.Amount)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalEarnings":   total,
		"pendingEarnings": pending,
		"totalOrders":     count,
	})
}

func sellerIdentityFromQuery(c *gin.Context) models.SellerIdentity {
	return models.SellerIdentity{
		UserID:    c.Query("userId"),
		Email:     c.Query("email"),
		Name:      c.Query("name"),
		StoreName: c.Query("storeName"),
	}
}
