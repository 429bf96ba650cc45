package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"stream-backend/service"
)

type EntitlementHandler struct {
	service service.EntitlementService
}

func NewEntitlementHandler(service service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{service: service}
}

func (h *EntitlementHandler) CheckPremium(c *gin.Context) {
	userId, ok := parseUserId(c)
	if !ok {
		return
	}

	premium, err := h.service.CheckPremium(c.Request.Context(), userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"premium": premium})
}

func (h *EntitlementHandler) CheckSubscription(c *gin.Context) {
	userId, ok := parseUserId(c)
	if !ok {
		return
	}

	sub, err := h.service.CheckSubscription(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "expiresAt": sub.ExpiresAt})
}

func (h *EntitlementHandler) Access(c *gin.Context) {
	userId, ok := parseUserId(c)
	if !ok {
		return
	}

	access, err := h.service.Access(c.Request.Context(), userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func parseUserId(c *gin.Context) (uuid.UUID, bool) {
	userId, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return userId, true
}
