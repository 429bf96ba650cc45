package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"stream-backend/constant"
	"stream-backend/service"
)

type IngestHandler struct {
	service service.IngestService
}

func NewIngestHandler(service service.IngestService) *IngestHandler {
	return &IngestHandler{service: service}
}

type beginUploadRequest struct {
	EntryId string `json:"entryId" binding:"required,uuid"`
}

type finalizeRequest struct {
	EntryId    string `json:"entryId" binding:"required,uuid"`
	EntryType  string `json:"entryType"`
	PlaybackId string `json:"playbackId" binding:"required"`
}

// DirectUpload mints an upload session for a movie. The response carries the
// single-use provider URL; the media bytes never pass through this backend.
func (h *IngestHandler) DirectUpload(c *gin.Context) {
	h.beginUpload(c, constant.EntryTypeMovie)
}

// DirectUploadSeries is the episode flavour of DirectUpload.
func (h *IngestHandler) DirectUploadSeries(c *gin.Context) {
	h.beginUpload(c, constant.EntryTypeEpisode)
}

func (h *IngestHandler) beginUpload(c *gin.Context, entryType constant.EntryType) {
	var req beginUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entryId, err := uuid.Parse(req.EntryId)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	target, err := h.service.BeginUpload(c.Request.Context(), entryId, entryType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, target)
}

func (h *IngestHandler) AssetStatus(c *gin.Context) {
	uploadId := c.Param("uploadId")
	if uploadId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload id is required"})
		return
	}

	result, err := h.service.PollStatus(c.Request.Context(), uploadId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *IngestHandler) Finalize(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryType := constant.EntryType(req.EntryType)
	if entryType == "" {
		entryType = constant.EntryTypeMovie
	}
	if entryType != constant.EntryTypeMovie && entryType != constant.EntryTypeEpisode {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entry type"})
		return
	}

	entryId, err := uuid.Parse(req.EntryId)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.service.Finalize(c.Request.Context(), entryId, entryType, req.PlaybackId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
