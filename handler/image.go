package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"stream-backend/service"
)

type ImageHandler struct {
	images  service.ImageService
	catalog service.CatalogService
}

func NewImageHandler(images service.ImageService, catalog service.CatalogService) *ImageHandler {
	return &ImageHandler{
		images:  images,
		catalog: catalog,
	}
}

// UploadTrailerPoster relays a movie poster binary to the image store.
func (h *ImageHandler) UploadTrailerPoster(c *gin.Context) {
	movieId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	if _, err := h.catalog.GetMovie(c.Request.Context(), movieId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename, data, contentType, err := readUpload(c, "poster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.images.UploadMoviePoster(c.Request.Context(), movieId, filename, data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadSeries creates the series row and then relays the poster. A poster
// failure after the row exists is reported as a partial success with an
// imageError field rather than failing the whole request.
func (h *ImageHandler) UploadSeries(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	description := c.PostForm("description")

	series, err := h.catalog.CreateSeries(c.Request.Context(), title, description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename, data, contentType, err := readUpload(c, "poster")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"series": series, "imageError": err.Error()})
		return
	}

	url, err := h.images.UploadSeriesPoster(c.Request.Context(), series.ID, filename, data, contentType)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"series": series, "imageError": err.Error()})
		return
	}
	series.PosterUrl = url

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// readUpload buffers the multipart file in memory; posters are small.
func readUpload(c *gin.Context, field string) (string, []byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, "", err
	}

	return header.Filename, data, header.Header.Get("Content-Type"), nil
}
