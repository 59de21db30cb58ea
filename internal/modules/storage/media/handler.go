package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	activity *activity.Service
}

func NewHandler(svc *Service, activitySvc *activity.Service) *Handler {
	return &Handler{svc: svc, activity: activitySvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/media")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)

	rg.POST("/upload-image/", authMW, h.uploadImage)
	rg.POST("/upload-image", authMW, h.uploadImage)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Standard)
	files, pag, err := h.svc.List(q, ListQuery{
		FileType:   c.Query("file_type"),
		EntityType: c.Query("entity_type"),
		IsPublic:   c.Query("is_public"),
		Search:     c.Query("search"),
		Public:     !middleware.IsAuthenticated(c),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, files, pag)
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"), !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, m)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	m, err := h.svc.Create(&dto, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	m, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, m)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func (h *Handler) uploadImage(c *gin.Context) {
	limit := h.svc.MaxBytes()
	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.BadRequest(c, fmt.Sprintf("file too large, the limit is %d MB", limit>>20))
			return
		}
		response.BadRequest(c, "no image file provided")
		return
	}
	if fileHeader.Size > limit {
		response.BadRequest(c, fmt.Sprintf("file too large, the limit is %d MB", limit>>20))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	m, err := h.svc.UploadImage(c.Request.Context(), ImageUpload{
		FileName:   fileHeader.Filename,
		Data:       data,
		UploadedBy: middleware.CurrentUserID(c),
	})
	switch {
	case errors.Is(err, ErrTooLarge):
		response.BadRequest(c, fmt.Sprintf("file too large, the limit is %d MB", limit>>20))
		return
	case errors.Is(err, ErrNotImage), errors.Is(err, ErrCorruptImage), errors.Is(err, ErrEmptyUpload):
		response.BadRequest(c, err.Error())
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	h.activity.Track(c, activity.ActionUploadImage, "media", m.ID, "Uploaded image: "+m.FileName)
	response.OK(c, gin.H{
		"url":       m.FileURL,
		"file_url":  m.FileURL,
		"image_url": m.FileURL,
		"id":        m.ID,
		"file_name": m.FileName,
		"file_size": m.FileSize,
		"width":     m.Width,
		"height":    m.Height,
	})
}
