package setting

import (
	"errors"
	"fmt"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings")
	g.GET("", h.list)
	g.GET("/public", h.public)
	g.GET("/:key", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.POST("/bulk_update", h.bulkUpdate)
	authed.PUT("/:key", h.update)
	authed.PATCH("/:key", h.update)
	authed.DELETE("/:key", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	settings, err := h.svc.List(ListQuery{
		Group:    c.Query("setting_group"),
		IsPublic: c.Query("is_public"),
		Public:   !middleware.IsAuthenticated(c),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, settings)
}

func (h *Handler) public(c *gin.Context) {
	grouped, err := h.svc.Public(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, grouped)
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.svc.GetByKey(c.Param("key"), !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if st == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, st)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSettingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	st, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, st)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSettingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	st, err := h.svc.Update(c.Request.Context(), c.Param("key"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if st == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, st)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("key"))
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

func (h *Handler) bulkUpdate(c *gin.Context) {
	var dto BulkUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := ValidateBulkKeys(dto.Settings); err != nil {
		writeError(c, err)
		return
	}
	keys, err := h.svc.BulkUpdate(c.Request.Context(), dto.Settings)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message": fmt.Sprintf("Updated %d settings", len(keys)),
		"updated": keys,
	})
}

func writeError(c *gin.Context, err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		response.Invalid(c, fields)
	case errors.Is(err, ErrKeyTaken):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
