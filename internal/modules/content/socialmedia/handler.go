package socialmedia

import (
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/social-media")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	links, err := h.svc.List(!middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, links)
}

func (h *Handler) get(c *gin.Context) {
	link, err := h.svc.GetByID(c.Param("id"), !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if link == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, link)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSocialMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	link, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, link)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSocialMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	link, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if link == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, link)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Param("id"))
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
