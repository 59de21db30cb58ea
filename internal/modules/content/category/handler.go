package category

import (
	"errors"

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
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.GET("/tree", h.tree)
	cats.GET("/:slug", h.get)

	authed := cats.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:slug", h.update)
	authed.PATCH("/:slug", h.update)
	authed.DELETE("/:slug", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List(ListQuery{Type: c.Query("type"), IsActive: c.Query("is_active")})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cats)
}

func (h *Handler) tree(c *gin.Context) {
	nodes, err := h.svc.Tree(c.Query("type"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, nodes)
}

func (h *Handler) get(c *gin.Context) {
	cat, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	cat, err := h.svc.Update(c.Param("slug"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if cat == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Param("slug"))
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

func writeError(c *gin.Context, err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		response.Invalid(c, fields)
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrParentMissing), errors.Is(err, ErrParentCycle):
		response.Invalid(c, map[string]string{"parent": err.Error()})
	default:
		response.InternalError(c, err)
	}
}
