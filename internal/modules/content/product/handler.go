package product

import (
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const entityType = "product"

type Handler struct {
	svc      *Service
	activity *activity.Service
}

func NewHandler(svc *Service, activitySvc *activity.Service) *Handler {
	return &Handler{svc: svc, activity: activitySvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/products")
	g.GET("", h.list)
	g.GET("/popular", h.popular)
	g.GET("/by_category", h.byCategory)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Products)
	products, pag, err := h.svc.List(q, ListQuery{
		Category:  c.Query("category"),
		Status:    c.Query("status"),
		IsPopular: c.Query("is_popular"),
		Search:    c.Query("search"),
		Ordering:  c.Query("ordering"),
		Public:    !middleware.IsAuthenticated(c),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, products, pag)
}

func (h *Handler) popular(c *gin.Context) {
	products, err := h.svc.Popular(PopularLimit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, products)
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		response.BadRequest(c, "category is required")
		return
	}
	products, pag, err := h.svc.ByCategory(category, pagination.FromContext(c, pagination.Products))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, products, pag)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	p, err := h.svc.GetByID(id, !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.IncrementView(id); err != nil {
		response.InternalError(c, err)
		return
	}
	p.ViewCount++
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.activity.Track(c, activity.ActionCreate, entityType, p.ID, "Created product "+p.Name)
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	h.activity.Track(c, activity.ActionUpdate, entityType, p.ID, "Updated product "+p.Name)
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.svc.Delete(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	h.activity.Track(c, activity.ActionDelete, entityType, id, "Deleted product "+id)
	response.NoContent(c)
}
