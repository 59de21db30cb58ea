package article

import (
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const entityType = "article"

type Handler struct {
	svc      *Service
	activity *activity.Service
}

func NewHandler(svc *Service, activitySvc *activity.Service) *Handler {
	return &Handler{svc: svc, activity: activitySvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/articles")
	g.GET("", h.list)
	g.GET("/featured", h.featured)
	g.GET("/by_category", h.byCategory)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Articles)
	articles, pag, err := h.svc.List(q, ListQuery{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		IsFeatured: c.Query("is_featured"),
		Author:     c.Query("author"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
		Public:     !middleware.IsAuthenticated(c),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, articles, pag)
}

func (h *Handler) featured(c *gin.Context) {
	articles, err := h.svc.Featured(!middleware.IsAuthenticated(c), FeaturedLimit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		response.BadRequest(c, "category is required")
		return
	}
	q := pagination.FromContext(c, pagination.Articles)
	articles, pag, err := h.svc.ByCategory(category, !middleware.IsAuthenticated(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, articles, pag)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	a, err := h.svc.GetByID(id, !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.IncrementView(id); err != nil {
		response.InternalError(c, err)
		return
	}
	a.ViewCount++
	response.OK(c, h.svc.Detail(a))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.activity.Track(c, activity.ActionCreate, entityType, a.ID, "Created article "+a.Title)
	response.Created(c, h.svc.Detail(a))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	h.activity.Track(c, activity.ActionUpdate, entityType, a.ID, "Updated article "+a.Title)
	response.OK(c, h.svc.Detail(a))
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
	h.activity.Track(c, activity.ActionDelete, entityType, id, "Deleted article "+id)
	response.NoContent(c)
}
