package activity

import (
	"strconv"

	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the read-only log. Every route requires auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/activity-logs", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Standard)
	logs, pag, err := h.svc.List(q, Filter{
		UserID:     c.Query("user"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, logs, pag)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}
	entry, err := h.svc.GetByID(uint(id))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if entry == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, entry)
}
