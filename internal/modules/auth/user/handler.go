package user

import (
	"errors"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/pkg/pagination"
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
	g := rg.Group("/users", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.Invalid(c, verrs)
	case errors.Is(err, errUsernameTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, errDeleteSelf):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Standard)
	users, pag, err := h.svc.List(q, ListQuery{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, users, pag)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, u)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.svc.Create(&dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, u)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, u)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
