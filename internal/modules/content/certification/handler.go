package certification

import (
	"errors"

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
	g := rg.Group("/certifications")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	certs, err := h.svc.List(!middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, certs)
}

func (h *Handler) get(c *gin.Context) {
	cert, err := h.svc.GetByID(c.Param("id"), !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cert == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cert)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCertificationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	cert, err := h.svc.Create(&dto)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, cert)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCertificationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	cert, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		writeError(c, err)
		return
	}
	if cert == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, cert)
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

func writeError(c *gin.Context, err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		response.Invalid(c, fields)
		return
	}
	response.InternalError(c, err)
}
