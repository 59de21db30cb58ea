package contact

import (
	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const entityType = "contact"

type Handler struct {
	svc      *Service
	activity *activity.Service
}

func NewHandler(svc *Service, activitySvc *activity.Service) *Handler {
	return &Handler{svc: svc, activity: activitySvc}
}

// RegisterRoutes mounts the contact endpoints. submitMW guards the public
// form, typically rate limiting and duplicate suppression.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, submitMW ...gin.HandlerFunc) {
	g := rg.Group("/contacts")
	g.POST("", append(submitMW, h.submit)...)

	authed := g.Group("", authMW)
	authed.GET("", h.list)
	authed.GET("/new", h.listNew)
	authed.GET("/:id", h.get)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
	authed.POST("/:id/reply", h.reply)
}

func (h *Handler) submit(c *gin.Context) {
	var dto CreateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.normalize()
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}

	contact, err := h.svc.Submit(&Submission{
		CreateContactDTO: dto,
		IPAddress:        middleware.ClientIP(c),
		UserAgent:        c.Request.UserAgent(),
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	metrics.ContactsSubmitted.Inc()
	response.Created(c, contact)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Standard)
	contacts, pag, err := h.svc.List(q, ListQuery{Status: c.Query("status"), Search: c.Query("search")})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, contacts, pag)
}

func (h *Handler) listNew(c *gin.Context) {
	q := pagination.FromContext(c, pagination.Standard)
	contacts, pag, err := h.svc.List(q, ListQuery{Status: "new", Search: c.Query("search")})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, contacts, pag)
}

func (h *Handler) get(c *gin.Context) {
	contact, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if contact == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	contact, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if contact == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, contact)
}

func (h *Handler) reply(c *gin.Context) {
	var dto ReplyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(); err != nil {
		response.Validation(c, err)
		return
	}
	contact, err := h.svc.Reply(c.Param("id"), middleware.CurrentUserID(c), dto.AdminReply)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if contact == nil {
		response.NotFound(c)
		return
	}
	h.activity.Track(c, activity.ActionReplyContact, entityType, contact.ID, "Replied to contact from "+contact.Name)
	response.OK(c, contact)
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
