package auth

import (
	"errors"
	"fmt"

	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const entityType = "user"

type Handler struct {
	svc      *Service
	activity *activity.Service
}

func NewHandler(svc *Service, activitySvc *activity.Service) *Handler {
	return &Handler{svc: svc, activity: activitySvc}
}

// RegisterRoutes mounts the auth endpoints with and without the trailing
// slash clients of the old API send. loginMW guards both login routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, loginMW ...gin.HandlerFunc) {
	login := append(loginMW[:len(loginMW):len(loginMW)], h.login)
	for _, suffix := range []string{"", "/"} {
		rg.POST("/token"+suffix, login...)
		rg.POST("/token/refresh"+suffix, h.refresh)
	}

	a := rg.Group("/auth")
	for _, suffix := range []string{"", "/"} {
		a.POST("/login"+suffix, login...)
		a.POST("/token/refresh"+suffix, h.refresh)
		a.POST("/logout"+suffix, authMW, h.logout)
		a.GET("/profile"+suffix, authMW, h.profile)
	}
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(dto.Username, dto.Password)
	switch {
	case errors.Is(err, errInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		response.UnauthorizedMsg(c, err.Error())
		return
	case errors.Is(err, errInactiveAccount):
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		response.ForbiddenMsg(c, err.Error())
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}

	access, refresh, err := h.svc.IssueTokens(user)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.activity.TrackUser(c, user.ID, activity.ActionLogin, entityType, user.ID,
		fmt.Sprintf("User %s logged in", user.Username))

	response.OK(c, loginResponse{Access: access, Refresh: refresh, User: toProfile(user)})
}

func (h *Handler) refresh(c *gin.Context) {
	var dto RefreshDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	access, err := h.svc.Refresh(dto.Refresh)
	switch {
	case errors.Is(err, errInvalidRefresh), errors.Is(err, errInactiveAccount):
		response.UnauthorizedMsg(c, err.Error())
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}
	response.OK(c, refreshResponse{Access: access})
}

func (h *Handler) logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	user, err := h.svc.GetByID(userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	name := userID
	if user != nil {
		name = user.Username
	}
	h.activity.Track(c, activity.ActionLogout, entityType, userID,
		fmt.Sprintf("User %s logged out", name))
	response.OK(c, gin.H{"message": "Logged out"})
}

func (h *Handler) profile(c *gin.Context) {
	user, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toProfile(user))
}
