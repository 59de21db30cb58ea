package about

import (
	"net/http"
	"strconv"

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
	features := rg.Group("/about-features")
	features.GET("", h.listFeatures)
	features.GET("/:id", h.getFeature)
	authedFeatures := features.Group("", authMW)
	authedFeatures.POST("", h.createFeature)
	authedFeatures.PUT("/:id", h.updateFeature)
	authedFeatures.PATCH("/:id", h.updateFeature)
	authedFeatures.DELETE("/:id", h.deleteFeature)

	values := rg.Group("/about-values")
	values.GET("", h.listValues)
	values.GET("/:id", h.getValue)
	authedValues := values.Group("", authMW)
	authedValues.POST("", h.createValue)
	authedValues.PUT("/:id", h.updateValue)
	authedValues.PATCH("/:id", h.updateValue)
	authedValues.DELETE("/:id", h.deleteValue)
}

// idParam parses :id; unknown ids share the 404 of missing rows.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

// partial reports whether the request only carries changed fields.
func partial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}

func (h *Handler) listFeatures(c *gin.Context) {
	features, err := h.svc.Features(!middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, features)
}

func (h *Handler) getFeature(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.svc.Feature(id, !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if f == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, f)
}

func (h *Handler) createFeature(c *gin.Context) {
	var dto FeatureDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(false); err != nil {
		response.Validation(c, err)
		return
	}
	f, err := h.svc.CreateFeature(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, f)
}

func (h *Handler) updateFeature(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var dto FeatureDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(partial(c)); err != nil {
		response.Validation(c, err)
		return
	}
	f, err := h.svc.UpdateFeature(id, &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if f == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, f)
}

func (h *Handler) deleteFeature(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteFeature(id)
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

func (h *Handler) listValues(c *gin.Context) {
	values, err := h.svc.Values(!middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, values)
}

func (h *Handler) getValue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	v, err := h.svc.Value(id, !middleware.IsAuthenticated(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if v == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, v)
}

func (h *Handler) createValue(c *gin.Context) {
	var dto ValueDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(false); err != nil {
		response.Validation(c, err)
		return
	}
	v, err := h.svc.CreateValue(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, v)
}

func (h *Handler) updateValue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var dto ValueDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := dto.Validate(partial(c)); err != nil {
		response.Validation(c, err)
		return
	}
	v, err := h.svc.UpdateValue(id, &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if v == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, v)
}

func (h *Handler) deleteValue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteValue(id)
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
