package middleware

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/jwt"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

var errInactiveAccount = errors.New("account is inactive")

// Auth returns a middleware that requires a valid access token belonging to
// an active user. A user already resolved by OptionalAuth is accepted as is.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		user, err := ValidateAccessToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth sets the user if a valid access token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, err := ValidateAccessToken(db, token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// ValidateAccessToken parses an access token and loads its active owner.
// Refresh tokens are rejected.
func ValidateAccessToken(db *gorm.DB, rawToken string) (*models.UserModel, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.ParseKind(token, jwt.KindAccess)
	if err != nil {
		return nil, err
	}

	var user models.UserModel
	if err := db.Select("id", "username", "role", "status").
		Where("id = ?", claims.UserID).
		First(&user).Error; err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, errInactiveAccount
	}
	return &user, nil
}

func setUser(c *gin.Context, user *models.UserModel) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUserRole, user.Role)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentUserRole extracts the authenticated user's role from context.
func CurrentUserRole(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserRole)
	role, _ := v.(string)
	return role
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

// ClientIP returns the first X-Forwarded-For hop, falling back to the peer
// address.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	return c.RemoteIP()
}
