package auth

import (
	"errors"

	"github.com/ebgreentek/core/internal/models"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshDTO struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Profile is the public view of the signed-in account.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type loginResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    *Profile `json:"user"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

var (
	errInvalidCredentials = errors.New("invalid username or password")
	errInactiveAccount    = errors.New("account is inactive")
	errInvalidRefresh     = errors.New("invalid refresh token")
)

func toProfile(u *models.UserModel) *Profile {
	return &Profile{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FullName: u.FullName, Role: u.Role, Status: u.Status,
	}
}
