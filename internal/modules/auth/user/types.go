package user

import (
	"errors"
	"regexp"

	"github.com/ebgreentek/core/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	validRoles    = []interface{}{models.RoleAdmin, models.RoleEditor, models.RoleViewer}
	validStatus   = []interface{}{models.StatusActive, models.StatusInactive}
)

type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (d CreateUserDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required, validation.RuneLength(1, 150), validation.Match(usernameRegex)),
		validation.Field(&d.Email, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&d.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&d.FullName, validation.RuneLength(0, 100)),
		validation.Field(&d.Role, validation.In(validRoles...)),
		validation.Field(&d.Status, validation.In(validStatus...)),
	)
}

type UpdateUserDTO struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

func (d UpdateUserDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.NilOrNotEmpty, validation.RuneLength(1, 150), validation.Match(usernameRegex)),
		validation.Field(&d.Email, is.EmailFormat, validation.Length(0, 254)),
		validation.Field(&d.Password, validation.NilOrNotEmpty, validation.Length(6, 128)),
		validation.Field(&d.FullName, validation.RuneLength(0, 100)),
		validation.Field(&d.Role, validation.NilOrNotEmpty, validation.In(validRoles...)),
		validation.Field(&d.Status, validation.NilOrNotEmpty, validation.In(validStatus...)),
	)
}

type ListQuery struct {
	Role   string
	Status string
	Search string
}

var (
	errUsernameTaken = errors.New("username already exists")
	errDeleteSelf    = errors.New("cannot delete the signed-in account")
)
