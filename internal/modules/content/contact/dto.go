package contact

import (
	"strings"

	"github.com/ebgreentek/core/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var contactStatuses = []interface{}{
	models.ContactStatusNew,
	models.ContactStatusReplied,
	models.ContactStatusClosed,
}

// CreateContactDTO is the public contact form.
type CreateContactDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (d *CreateContactDTO) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Subject = strings.TrimSpace(d.Subject)
	d.Message = strings.TrimSpace(d.Message)
}

func (d CreateContactDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&d.Email, validation.Required, is.EmailFormat, validation.Length(3, 254)),
		validation.Field(&d.Phone, validation.Length(0, 20)),
		validation.Field(&d.Subject, validation.RuneLength(0, 200)),
		validation.Field(&d.Message, validation.Required),
	)
}

// UpdateContactDTO is used by staff for PUT and PATCH.
type UpdateContactDTO struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Subject    *string `json:"subject"`
	Message    *string `json:"message"`
	Status     *string `json:"status"`
	AdminReply *string `json:"admin_reply"`
}

func (d UpdateContactDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
		validation.Field(&d.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&d.Phone, validation.Length(0, 20)),
		validation.Field(&d.Subject, validation.RuneLength(0, 200)),
		validation.Field(&d.Message, validation.NilOrNotEmpty),
		validation.Field(&d.Status, validation.In(contactStatuses...)),
	)
}

// ReplyDTO carries a staff reply.
type ReplyDTO struct {
	AdminReply string `json:"admin_reply"`
}

func (d ReplyDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.AdminReply, validation.Required),
	)
}
