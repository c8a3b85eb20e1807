package contact

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Form is a contact submission as posted by the browser. Website is the
// honeypot field; people never see it, bots fill it in.
type Form struct {
	Name    string `form:"name" json:"name" validate:"required,max=100"`
	Email   string `form:"email" json:"email" validate:"email"`
	Message string `form:"message" json:"message" validate:"min=10,max=1000"`
	Website string `form:"website" json:"website"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// messages maps field and failed rule to the text shown to the sender.
var messages = map[string]map[string]string{
	"Name": {
		"required": "Name is required",
		"max":      "Name must be at most 100 characters",
	},
	"Email": {
		"email": "Invalid email address",
	},
	"Message": {
		"min": "Message must be at least 10 characters",
		"max": "Message must be at most 1000 characters",
	},
}

// Validate returns the message of the first violated rule, or "" when the
// form is acceptable. A filled honeypot fails before any other rule and
// with a message that does not reveal the check.
func (f Form) Validate() string {
	if f.Website != "" {
		return msgValidationFailed
	}

	err := validate.Struct(f)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return msgValidationFailed
	}
	first := fieldErrs[0]
	if msg, ok := messages[first.StructField()][first.Tag()]; ok {
		return msg
	}
	return msgValidationFailed
}
