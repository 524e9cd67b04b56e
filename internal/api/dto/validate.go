package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into the
// standard VALIDATION_FAILED error shape.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
