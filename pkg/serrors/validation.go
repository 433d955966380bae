package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ProcessValidatorErrors converts go-playground/validator failures into
// per-field structured errors.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = NewFieldRequiredError(field)
		default:
			out[field] = &FieldError{
				BaseError: BaseError{
					Code:    "FIELD_INVALID",
					Message: fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()),
				},
				Field: field,
			}
		}
	}
	return out
}
