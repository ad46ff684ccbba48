package validator

import (
	"bloodbank-inventory/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return entity.BloodGroup(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("bagstatus", func(fl validator.FieldLevel) bool {
		return entity.BagStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
		return entity.Urgency(fl.Field().String()).IsValid()
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "bloodgroup":
				errors[field] = field + " must be one of A+, A-, B+, B-, AB+, AB-, O+, O-"
			case "bagstatus":
				errors[field] = field + " must be one of available, used, expired, quarantined"
			case "urgency":
				errors[field] = field + " must be one of normal, urgent, emergency"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
