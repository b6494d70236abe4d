// Package validation проверяет входные запросы на границе HTTP-слоя.
// Замечания возвращаются структурированным списком, а не по одному.
package validation

import (
	"errors"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/jcmicro/order-service/internal/domain"
)

// New возвращает настроенный validator.
func New() *validatorv10.Validate {
	return validatorv10.New()
}

// ToDomain переводит ошибки validator'а в доменный список замечаний.
func ToDomain(err error) domain.ValidationErrors {
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	out := make(domain.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation rule " + fe.Tag()
	}
}
