package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mochkris/compras-api/internal/domain"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct valida los tags `validate` del struct y traduce los fallos a un
// *domain.ValidationError con un mensaje por campo (nombres en snake_case
// tomados del tag json).
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		var verr validator.ValidationErrors
		if !errors.As(err, &verr) {
			return err
		}
		fields := make([]domain.FieldError, 0, len(verr))
		for _, fe := range verr {
			fields = append(fields, domain.FieldError{
				Field:   strings.ToLower(toSnake(fe.Field())),
				Message: message(fe),
			})
		}
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "min":
		return fmt.Sprintf("debe ser al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("debe ser a lo sumo %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("formato esperado %s", fe.Param())
	default:
		return fmt.Sprintf("no cumple la regla %q", fe.Tag())
	}
}

// toSnake convierte CamelCase a snake_case (nombres de campo Go → JSON).
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' && i > 0 {
			prev := s[i-1]
			if prev < 'A' || prev > 'Z' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
