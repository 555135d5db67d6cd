package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries the message of the first violated rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			if len(v) != 11 {
				return false
			}
			for _, r := range v {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		})
	})
	return validate
}

func ValidateRequest(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	return &ValidationError{Message: messageFor(verrs[0])}
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "email":
		return "E-mail inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s deve ter no mínimo %s itens", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s deve ter no máximo %s itens", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s deve ter %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, fe.Param())
	case "cpf":
		return "CPF deve ter 11 dígitos"
	case "uuid", "uuid4":
		return fmt.Sprintf("%s deve ser um identificador válido", field)
	default:
		return fmt.Sprintf("%s inválido", field)
	}
}
