package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// maxMoney tope exclusivo de los montos: las columnas son NUMERIC(14,2).
var maxMoney = decimal.New(1, 12)

// instance devuelve el validador compartido (thread-safe, inicializado una vez).
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Los nombres de campo en los mensajes usan el tag json.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// decimal.Decimal se valida como float64 para que gt/lt funcionen en montos.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			if d, ok := v.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		// money: a lo sumo 2 decimales y por debajo de maxMoney (llega como float64).
		if err := validate.RegisterValidation("money", validMoney); err != nil {
			panic(err)
		}
	})
	return validate
}

func validMoney(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Float64 {
		return false
	}
	d := decimal.NewFromFloat(field.Float())
	return d.Equal(d.Truncate(2)) && d.Abs().LessThan(maxMoney)
}

// Struct valida s según sus tags. Devuelve *domain.ValidationError con un mensaje por campo.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := &domain.ValidationError{Fields: make(map[string]string, len(ve))}
		for _, fe := range ve {
			out.Fields[fieldPath(fe)] = fieldError(fe)
		}
		return out
	}
	return domain.NewValidationError("body", err.Error())
}

// fieldPath quita el nombre del struct raíz del namespace (CreateCreatorRequest.name -> name).
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// fieldError convierte un FieldError en un mensaje legible.
func fieldError(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "email":
		return field + " debe ser un email válido"
	case "url":
		return field + " debe ser una URL válida"
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s admite como máximo %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s debe tener exactamente %s caracteres", field, fe.Param())
	case "money":
		return fmt.Sprintf("%s admite como máximo 2 decimales y debe ser menor que %s", field, maxMoney.String())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", field, fe.Tag())
	}
}
