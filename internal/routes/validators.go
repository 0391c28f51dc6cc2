package routes

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// número de celular indonesio: 08xx, 628xx o +628xx
var idPhonePattern = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,11}$`)

// RegisterValidators agrega la etiqueta idphone y reporta los campos con su
// nombre JSON en los errores de validación.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v.RegisterValidation("idphone", validIDPhone)
}

func validIDPhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return idPhonePattern.MatchString(phone)
}
