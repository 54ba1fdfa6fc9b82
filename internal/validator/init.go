package validator

import (
	"ctchen222/tictactoe-engine/internal/game"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names, as clients see them.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// "cell" accepts a row or column index on the board.
	_ = validate.RegisterValidation("cell", func(fl validator.FieldLevel) bool {
		v := fl.Field().Int()
		return v >= game.BorderMin && v <= game.BorderMax
	})
}

func GetValidator() *validator.Validate {
	return validate
}
