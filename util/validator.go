package util

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("tags", validateTags)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

// tags is a comma-delimited list with no blank entries. SplitTags drops
// blanks, so a count mismatch against the raw split means one was present.
func validateTags(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	return len(SplitTags(raw)) == len(strings.Split(raw, ","))
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
