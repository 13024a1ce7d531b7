package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"fieldops/internal/lifecycle"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	phonePattern = regexp.MustCompile(`^[+\d\s()-]+$`)
)

func GetValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages match the request body.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// ValidateStruct cleans the string fields of v, runs its struct tags and folds
// every failure into one validation error. Length rules therefore apply to the
// text that gets stored.
func ValidateStruct(v any) error {
	CleanStruct(v)

	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	return lifecycle.Invalid("%s", strings.Join(ParseErrors(err), "; "))
}

func ParseErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	ok := errors.As(err, &validationErrors)
	if !ok {
		return []string{"Unknown error"}
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, prettyError(e))
	}

	return errs
}

func prettyError(e validator.FieldError) string {
	if strings.Contains(e.Tag(), "eq=") {
		params := strings.ReplaceAll(e.Tag(), "|", "")
		splitted := strings.Split(params, "eq=")

		var values []string
		for _, str := range splitted {
			if str != "" {
				values = append(values, str)
			}
		}

		return fmt.Sprintf("%s must be %s", e.Field(), strings.Join(values, " or "))
	}

	switch e.Tag() {
	case "required":
		return e.Field() + " field is required"
	case "required_with":
		return fmt.Sprintf("%s is required together with %s", e.Field(), e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be greater than or equal to %s", e.Field(), e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "unique":
		return e.Field() + " must not contain duplicates"
	case "email":
		return e.Field() + " must be a valid email address"
	case "phone":
		return e.Field() + " may only contain digits, spaces, +, ( ) and -"
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Error()
	}
}
