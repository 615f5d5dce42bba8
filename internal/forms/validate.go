// Package forms holds the typed drafts behind the admin editors and maps them
// to API payloads.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"

	"pencilpost/internal/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their form names so messages line up with inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.IsSlug(fl.Field().String())
	})
	return v
}

// check validates a draft and converts failures to an errs.ValidationError
// keyed by form field name.
func check(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return errs.Validation("Please fix the highlighted fields", fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "url|startswith=/":
		return fmt.Sprintf("%s must be a URL or a site path", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "slug":
		return "slug must contain only lowercase letters, numbers and hyphens"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// SplitKeywords turns "a, b,,c " into [a b c]. The result is never nil.
func SplitKeywords(s string) []string {
	keywords := []string{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
